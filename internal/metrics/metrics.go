// Package metrics holds the Prometheus collectors for the session layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cryptodash"

// Forced logout reasons.
const (
	ReasonRefreshFailed  = "refresh_failed"
	ReasonNoRefreshToken = "no_refresh_token"
	ReasonInactivity     = "inactivity"
	ReasonUser           = "user"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver so components
// can be built without a registry.
type Metrics struct {
	RefreshTotal     *prometheus.CounterVec
	LogoutTotal      *prometheus.CounterVec
	RetryTotal       prometheus.Counter
	LoginTotal       *prometheus.CounterVec
	AuthRequestTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when it is not nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "refresh_total",
			Help:      "Token refresh round trips by outcome",
		}, []string{"outcome"}),
		LogoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logout_total",
			Help:      "Session logouts by reason",
		}, []string{"reason"}),
		RetryTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "retry_total",
			Help:      "Requests replayed after an authorization error",
		}),
		LoginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "login_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
		AuthRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "auth_requests_total",
			Help:      "Auth endpoint requests served by the development backend",
		}, []string{"endpoint", "status"}),
	}
	if reg != nil {
		reg.MustRegister(m.RefreshTotal, m.LogoutTotal, m.RetryTotal, m.LoginTotal, m.AuthRequestTotal)
	}
	return m
}

func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Logout(reason string) {
	if m == nil {
		return
	}
	m.LogoutTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) Retry() {
	if m == nil {
		return
	}
	m.RetryTotal.Inc()
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AuthRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.AuthRequestTotal.WithLabelValues(endpoint, status).Inc()
}
