package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-crypto-dash/internal/config"
	"github.com/jrsteele09/go-crypto-dash/internal/metrics"
	"github.com/jrsteele09/go-crypto-dash/token"
	"github.com/jrsteele09/go-crypto-dash/token/refresh"
	"github.com/jrsteele09/go-crypto-dash/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Repos are the stores the development backend keeps its state in.
type Repos struct {
	Users         users.UserRepo
	RefreshTokens refresh.Repo
}

// Server is a development backend for the dashboard: the four auth endpoints
// plus the market data routes, enough to drive the client end to end.
type Server struct {
	env      string // Environment (e.g., "DEV", "production")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	logger   zerolog.Logger
	repos    Repos
	tokens   *token.Manager
	market   *MarketData
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	nowFunc  func() time.Time
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithNowFunc sets the clock tokens are issued and validated against.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

func WithMarketData(data *MarketData) Option {
	return func(s *Server) {
		s.market = data
	}
}

func New(cfg config.Config, repos Repos, opts ...Option) (*Server, error) {
	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		logger:   zerolog.Nop(),
		repos:    repos,
		registry: prometheus.NewRegistry(),
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.market == nil {
		s.market = NewMarketData()
	}
	s.metrics = metrics.New(s.registry)

	refreshManager := refresh.NewManager(repos.RefreshTokens, cfg, refresh.WithNowFunc(s.nowFunc))
	s.tokens = token.New(token.NewHMACSigner(cfg.GetJWTSecret()), refreshManager, repos.Users,
		token.WithAccessTokenExpiry(cfg.GetAccessTokenExpiry()),
		token.WithNowFunc(s.nowFunc),
	)

	if _, err := s.InitialiseSystem(context.Background()); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Tokens exposes the token manager, mainly so tests can mint tokens.
func (s *Server) Tokens() *token.Manager {
	return s.tokens
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		s.logger.Debug().Str("method", colourMethod(method)).Str("path", path).Msg("route registered")
	}
}

// RunMaintenance prunes the revoked token cache every interval until ctx is done.
func (s *Server) RunMaintenance(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.tokens.CleanupRevokedTokens(); n > 0 {
				s.logger.Debug().Int("removed", n).Msg("pruned revoked tokens")
			}
		}
	}
}
