package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-crypto-dash/internal/metrics"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const (
	HeaderRequestID   = "X-Request-ID"
	HeaderContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Refresher exchanges the stored refresh token for a new access token. A failed
// refresh has already cleared the session by the time the error is returned.
type Refresher interface {
	Refresh(ctx context.Context) (*oauth2.Token, error)
}

// Transport decorates requests and performs the refresh-then-retry sequence.
// A Transport without a Refresher only decorates.
type Transport struct {
	source    oauth2.TokenSource
	refresher Refresher
	base      http.RoundTripper
	tracing   bool
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Transport)

// WithBase sets the round tripper requests are finally sent through.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) {
		t.base = rt
	}
}

// WithTracing wraps the base round tripper with OpenTelemetry client spans.
func WithTracing(enabled bool) Option {
	return func(t *Transport) {
		t.tracing = enabled
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

var _ http.RoundTripper = (*Transport)(nil)

// New returns a Transport attaching tokens from source and refreshing through
// refresher. Either may be nil.
func New(source oauth2.TokenSource, refresher Refresher, opts ...Option) *Transport {
	t := &Transport{
		source:    source,
		refresher: refresher,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.base == nil {
		t.base = http.DefaultTransport
	}
	if t.tracing {
		t.base = otelhttp.NewTransport(t.base)
	}
	return t
}

// pendingRequest is a request that may have to be replayed after a refresh.
type pendingRequest struct {
	req       *http.Request
	body      []byte
	getBody   func() (io.ReadCloser, error)
	sentToken string
	retried   bool
}

func newPendingRequest(req *http.Request) (*pendingRequest, error) {
	p := &pendingRequest{req: req}
	if req.Body == nil || req.Body == http.NoBody {
		return p, nil
	}
	defer req.Body.Close()
	if req.GetBody != nil {
		p.getBody = req.GetBody
		return p, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	p.body = body
	return p, nil
}

// build returns a fresh clone of the original request with a readable body.
func (p *pendingRequest) build(ctx context.Context) (*http.Request, error) {
	out := p.req.Clone(ctx)
	switch {
	case p.getBody != nil:
		body, err := p.getBody()
		if err != nil {
			return nil, err
		}
		out.Body = body
	case p.body != nil:
		out.Body = io.NopCloser(bytes.NewReader(p.body))
		out.ContentLength = int64(len(p.body))
	}
	return out, nil
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	p, err := newPendingRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := t.dispatch(p, t.currentToken())
	if err != nil {
		return nil, err
	}
	if !isAuthStatus(resp.StatusCode) || t.refresher == nil {
		return resp, nil
	}
	return t.intercept(p, resp)
}

// dispatch sends one attempt of p, authenticated with token when it is not nil.
func (t *Transport) dispatch(p *pendingRequest, token *oauth2.Token) (*http.Response, error) {
	out, err := p.build(p.req.Context())
	if err != nil {
		return nil, err
	}
	if out.Header.Get(HeaderContentType) == "" {
		out.Header.Set(HeaderContentType, contentTypeJSON)
	}
	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}

	p.sentToken = ""
	if token != nil && token.AccessToken != "" {
		token.SetAuthHeader(out)
		p.sentToken = token.AccessToken
	}
	return t.base.RoundTrip(out)
}

// intercept handles an authorization error on p. The returned response is either
// the replayed request's response or, when no replay happens, resp itself.
func (t *Transport) intercept(p *pendingRequest, resp *http.Response) (*http.Response, error) {
	log := t.logger.With().
		Str("method", p.req.Method).
		Str("path", p.req.URL.Path).
		Int("status", resp.StatusCode).
		Logger()

	if p.retried {
		log.Debug().Msg("authorization error on replayed request")
		return resp, nil
	}
	p.retried = true

	next := t.currentToken()
	if next == nil || next.AccessToken == p.sentToken {
		var err error
		next, err = t.refresher.Refresh(p.req.Context())
		if err != nil {
			log.Info().Err(err).Msg("token refresh failed, returning original response")
			return resp, nil
		}
	} else {
		log.Debug().Msg("token rotated while request was in flight, replaying with current token")
	}

	drain(resp)
	t.metrics.Retry()

	retryResp, err := t.dispatch(p, next)
	if err != nil {
		return nil, err
	}
	if isAuthStatus(retryResp.StatusCode) {
		log.Info().Int("retry_status", retryResp.StatusCode).Msg("replayed request still unauthorized")
	}
	return retryResp, nil
}

func (t *Transport) currentToken() *oauth2.Token {
	if t.source == nil {
		return nil
	}
	tok, err := t.source.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return nil
	}
	return tok
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
