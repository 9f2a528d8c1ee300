// Package transport is the single HTTP client the dashboard talks to its backend
// through.
//
// Transport is an http.RoundTripper that decorates every request (JSON content
// type, request id, bearer token from the session) and recovers from a stale
// access token: a 401 or 403 triggers one refresh through the Refresher and the
// request is replayed exactly once with the new token. If the refresh fails the
// original response is returned untouched; the Refresher is responsible for the
// forced logout and the redirect to the login view.
//
// Client layers JSON encoding and status-to-error mapping on top.
package transport
