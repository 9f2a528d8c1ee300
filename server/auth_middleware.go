package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-crypto-dash/internal/errors"
	"github.com/jrsteele09/go-crypto-dash/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the validated access token claims
const ContextKeyClaims ContextKey = "claims"

const (
	detailTokenNotValid  = "Given token not valid for any token type"
	detailNoCredentials  = "Authentication credentials were not provided."
	detailTokenRevoked   = "Token is blacklisted"
	detailNoPermission   = "You do not have permission to perform this action."
	detailRefreshInvalid = "Token is invalid or expired"
)

// bearerToken returns the token of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) (string, bool) {
	scheme, tok, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tok) == "" {
		return "", false
	}
	return strings.TrimSpace(tok), true
}

// RequireAuth is middleware that validates a Bearer access token and stores its
// claims in the request context.
func (s *Server) RequireAuth() middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeDetail(w, http.StatusUnauthorized, detailNoCredentials)
				return
			}

			claims, err := s.tokens.Validate(raw)
			if err != nil {
				detail := detailTokenNotValid
				if errors.Is(err, errors.ErrTokenRevoked) {
					detail = detailTokenRevoked
				}
				s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("access token rejected")
				writeDetail(w, http.StatusUnauthorized, detail)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireSuperuser must run after RequireAuth.
func (s *Server) RequireSuperuser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil || !claims.IsSuperuser {
			writeDetail(w, http.StatusForbidden, detailNoPermission)
			return
		}
		next(w, r)
	}
}

// ClaimsFromContext returns the claims RequireAuth stored, or nil.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims
}
