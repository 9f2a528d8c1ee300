package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var claimsParser = jwt.NewParser()

// tokenExpiry reads the exp claim without verifying the signature: the client
// never holds the signing key, and the value is informational only.
func tokenExpiry(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := claimsParser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
