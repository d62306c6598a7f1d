// Package jwt peeks at bearer tokens issued by the fairdesk API.
//
// The client never validates signatures (the signing secret lives on the
// server); it only reads the expiry claim to avoid a doomed round trip
// with a token that is already stale.
package jwt

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Expiry returns the exp claim of the token without verifying its
// signature. The second return is false when the token is not a parseable
// JWT or carries no expiry; such tokens are treated as opaque and left to
// the server to judge.
func Expiry(token string) (time.Time, bool) {
	parser := jwtlib.NewParser()
	claims := jwtlib.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token carries an expiry claim that has
// already passed at the given instant.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	if !ok {
		return false
	}
	return exp.Before(now)
}
