package auth

import (
	"time"

	"golang.org/x/oauth2/jws"
)

// AssertionLifetime is the fixed validity window of a signed assertion.
// The token endpoint rejects anything longer.
const AssertionLifetime = time.Hour

// BuildClaims constructs the claim set for a single token request. It is a
// pure function of its arguments: iat is taken from the supplied clock and
// exp is always iat + AssertionLifetime. A claim set is signed at most once
// and never reused - every acquisition builds a fresh one.
func BuildClaims(identity Identity, scope, audience string, now time.Time) *jws.ClaimSet {
	iat := now.Unix()

	return &jws.ClaimSet{
		Iss:   identity.Email,
		Scope: scope,
		Aud:   audience,
		Iat:   iat,
		Exp:   iat + int64(AssertionLifetime/time.Second),
	}
}
