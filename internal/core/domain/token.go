package domain

import "time"

// TokenPair is an access/refresh token set as minted by the token service.
// Expiry times are carried alongside so the cookie layer can derive max-age
// without re-parsing the tokens.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	RememberMe       bool
}

// AccessClaims is the fixed claim set of an access token. Access tokens are
// short-lived and stateless; they are never checked against the revocation
// list.
type AccessClaims struct {
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshClaims is the fixed claim set of a refresh token. JTI identifies
// the token on the revocation list; RememberMe is carried so a refresh can
// preserve the extended lifetime policy of the original login.
type RefreshClaims struct {
	UserID     int64
	JTI        string
	RememberMe bool
	IssuedAt   time.Time
	ExpiresAt  time.Time
}
