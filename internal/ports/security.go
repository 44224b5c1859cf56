package ports

import "time"

// AuthClaims is the identity resolved from a session token. The user id here
// is the only identifier the service ever scopes data access by.
type AuthClaims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// TokenVerifier validates a bearer token issued by the identity provider.
// The service never performs authentication itself.
type TokenVerifier interface {
	Verify(token string) (AuthClaims, error)
}
