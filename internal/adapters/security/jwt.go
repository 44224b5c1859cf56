package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier validates HS256 bearer tokens issued by the platform auth
// service. The shared secret lives at adapter level so the application layer
// stays crypto-library agnostic.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt signing secret is required")
	}
	return &HMACVerifier{secret: []byte(secret)}, nil
}

type affiliateJWTClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (v *HMACVerifier) Verify(raw string) (ports.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &affiliateJWTClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return ports.AuthClaims{}, err
	}
	claims, ok := parsed.Claims.(*affiliateJWTClaims)
	if !ok || !parsed.Valid {
		return ports.AuthClaims{}, errors.New("invalid token claims")
	}
	if claims.UserID == "" {
		return ports.AuthClaims{}, errors.New("token missing user_id claim")
	}

	out := ports.AuthClaims{UserID: claims.UserID, Role: claims.Role}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}

// Sign mints an HS256 token for the given subject. Used by tests and local
// tooling; production tokens come from the auth service.
func (v *HMACVerifier) Sign(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, affiliateJWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(v.secret)
}
