package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a custom token.
type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// Minter issues custom tokens that a LocalProvider exchanges for an identity.
type Minter struct {
	secret   []byte
	tenantID string
	now      func() time.Time
}

// NewMinter creates a minter for one tenant.
func NewMinter(secret, tenantID string) (*Minter, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	return &Minter{secret: []byte(secret), tenantID: tenantID, now: time.Now}, nil
}

// Mint signs a token for uid. A zero ttl mints a token without expiry.
func (m *Minter) Mint(uid string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(uid) == "" {
		return "", fmt.Errorf("%w: empty uid", ErrInvalidToken)
	}
	now := m.now()
	claims := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  uid,
			Audience: jwt.ClaimStrings{m.tenantID},
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verifier checks custom tokens.
type Verifier struct {
	secret   []byte
	tenantID string
}

// NewVerifier creates a verifier for one tenant.
func NewVerifier(secret, tenantID string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	return &Verifier{secret: []byte(secret), tenantID: tenantID}, nil
}

// Verify validates the signature, audience and expiry of token and returns
// its uid.
func (v *Verifier) Verify(token string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.tenantID),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.UID) == "" {
		return "", fmt.Errorf("%w: missing uid", ErrInvalidToken)
	}
	return claims.UID, nil
}
