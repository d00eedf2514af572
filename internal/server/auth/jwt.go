// Package auth provides password hashing and bearer-token issuing for the
// sign server.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/signkeeper/internal/common"
)

// Identity is what a verified token says about its bearer.
type Identity struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the bearer was granted role.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Claims extends the registered claims with the account roles.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// JWTProvider issues and verifies HS256 tokens. The secret and validity are
// fixed at construction.
type JWTProvider struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewJWTProvider(secret []byte, validity time.Duration) *JWTProvider {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &JWTProvider{secret: key, validity: validity, now: time.Now}
}

// CreateToken signs a token for subject carrying roles, valid from now for
// the configured duration.
func (p *JWTProvider) CreateToken(subject string, roles []string) (string, error) {
	now := p.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.validity)),
		},
		Roles: roles,
	})

	s, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// ParseToken verifies signature and expiry. Expired tokens yield
// common.ErrTokenExpired, every other failure common.ErrInvalidToken.
func (p *JWTProvider) ParseToken(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{Subject: claims.Subject, Roles: claims.Roles}, nil
}
