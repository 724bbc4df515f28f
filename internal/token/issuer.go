// Package token signs and verifies the HS256 bearer tokens used for access,
// refresh and password-reset flows. Each purpose has its own secret and TTL.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-shop-api/internal/model"
)

type Purpose string

const (
	Access  Purpose = "access"
	Refresh Purpose = "refresh"
	Reset   Purpose = "reset"
)

var ErrUnknownPurpose = errors.New("unknown token purpose")

type Config struct {
	Secret string
	TTL    time.Duration
}

// Claims is the token payload: {id, role} plus the registered exp/iat/jti.
type Claims struct {
	jwt.RegisteredClaims
	UserID string  `json:"id"`
	Role   string  `json:"role"`
	Type   Purpose `json:"typ"`
}

type Issuer struct {
	purposes map[Purpose]Config
	now      func() time.Time
}

func NewIssuer(purposes map[Purpose]Config) (*Issuer, error) {
	copied := make(map[Purpose]Config, len(purposes))
	for purpose, cfg := range purposes {
		if strings.TrimSpace(cfg.Secret) == "" {
			return nil, fmt.Errorf("token: %s secret is required", purpose)
		}
		if cfg.TTL <= 0 {
			return nil, fmt.Errorf("token: %s ttl must be positive", purpose)
		}
		copied[purpose] = cfg
	}

	return &Issuer{purposes: copied, now: time.Now}, nil
}

// TTL reports the configured lifetime of a purpose, zero when unknown.
func (i *Issuer) TTL(purpose Purpose) time.Duration {
	return i.purposes[purpose].TTL
}

// Issue signs a token for subjectID and role. Both are required.
func (i *Issuer) Issue(purpose Purpose, subjectID string, role string) (string, error) {
	cfg, ok := i.purposes[purpose]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPurpose, purpose)
	}
	if strings.TrimSpace(subjectID) == "" {
		return "", errors.New("token: subject id is required")
	}
	if strings.TrimSpace(role) == "" {
		return "", errors.New("token: role is required")
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
		UserID: subjectID,
		Role:   role,
		Type:   purpose,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("token: sign %s token: %w", purpose, err)
	}

	return signed, nil
}

// Verify checks signature, expiry and purpose. Every verification failure
// wraps model.ErrInvalidToken; an unknown purpose is a configuration error and
// does not.
func (i *Issuer) Verify(purpose Purpose, raw string) (*Claims, error) {
	cfg, ok := i.purposes[purpose]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPurpose, purpose)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	if claims.Type != purpose {
		return nil, fmt.Errorf("%w: expected %s token, got %q", model.ErrInvalidToken, purpose, claims.Type)
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing subject claims", model.ErrInvalidToken)
	}

	return claims, nil
}
