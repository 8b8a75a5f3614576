package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
)

var (
	// ErrTokenMalformed indicates the token could not be decoded or is
	// missing required claims.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenSignatureInvalid indicates the signature does not verify
	// against the server secret.
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	// ErrTokenExpired indicates the token's expiry is not in the future.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenTypeMismatch indicates an access token was presented where a
	// refresh token was expected, or vice versa.
	ErrTokenTypeMismatch = errors.New("token type mismatch")
)

// TokenClaims carries the subject and kind embedded in an issued token.
type TokenClaims struct {
	Kind string `json:"type"`
	jwt.RegisteredClaims
}

// TokenCodec issues and parses HMAC-SHA256 signed bearer tokens. The codec
// is stateless apart from the immutable secret, so it is safe for
// concurrent use.
type TokenCodec struct {
	secret []byte
	clock  port.Clock
}

// NewTokenCodec constructs a codec for the supplied secret. Secret length
// is enforced by config.Load; the codec only rejects an empty secret.
func NewTokenCodec(secret string, clock port.Clock) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token codec: secret is required")
	}
	if clock == nil {
		clock = port.SystemClock()
	}

	return &TokenCodec{secret: []byte(secret), clock: clock}, nil
}

// Issue signs a token asserting subject for the given kind and lifetime.
func (c *TokenCodec) Issue(subject string, kind domain.TokenKind, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("token codec: subject is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token codec: ttl must be positive")
	}

	now := c.clock.Now().UTC()
	claims := TokenClaims{
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Parse validates the raw token and returns its claims. Failures map to
// exactly one of ErrTokenMalformed, ErrTokenSignatureInvalid,
// ErrTokenExpired, or ErrTokenTypeMismatch.
func (c *TokenCodec) Parse(raw string, expected domain.TokenKind) (*TokenClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenMalformed
	}

	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenMalformed
	}
	if claims.Kind != string(expected) {
		return nil, ErrTokenTypeMismatch
	}

	return claims, nil
}
