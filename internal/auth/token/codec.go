package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sleepr-io/sleepr/backend/internal/auth/domain"
	"github.com/sleepr-io/sleepr/backend/internal/common/clock"
	commoncrypto "github.com/sleepr-io/sleepr/backend/internal/common/crypto"
	"github.com/sleepr-io/sleepr/backend/internal/observability/metrics"
)

var (
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")
	ErrTokenNotValid           = errors.New("token is not valid")
	ErrInvalidClaims           = errors.New("invalid token claims")
	ErrMissingClaims           = errors.New("missing sub or email claims")
)

// Claims is the verified payload of a Sleepr token. Only sub and email are
// used to re-derive principals; everything else is informational.
type Claims struct {
	UserID    string
	Email     string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c Claims) Principal() domain.Principal {
	return domain.Principal{ID: c.UserID, Email: c.Email}
}

type Codec interface {
	Sign(principal domain.Principal, ttl time.Duration) (string, error)
	Verify(tokenString string) (Claims, error)
}

// HS256Codec signs and verifies tokens with a shared HMAC secret. Expiry
// checks run against the injected clock so tests can simulate time.
type HS256Codec struct {
	secret      []byte
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	parser      *jwt.Parser
}

func NewHS256Codec(secret string, idGenerator commoncrypto.IDGenerator, clk clock.Clock) *HS256Codec {
	return &HS256Codec{
		secret:      []byte(secret),
		idGenerator: idGenerator,
		clock:       clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(clk.Now),
		),
	}
}

func (c *HS256Codec) Sign(principal domain.Principal, ttl time.Duration) (string, error) {
	jti, err := c.idGenerator.NewID()
	if err != nil {
		return "", err
	}

	now := c.clock.Now()
	claims := jwt.MapClaims{
		"sub":   principal.ID,
		"email": principal.Email,
		"jti":   jti,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

func (c *HS256Codec) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	parsed, err := c.parser.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnexpectedSigningMethod
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		metrics.JWTValidationsFailed.Inc()
		if err == nil {
			err = ErrTokenNotValid
		}
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, ErrInvalidClaims
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	if sub == "" || email == "" {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, ErrMissingClaims
	}

	claims := Claims{
		UserID: sub,
		Email:  email,
	}
	if jti, ok := mapClaims["jti"].(string); ok {
		claims.JTI = jti
	}
	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, nil
}
