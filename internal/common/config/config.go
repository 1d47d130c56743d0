package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sleepr-io/sleepr/backend/internal/common/constants"
	commonerrors "github.com/sleepr-io/sleepr/backend/internal/common/errors"
)

type MailConfig struct {
	ResendAPIKey string
	From         string
}

type AuthConfig struct {
	HTTPPort                string
	DatabaseURL             string
	JWTSecret               string
	AccessTokenTTL          time.Duration
	RefreshTokenTTL         time.Duration
	RevocationDefaultTTL    time.Duration
	RevocationSweepInterval time.Duration
	// When true, revocations are journaled to the database so that other
	// instances can reload them on startup.
	PersistRevocations bool
	RequestTimeout     time.Duration
	CORSOrigins        []string
	Mail               MailConfig
}

type ReservationsConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// LoadAuthConfig reads the auth service configuration from the environment.
// A .env file is loaded first when present; missing files are not an error.
func LoadAuthConfig() (AuthConfig, error) {
	_ = godotenv.Load()

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return AuthConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return AuthConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return AuthConfig{}, err
	}

	return AuthConfig{
		HTTPPort:                getEnv("AUTH_HTTP_PORT", constants.DefaultAuthHTTPPort),
		DatabaseURL:             databaseURL,
		JWTSecret:               jwtSecret,
		AccessTokenTTL:          getDurationEnv("AUTH_ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		RefreshTokenTTL:         getDurationEnv("AUTH_REFRESH_TOKEN_TTL", constants.DefaultRefreshTokenTTL),
		RevocationDefaultTTL:    getDurationEnv("AUTH_REVOCATION_DEFAULT_TTL", constants.DefaultRevocationTTL),
		RevocationSweepInterval: getDurationEnv("AUTH_REVOCATION_SWEEP_INTERVAL", constants.DefaultRevocationSweepInterval),
		PersistRevocations:      getBoolEnv("AUTH_PERSIST_REVOCATIONS", false),
		RequestTimeout:          getDurationEnv("AUTH_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		CORSOrigins:             getListEnv("CORS_ORIGINS", []string{"*"}),
		Mail: MailConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			From:         getEnv("MAIL_FROM", "noreply@sleepr.app"),
		},
	}, nil
}

func LoadReservationsConfig() (ReservationsConfig, error) {
	_ = godotenv.Load()

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return ReservationsConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return ReservationsConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return ReservationsConfig{}, err
	}

	return ReservationsConfig{
		HTTPPort:       getEnv("RESERVATIONS_HTTP_PORT", constants.DefaultReservationsHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		RequestTimeout: getDurationEnv("RESERVATIONS_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		CORSOrigins:    getListEnv("CORS_ORIGINS", []string{"*"}),
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(
			fmt.Errorf("got %d bytes", len(secret)),
		)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getListEnv(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
