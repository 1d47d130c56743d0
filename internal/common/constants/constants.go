package constants

import "time"

const (
	PasswordMinLength  = 8
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32
	BcryptCost         = 12

	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// Fallback lifetime for a revocation record when the caller cannot
	// supply the token's real expiry. Matches the refresh token TTL so a
	// record never outlives the longest-lived token it could belong to.
	DefaultRevocationTTL = 7 * 24 * time.Hour

	DefaultRevocationSweepInterval = 15 * time.Minute
	RevocationJournalCleanupEvery  = time.Hour

	NotificationSendTimeout = 10 * time.Second

	DBPoolMaxConns          = 25
	DBPoolMinConns          = 5
	DBPoolConnMaxLifetime   = time.Hour
	DBPoolConnMaxIdleTime   = 30 * time.Minute
	DBPoolHealthCheckPeriod = time.Minute
	DBPoolConnectTimeout    = 5 * time.Second
	DBPoolMaxAttempts       = 10
	DBPoolRetryDelay        = time.Second
	DBQueryTimeout          = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAuthHTTPPort         = "8081"
	DefaultReservationsHTTPPort = "8082"
	DefaultRequestTimeout       = 5 * time.Second

	RateLimitCleanupInterval           = 5 * time.Minute
	RateLimitLoginRequestsPerSecond    = 1
	RateLimitLoginBurst                = 5
	RateLimitRefreshRequestsPerSecond  = 2
	RateLimitRefreshBurst              = 10
	RateLimitLogoutRequestsPerSecond   = 2
	RateLimitLogoutBurst               = 10
	RateLimitGeneralRequestsPerSecond  = 20
	RateLimitGeneralBurst              = 40
	RateLimitRegisterRequestsPerSecond = 1
	RateLimitRegisterBurst             = 3

	DefaultListLimit = 20
	MaxListLimit     = 100

	DefaultMaxRequestSize = int64(1 << 20)

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
