package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total number of auth requests",
		},
		[]string{"method", "path"},
	)

	AuthRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_requests_in_flight",
			Help: "Number of auth requests currently being processed",
		},
	)

	AuthRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_request_duration_seconds",
			Help:    "Duration of auth requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	RefreshTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_tokens_issued_total",
			Help: "Total number of refresh tokens issued",
		},
	)

	TokensRevoked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokens_revoked_total",
			Help: "Total number of tokens added to the revocation blocklist",
		},
		[]string{"token_type"},
	)

	RevokedTokensActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "revoked_tokens_active",
			Help: "Current number of records in the revocation blocklist",
		},
	)

	RevokedTokensSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revoked_tokens_swept_total",
			Help: "Total number of expired revocation records removed by the sweeper",
		},
	)

	RevokedTokensJournalDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revoked_tokens_journal_deleted_total",
			Help: "Total number of expired revocation rows deleted from the journal",
		},
	)

	JWTValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_total",
			Help: "Total number of JWT validations",
		},
	)

	JWTValidationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jwt_validations_failed_total",
			Help: "Total number of failed JWT validations",
		},
	)

	RevokedChecksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revoked_token_checks_total",
			Help: "Total number of revocation blocklist lookups",
		},
	)

	LoginNotificationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "login_notifications_failed_total",
			Help: "Total number of login notification emails that failed to send",
		},
	)
)
