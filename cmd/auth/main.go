package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	authcleanup "github.com/sleepr-io/sleepr/backend/internal/auth/cleanup"
	"github.com/sleepr-io/sleepr/backend/internal/auth/guard"
	authhttp "github.com/sleepr-io/sleepr/backend/internal/auth/http"
	authrepo "github.com/sleepr-io/sleepr/backend/internal/auth/repository"
	"github.com/sleepr-io/sleepr/backend/internal/auth/revocation"
	authservice "github.com/sleepr-io/sleepr/backend/internal/auth/service"
	"github.com/sleepr-io/sleepr/backend/internal/auth/token"
	"github.com/sleepr-io/sleepr/backend/internal/common/clock"
	"github.com/sleepr-io/sleepr/backend/internal/common/config"
	commoncrypto "github.com/sleepr-io/sleepr/backend/internal/common/crypto"
	"github.com/sleepr-io/sleepr/backend/internal/common/db"
	commonhttp "github.com/sleepr-io/sleepr/backend/internal/common/http"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	srv "github.com/sleepr-io/sleepr/backend/internal/common/server"
	"github.com/sleepr-io/sleepr/backend/internal/notification"
	userhttp "github.com/sleepr-io/sleepr/backend/internal/user/http"
	userrepo "github.com/sleepr-io/sleepr/backend/internal/user/repository"
	userservice "github.com/sleepr-io/sleepr/backend/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "auth", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAuthConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.NewRealClock()
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := &commoncrypto.UUIDGenerator{}
	codec := token.NewHS256Codec(cfg.JWTSecret, idGenerator, clk)

	var storeOpts []revocation.Option
	var journal *authrepo.PgRevokedTokenJournal
	if cfg.PersistRevocations {
		journal = authrepo.NewPgRevokedTokenJournal(pool)
		storeOpts = append(storeOpts, revocation.WithJournal(journal))
	}

	store := revocation.NewStore(ctx, clk, cfg.RevocationDefaultTTL, cfg.RevocationSweepInterval, log, storeOpts...)
	if err := store.LoadFromJournal(ctx); err != nil {
		log.Warnf("failed to load revocations from journal: %v", err)
	}
	if journal != nil {
		go authcleanup.StartJournalCleanup(ctx, journal, log)
	}

	var notifier authservice.LoginNotifier
	if cfg.Mail.ResendAPIKey != "" {
		sender := notification.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.From, log)
		notifier = notification.NewLoginAlerter(sender)
	} else {
		log.Warn("RESEND_API_KEY not set: login notifications disabled")
	}

	userRepo := userrepo.NewPgRepository(pool)
	userService := userservice.NewUserService(userRepo, hasher, idGenerator, log)
	sessions := authservice.NewSessionManager(
		userRepo,
		hasher,
		codec,
		store,
		notifier,
		clk,
		log,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	gate := guard.NewGate(codec, store, log)
	gate.AllowPublic(http.MethodGet, "/health")
	gate.AllowPublic(http.MethodGet, "/metrics")

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())
	authhttp.NewHandler(sessions, log).Mount(mux, gate)
	userhttp.NewHandler(userService, log).Mount(mux, gate)

	baseHandler := commonhttp.BuildBaseHandler("auth", log, gate.Middleware(mux))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(baseHandler)

	rateLimiter := commonhttp.NewStrictRateLimiter()
	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.MiddlewareForPath(path)(next).ServeHTTP(w, r)
		})
	}

	finalHandler := rateLimitMiddleware(corsHandler)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("auth service: stopping revocation sweeper and cleanup goroutines")
			cancel()
			store.Close()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "auth", shutdownHooks)
}
