package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/sleepr-io/sleepr/backend/internal/auth/guard"
	authrepo "github.com/sleepr-io/sleepr/backend/internal/auth/repository"
	"github.com/sleepr-io/sleepr/backend/internal/auth/revocation"
	"github.com/sleepr-io/sleepr/backend/internal/auth/token"
	"github.com/sleepr-io/sleepr/backend/internal/common/clock"
	"github.com/sleepr-io/sleepr/backend/internal/common/config"
	"github.com/sleepr-io/sleepr/backend/internal/common/constants"
	commoncrypto "github.com/sleepr-io/sleepr/backend/internal/common/crypto"
	"github.com/sleepr-io/sleepr/backend/internal/common/db"
	commonhttp "github.com/sleepr-io/sleepr/backend/internal/common/http"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	srv "github.com/sleepr-io/sleepr/backend/internal/common/server"
	reshttp "github.com/sleepr-io/sleepr/backend/internal/reservation/http"
	resrepo "github.com/sleepr-io/sleepr/backend/internal/reservation/repository"
	resservice "github.com/sleepr-io/sleepr/backend/internal/reservation/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "reservations", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadReservationsConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.NewRealClock()
	idGenerator := &commoncrypto.UUIDGenerator{}
	codec := token.NewHS256Codec(cfg.JWTSecret, idGenerator, clk)

	// This service only reads the blocklist. Revocations written by the
	// auth service reach it through the shared journal table.
	journal := authrepo.NewPgRevokedTokenJournal(pool)
	store := revocation.NewStore(
		ctx,
		clk,
		constants.DefaultRevocationTTL,
		constants.DefaultRevocationSweepInterval,
		log,
		revocation.WithJournal(journal),
	)
	if err := store.LoadFromJournal(ctx); err != nil {
		log.Warnf("failed to load revocations from journal: %v", err)
	}

	repo := resrepo.NewPgRepository(pool)
	reservations := resservice.NewReservationService(repo, idGenerator, log)

	gate := guard.NewGate(codec, store, log)
	gate.AllowPublic(http.MethodGet, "/health")
	gate.AllowPublic(http.MethodGet, "/metrics")

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())
	reshttp.NewHandler(reservations, log).Mount(mux)

	baseHandler := commonhttp.BuildBaseHandler("reservations", log, gate.Middleware(mux))

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
			log.Infof("reservations service: stopping revocation sweeper")
			cancel()
			store.Close()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "reservations", shutdownHooks)
}
