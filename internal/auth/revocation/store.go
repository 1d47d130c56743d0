package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/sleepr-io/sleepr/backend/internal/auth/domain"
	"github.com/sleepr-io/sleepr/backend/internal/common/clock"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/observability/metrics"
)

// Record is one blocklist entry. A record exists for a token if and only if
// the token was explicitly revoked and its expiry has not yet passed. UserID
// and TokenType are informational and never consulted by revocation logic.
type Record struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	TokenType domain.TokenType
}

// Journal is the optional durable backing for the blocklist, used by
// multi-instance deployments. All journal failures are logged and swallowed;
// the in-memory store is the source of truth for this process.
type Journal interface {
	Record(ctx context.Context, rec Record) error
	LoadActive(ctx context.Context) ([]Record, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// Store tracks revoked tokens until their natural expiry. It is a blocklist,
// not a session table: memory is bounded by revocation volume, not by the
// number of active sessions. Revocations do not survive a process restart
// unless a Journal is attached.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record

	clock         clock.Clock
	log           *logger.Logger
	defaultTTL    time.Duration
	sweepInterval time.Duration
	journal       Journal

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Store)

// WithJournal attaches a durable write-through journal.
func WithJournal(j Journal) Option {
	return func(s *Store) {
		s.journal = j
	}
}

// NewStore builds the store and starts its periodic sweeper. The sweeper
// runs until ctx is cancelled or Close is called.
func NewStore(
	ctx context.Context,
	clk clock.Clock,
	defaultTTL time.Duration,
	sweepInterval time.Duration,
	log *logger.Logger,
	opts ...Option,
) *Store {
	storeCtx, cancel := context.WithCancel(ctx)
	s := &Store{
		records:       make(map[string]Record),
		clock:         clk,
		log:           log,
		defaultTTL:    defaultTTL,
		sweepInterval: sweepInterval,
		ctx:           storeCtx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.sweeper()

	return s
}

// Revoke inserts or overwrites the blocklist record for token. A zero
// expiresAt defaults to now + the configured default TTL. Revoking an
// already-revoked token refreshes its record; the call never fails.
func (s *Store) Revoke(token string, expiresAt time.Time) {
	s.RevokeRecord(Record{Token: token, ExpiresAt: expiresAt})
}

func (s *Store) RevokeRecord(rec Record) {
	if rec.ExpiresAt.IsZero() {
		rec.ExpiresAt = s.clock.Now().Add(s.defaultTTL)
	}

	s.mu.Lock()
	s.records[rec.Token] = rec
	size := len(s.records)
	s.mu.Unlock()

	metrics.RevokedTokensActive.Set(float64(size))
	tokenType := string(rec.TokenType)
	if tokenType == "" {
		tokenType = "unknown"
	}
	metrics.TokensRevoked.WithLabelValues(tokenType).Inc()

	s.log.WithFields(s.ctx, logger.Fields{
		"token_type": tokenType,
		"expires_at": rec.ExpiresAt.UTC().Format(time.RFC3339),
		"action":     "token_revoked",
	}).Debug("token added to revocation blocklist")

	if s.journal != nil {
		go s.journalRecord(rec)
	}
}

// IsRevoked reports whether token is currently blocklisted. A record whose
// expiry has passed is removed on the way out and treated as never revoked:
// the underlying token is unusable after expiry regardless.
func (s *Store) IsRevoked(token string) bool {
	metrics.RevokedChecksTotal.Inc()

	s.mu.RLock()
	rec, ok := s.records[token]
	s.mu.RUnlock()

	if !ok {
		return false
	}

	if s.clock.Now().After(rec.ExpiresAt) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Revoke may have
		// refreshed the record since the read.
		if current, ok := s.records[token]; ok && s.clock.Now().After(current.ExpiresAt) {
			delete(s.records, token)
		}
		size := len(s.records)
		s.mu.Unlock()
		metrics.RevokedTokensActive.Set(float64(size))
		return false
	}

	return true
}

// Sweep removes every expired record and returns how many were deleted.
// Safe to call at any time; repeated calls are idempotent.
func (s *Store) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	removed := 0
	for token, rec := range s.records {
		if now.After(rec.ExpiresAt) {
			delete(s.records, token)
			removed++
		}
	}
	size := len(s.records)
	s.mu.Unlock()

	if removed > 0 {
		metrics.RevokedTokensSwept.Add(float64(removed))
		s.log.Debugf("revocation sweep removed %d expired records", removed)
	}
	metrics.RevokedTokensActive.Set(float64(size))

	return removed
}

// Clear manually removes the record for token, revoked or not. Idempotent.
func (s *Store) Clear(token string) {
	s.mu.Lock()
	_, existed := s.records[token]
	delete(s.records, token)
	size := len(s.records)
	s.mu.Unlock()

	metrics.RevokedTokensActive.Set(float64(size))
	if existed {
		s.log.Debug("manually cleared revoked token")
	}
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// LoadFromJournal seeds the store with the unexpired records of the attached
// journal. Called once at startup before the store is shared.
func (s *Store) LoadFromJournal(ctx context.Context) error {
	if s.journal == nil {
		return nil
	}

	recs, err := s.journal.LoadActive(ctx)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	s.mu.Lock()
	for _, rec := range recs {
		if now.After(rec.ExpiresAt) {
			continue
		}
		s.records[rec.Token] = rec
	}
	size := len(s.records)
	s.mu.Unlock()

	metrics.RevokedTokensActive.Set(float64(size))
	s.log.Infof("loaded %d revocation records from journal", size)
	return nil
}

// Close stops the sweeper and waits for it to exit.
func (s *Store) Close() {
	s.cancel()
	<-s.done
}

func (s *Store) sweeper() {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) journalRecord(rec Record) {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	if err := s.journal.Record(ctx, rec); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "revocation_journal_write_failed",
		}).Warnf("failed to journal revocation: %v", err)
	}
}
