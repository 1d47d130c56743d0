package revocation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sleepr-io/sleepr/backend/internal/auth/domain"
	"github.com/sleepr-io/sleepr/backend/internal/common/clock"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *clock.MockClock) {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	clk := clock.NewMockClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	store := NewStore(context.Background(), clk, 7*24*time.Hour, time.Hour, log, opts...)
	t.Cleanup(store.Close)

	return store, clk
}

func TestStore_RevokeAndIsRevoked(t *testing.T) {
	store, clk := newTestStore(t)

	store.Revoke("token-a", clk.Now().Add(time.Hour))

	if !store.IsRevoked("token-a") {
		t.Fatal("expected token-a to be revoked")
	}
	if store.IsRevoked("token-b") {
		t.Fatal("expected token-b to not be revoked")
	}
}

func TestStore_RevokeIsIdempotent(t *testing.T) {
	store, clk := newTestStore(t)

	store.Revoke("token-a", clk.Now().Add(time.Hour))
	store.Revoke("token-a", clk.Now().Add(2*time.Hour))

	if store.Count() != 1 {
		t.Fatalf("expected 1 record, got %d", store.Count())
	}

	// The second call refreshed the record, so the token stays revoked
	// past the first expiry.
	clk.Advance(90 * time.Minute)
	if !store.IsRevoked("token-a") {
		t.Fatal("expected token-a to still be revoked after record refresh")
	}
}

func TestStore_ZeroExpiryDefaultsToConfiguredTTL(t *testing.T) {
	store, clk := newTestStore(t)

	store.Revoke("token-a", time.Time{})

	clk.Advance(7*24*time.Hour - time.Minute)
	if !store.IsRevoked("token-a") {
		t.Fatal("expected token-a to be revoked just before the default TTL")
	}

	clk.Advance(2 * time.Minute)
	if store.IsRevoked("token-a") {
		t.Fatal("expected token-a to expire after the default TTL")
	}
}

func TestStore_IsRevokedEvictsExpiredRecord(t *testing.T) {
	store, clk := newTestStore(t)

	store.Revoke("token-a", clk.Now().Add(time.Hour))
	clk.Advance(2 * time.Hour)

	if store.IsRevoked("token-a") {
		t.Fatal("expected expired record to read as not revoked")
	}
	if store.Count() != 0 {
		t.Fatalf("expected lazy eviction to remove the record, got %d", store.Count())
	}
}

func TestStore_Sweep(t *testing.T) {
	store, clk := newTestStore(t)

	store.Revoke("expired-1", clk.Now().Add(time.Minute))
	store.Revoke("expired-2", clk.Now().Add(2*time.Minute))
	store.Revoke("live", clk.Now().Add(time.Hour))

	clk.Advance(30 * time.Minute)

	if removed := store.Sweep(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if store.Count() != 1 {
		t.Fatalf("expected 1 record after sweep, got %d", store.Count())
	}
	if removed := store.Sweep(); removed != 0 {
		t.Fatalf("expected repeated sweep to remove nothing, got %d", removed)
	}
	if !store.IsRevoked("live") {
		t.Fatal("expected live token to survive the sweep")
	}
}

func TestStore_Clear(t *testing.T) {
	store, clk := newTestStore(t)

	store.Revoke("token-a", clk.Now().Add(time.Hour))
	store.Clear("token-a")
	store.Clear("token-a")
	store.Clear("never-revoked")

	if store.IsRevoked("token-a") {
		t.Fatal("expected cleared token to not be revoked")
	}
	if store.Count() != 0 {
		t.Fatalf("expected 0 records, got %d", store.Count())
	}
}

func TestStore_RevocationOfGarbageStringSticks(t *testing.T) {
	store, clk := newTestStore(t)

	// Revocation never inspects the token value.
	store.Revoke("not-a-jwt-at-all", clk.Now().Add(time.Hour))

	if !store.IsRevoked("not-a-jwt-at-all") {
		t.Fatal("expected opaque string to be revocable")
	}
}

type mockJournal struct {
	mu       sync.Mutex
	recorded []Record

	loadActiveFunc func(ctx context.Context) ([]Record, error)
}

func (m *mockJournal) Record(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, rec)
	return nil
}

func (m *mockJournal) LoadActive(ctx context.Context) ([]Record, error) {
	if m.loadActiveFunc != nil {
		return m.loadActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockJournal) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockJournal) recordedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recorded)
}

func TestStore_JournalWriteThrough(t *testing.T) {
	journal := &mockJournal{}
	store, clk := newTestStore(t, WithJournal(journal))

	store.RevokeRecord(Record{
		Token:     "token-a",
		ExpiresAt: clk.Now().Add(time.Hour),
		UserID:    "user-1",
		TokenType: domain.TokenTypeRefresh,
	})

	deadline := time.Now().Add(2 * time.Second)
	for journal.recordedCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected revocation to reach the journal")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStore_LoadFromJournalSkipsExpired(t *testing.T) {
	journal := &mockJournal{}
	store, clk := newTestStore(t, WithJournal(journal))

	journal.loadActiveFunc = func(ctx context.Context) ([]Record, error) {
		return []Record{
			{Token: "live", ExpiresAt: clk.Now().Add(time.Hour)},
			{Token: "stale", ExpiresAt: clk.Now().Add(-time.Hour)},
		}, nil
	}

	if err := store.LoadFromJournal(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !store.IsRevoked("live") {
		t.Fatal("expected live journal record to be loaded")
	}
	if store.IsRevoked("stale") {
		t.Fatal("expected stale journal record to be dropped")
	}
}
