package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sleepr-io/sleepr/backend/internal/auth/revocation"
	"github.com/sleepr-io/sleepr/backend/internal/auth/token"
	"github.com/sleepr-io/sleepr/backend/internal/common/clock"
	commoncrypto "github.com/sleepr-io/sleepr/backend/internal/common/crypto"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	userdomain "github.com/sleepr-io/sleepr/backend/internal/user/domain"
	userrepo "github.com/sleepr-io/sleepr/backend/internal/user/repository"
)

type mockUserDirectory struct {
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
}

func (m *mockUserDirectory) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []string

	sendLoginAlertFunc func(ctx context.Context, email string, at time.Time) error
}

func (m *mockNotifier) SendLoginAlert(ctx context.Context, email string, at time.Time) error {
	m.mu.Lock()
	m.calls = append(m.calls, email)
	m.mu.Unlock()
	if m.sendLoginAlertFunc != nil {
		return m.sendLoginAlertFunc(ctx, email, at)
	}
	return nil
}

func (m *mockNotifier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type sessionFixture struct {
	manager  *SessionManager
	users    *mockUserDirectory
	hasher   *mockHasher
	notifier *mockNotifier
	store    *revocation.Store
	codec    *token.HS256Codec
	clock    *clock.MockClock
}

// setupSessionManager wires a manager against a real codec and a real
// revocation store, both driven by the mock clock.
func setupSessionManager(t *testing.T) *sessionFixture {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	clk := clock.NewMockClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	codec := token.NewHS256Codec("0123456789abcdef0123456789abcdef", &commoncrypto.UUIDGenerator{}, clk)
	store := revocation.NewStore(context.Background(), clk, 7*24*time.Hour, time.Hour, log)
	t.Cleanup(store.Close)

	users := &mockUserDirectory{}
	hasher := &mockHasher{}
	notifier := &mockNotifier{}

	manager := NewSessionManager(
		users,
		hasher,
		codec,
		store,
		notifier,
		clk,
		log,
		15*time.Minute,
		7*24*time.Hour,
	)

	return &sessionFixture{
		manager:  manager,
		users:    users,
		hasher:   hasher,
		notifier: notifier,
		store:    store,
		codec:    codec,
		clock:    clk,
	}
}

func knownUser(f *sessionFixture, email, password string) {
	f.users.findByEmailFunc = func(ctx context.Context, e string) (userdomain.User, error) {
		if e == email {
			return userdomain.User{ID: "user-123", Email: email, PasswordHash: "hashed:" + password}, nil
		}
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	f.hasher.compareFunc = func(hash, p string) error {
		if hash == "hashed:"+p {
			return nil
		}
		return errMismatch
	}
}

var errMismatch = errors.New("hash mismatch")
