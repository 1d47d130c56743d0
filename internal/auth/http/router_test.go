package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sleepr-io/sleepr/backend/internal/auth/guard"
	"github.com/sleepr-io/sleepr/backend/internal/auth/revocation"
	"github.com/sleepr-io/sleepr/backend/internal/auth/service"
	"github.com/sleepr-io/sleepr/backend/internal/auth/token"
	"github.com/sleepr-io/sleepr/backend/internal/common/clock"
	commoncrypto "github.com/sleepr-io/sleepr/backend/internal/common/crypto"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	userdomain "github.com/sleepr-io/sleepr/backend/internal/user/domain"
	userrepo "github.com/sleepr-io/sleepr/backend/internal/user/repository"
)

type fakeDirectory struct {
	users map[string]userdomain.User
}

func (d *fakeDirectory) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if u, ok := d.users[email]; ok {
		return u, nil
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash == "hashed:"+password {
		return nil
	}
	return errors.New("hash mismatch")
}

type routerFixture struct {
	mux   *http.ServeMux
	store *revocation.Store
	clock *clock.MockClock
}

func setupRouter(t *testing.T) *routerFixture {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	clk := clock.NewMockClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	codec := token.NewHS256Codec("0123456789abcdef0123456789abcdef", &commoncrypto.UUIDGenerator{}, clk)
	store := revocation.NewStore(context.Background(), clk, 7*24*time.Hour, time.Hour, log)
	t.Cleanup(store.Close)

	directory := &fakeDirectory{users: map[string]userdomain.User{
		"alice@example.com": {ID: "user-123", Email: "alice@example.com", PasswordHash: "hashed:secret-password"},
	}}

	sessions := service.NewSessionManager(
		directory,
		fakeHasher{},
		codec,
		store,
		nil,
		clk,
		log,
		15*time.Minute,
		7*24*time.Hour,
	)

	gate := guard.NewGate(codec, store, log)
	mux := http.NewServeMux()
	NewHandler(sessions, log).Mount(mux, gate)

	return &routerFixture{mux: mux, store: store, clock: clk}
}

func (f *routerFixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func (f *routerFixture) login(t *testing.T) (string, string) {
	t.Helper()

	rec := f.post(t, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "secret-password",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens in login response, got %v", body)
	}
	return access, refresh
}

func TestLoginEndpoint_Success(t *testing.T) {
	f := setupRouter(t)
	access, refresh := f.login(t)

	if access == refresh {
		t.Fatal("expected distinct tokens")
	}
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	f := setupRouter(t)

	rec := f.post(t, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != "UNAUTHORIZED" {
		t.Errorf("expected opaque UNAUTHORIZED code, got %v", body["code"])
	}
}

func TestLoginEndpoint_ValidationFailure(t *testing.T) {
	f := setupRouter(t)

	rec := f.post(t, "/api/auth/login", map[string]string{"email": "not-an-email"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginEndpoint_MethodNotAllowed(t *testing.T) {
	f := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRefreshEndpoint_Success(t *testing.T) {
	f := setupRouter(t)
	_, refresh := f.login(t)

	rec := f.post(t, "/api/auth/refresh", map[string]string{"refresh_token": refresh})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if access, _ := body["access_token"].(string); access == "" {
		t.Fatal("expected a new access token")
	}
}

// Revoked, expired, and malformed tokens produce byte-identical response
// bodies; only logs and metrics tell them apart.
func TestRefreshEndpoint_FailuresAreIndistinguishable(t *testing.T) {
	f := setupRouter(t)
	_, refresh := f.login(t)
	f.store.Revoke(refresh, f.clock.Now().Add(7*24*time.Hour))

	revokedRec := f.post(t, "/api/auth/refresh", map[string]string{"refresh_token": refresh})
	invalidRec := f.post(t, "/api/auth/refresh", map[string]string{"refresh_token": "garbage"})

	if revokedRec.Code != http.StatusUnauthorized || invalidRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", revokedRec.Code, invalidRec.Code)
	}
	if revokedRec.Body.String() != invalidRec.Body.String() {
		t.Errorf("expected identical bodies, got %q and %q", revokedRec.Body.String(), invalidRec.Body.String())
	}
}

func TestLogoutEndpoint_AlwaysSucceeds(t *testing.T) {
	f := setupRouter(t)

	for name, body := range map[string]any{
		"garbage tokens": map[string]string{"refresh_token": "junk", "access_token": "junk"},
		"empty body":     map[string]string{},
		"no body":        nil,
	} {
		rec := f.post(t, "/api/auth/logout", body)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", name, rec.Code)
			continue
		}
		resp := decodeBody(t, rec)
		if resp["message"] != "Successfully logged out" {
			t.Errorf("%s: unexpected message %v", name, resp["message"])
		}
	}
}

func TestLogoutEndpoint_ThenRefreshFails(t *testing.T) {
	f := setupRouter(t)
	access, refresh := f.login(t)

	logoutRec := f.post(t, "/api/auth/logout", map[string]string{
		"refresh_token": refresh,
		"access_token":  access,
	})
	if logoutRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", logoutRec.Code)
	}

	refreshRec := f.post(t, "/api/auth/refresh", map[string]string{"refresh_token": refresh})
	if refreshRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", refreshRec.Code)
	}
}
