package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sleepr-io/sleepr/backend/internal/auth/domain"
	"github.com/sleepr-io/sleepr/backend/internal/common/clock"
	commoncrypto "github.com/sleepr-io/sleepr/backend/internal/common/crypto"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec() (*HS256Codec, *clock.MockClock) {
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	return NewHS256Codec(testSecret, &commoncrypto.UUIDGenerator{}, clk), clk
}

func TestCodec_SignAndVerify(t *testing.T) {
	codec, clk := newTestCodec()
	principal := domain.Principal{ID: "user-123", Email: "alice@example.com"}

	signed, err := codec.Sign(principal, 15*time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if claims.UserID != principal.ID {
		t.Errorf("expected user id %s, got %s", principal.ID, claims.UserID)
	}
	if claims.Email != principal.Email {
		t.Errorf("expected email %s, got %s", principal.Email, claims.Email)
	}
	if claims.JTI == "" {
		t.Error("expected a jti claim")
	}
	if !claims.IssuedAt.Equal(clk.Now().Truncate(time.Second)) {
		t.Errorf("expected iat %v, got %v", clk.Now(), claims.IssuedAt)
	}
	if got, want := claims.ExpiresAt.Sub(claims.IssuedAt), 15*time.Minute; got != want {
		t.Errorf("expected lifetime %v, got %v", want, got)
	}
}

func TestCodec_VerifyExpiredToken(t *testing.T) {
	codec, clk := newTestCodec()

	signed, err := codec.Sign(domain.Principal{ID: "user-123", Email: "alice@example.com"}, 15*time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	clk.Advance(16 * time.Minute)

	if _, err := codec.Verify(signed); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestCodec_VerifyTamperedToken(t *testing.T) {
	codec, _ := newTestCodec()

	signed, err := codec.Sign(domain.Principal{ID: "user-123", Email: "alice@example.com"}, 15*time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := codec.Verify(signed + "x"); err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
}

func TestCodec_VerifyGarbage(t *testing.T) {
	codec, _ := newTestCodec()

	if _, err := codec.Verify("not-a-jwt"); err == nil {
		t.Fatal("expected garbage to fail verification")
	}
}

func TestCodec_VerifyWrongSecret(t *testing.T) {
	codec, _ := newTestCodec()
	other := NewHS256Codec("another-secret-that-is-long-enough!!", &commoncrypto.UUIDGenerator{}, clock.NewMockClock(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)))

	signed, err := other.Sign(domain.Principal{ID: "user-123", Email: "alice@example.com"}, 15*time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := codec.Verify(signed); err == nil {
		t.Fatal("expected token signed under another secret to fail")
	}
}

func TestCodec_VerifyRejectsOtherSigningMethods(t *testing.T) {
	codec, clk := newTestCodec()

	claims := jwt.MapClaims{
		"sub":   "user-123",
		"email": "alice@example.com",
		"iat":   clk.Now().Unix(),
		"exp":   clk.Now().Add(15 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := codec.Verify(signed); err == nil {
		t.Fatal("expected non-HS256 token to fail verification")
	}
}

func TestCodec_VerifyRequiresSubjectAndEmail(t *testing.T) {
	codec, clk := newTestCodec()

	claims := jwt.MapClaims{
		"iat": clk.Now().Unix(),
		"exp": clk.Now().Add(15 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := codec.Verify(signed); err == nil {
		t.Fatal("expected token without sub and email to fail")
	}
}
