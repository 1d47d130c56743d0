package service

import (
	"context"
	"errors"
	"testing"

	commonerrors "github.com/sleepr-io/sleepr/backend/internal/common/errors"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/user/domain"
	userrepo "github.com/sleepr-io/sleepr/backend/internal/user/repository"
)

type mockRepo struct {
	createFunc func(ctx context.Context, user domain.User) error
	listFunc   func(ctx context.Context, limit, offset int) ([]domain.Summary, error)
}

func (m *mockRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]domain.Summary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}

type mockHasher struct {
	hashFunc func(password string) (string, error)
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error { return nil }

type mockIDGenerator struct{}

func (mockIDGenerator) NewID() (string, error) { return "generated-id", nil }

func setupUserService(t *testing.T) (*UserService, *mockRepo, *mockHasher) {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	repo := &mockRepo{}
	hasher := &mockHasher{}
	return NewUserService(repo, hasher, mockIDGenerator{}, log), repo, hasher
}

func TestUserService_CreateUser_HashesPassword(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	var stored domain.User
	repo.createFunc = func(ctx context.Context, user domain.User) error {
		stored = user
		return nil
	}

	summary, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stored.PasswordHash == "secret-password" {
		t.Fatal("expected password to be hashed before storage")
	}
	if stored.PasswordHash != "hashed:secret-password" {
		t.Errorf("unexpected hash %q", stored.PasswordHash)
	}
	if string(summary.ID) != "generated-id" {
		t.Errorf("expected generated id, got %q", summary.ID)
	}
	if summary.Email != "alice@example.com" {
		t.Errorf("unexpected email %q", summary.Email)
	}
}

func TestUserService_CreateUser_DuplicateEmail(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.createFunc = func(ctx context.Context, user domain.User) error {
		return userrepo.ErrEmailAlreadyExists
	}

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	if !errors.Is(err, commonerrors.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUserService_CreateUser_HashFailure(t *testing.T) {
	svc, _, hasher := setupUserService(t)

	hasher.hashFunc = func(password string) (string, error) {
		return "", errors.New("bcrypt failure")
	}

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != commonerrors.ErrInternalError.Code() {
		t.Fatalf("expected internal domain error, got %v", err)
	}
}

func TestUserService_ListUsers_WrapsRepositoryErrors(t *testing.T) {
	svc, repo, _ := setupUserService(t)

	repo.listFunc = func(ctx context.Context, limit, offset int) ([]domain.Summary, error) {
		return nil, errors.New("connection refused")
	}

	_, err := svc.ListUsers(context.Background(), 10, 0)
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != commonerrors.ErrDatabaseError.Code() {
		t.Fatalf("expected database domain error, got %v", err)
	}
}
