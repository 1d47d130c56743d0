package service

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "github.com/sleepr-io/sleepr/backend/internal/common/errors"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/reservation/domain"
	resrepo "github.com/sleepr-io/sleepr/backend/internal/reservation/repository"
)

type mockRepo struct {
	createFunc func(ctx context.Context, res domain.Reservation) error
	deleteFunc func(ctx context.Context, id, userID string) error
}

func (m *mockRepo) Create(ctx context.Context, res domain.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, res)
	}
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id, userID string) (domain.Reservation, error) {
	return domain.Reservation{}, resrepo.ErrReservationNotFound
}

func (m *mockRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Reservation, error) {
	return nil, nil
}

func (m *mockRepo) UpdateDates(ctx context.Context, id, userID string, startDate, endDate time.Time) (domain.Reservation, error) {
	return domain.Reservation{}, resrepo.ErrReservationNotFound
}

func (m *mockRepo) Delete(ctx context.Context, id, userID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, userID)
	}
	return nil
}

type mockIDGenerator struct{}

func (mockIDGenerator) NewID() (string, error) { return "reservation-id", nil }

func setupReservationService(t *testing.T) (*ReservationService, *mockRepo) {
	t.Helper()

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	repo := &mockRepo{}
	return NewReservationService(repo, mockIDGenerator{}, log), repo
}

func validInput() CreateReservationInput {
	start := time.Date(2026, 2, 1, 14, 0, 0, 0, time.UTC)
	return CreateReservationInput{
		UserID:    "user-123",
		PlaceID:   "place-456",
		InvoiceID: "invoice-789",
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
	}
}

func TestReservationService_Create_Success(t *testing.T) {
	svc, repo := setupReservationService(t)

	var stored domain.Reservation
	repo.createFunc = func(ctx context.Context, res domain.Reservation) error {
		stored = res
		return nil
	}

	res, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if res.ID != "reservation-id" {
		t.Errorf("expected generated id, got %q", res.ID)
	}
	if stored.UserID != "user-123" {
		t.Errorf("expected user id from input, got %q", stored.UserID)
	}
}

func TestReservationService_Create_RejectsInvertedDates(t *testing.T) {
	svc, _ := setupReservationService(t)

	input := validInput()
	input.StartDate, input.EndDate = input.EndDate, input.StartDate

	_, err := svc.Create(context.Background(), input)
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestReservationService_Create_RejectsZeroLengthStay(t *testing.T) {
	svc, _ := setupReservationService(t)

	input := validInput()
	input.EndDate = input.StartDate

	_, err := svc.Create(context.Background(), input)
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestReservationService_Get_NotFound(t *testing.T) {
	svc, _ := setupReservationService(t)

	_, err := svc.Get(context.Background(), "missing", "user-123")
	if !errors.Is(err, commonerrors.ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestReservationService_Delete_WrapsRepositoryErrors(t *testing.T) {
	svc, repo := setupReservationService(t)

	repo.deleteFunc = func(ctx context.Context, id, userID string) error {
		return errors.New("connection refused")
	}

	err := svc.Delete(context.Background(), "res-1", "user-123")
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != commonerrors.ErrDatabaseError.Code() {
		t.Fatalf("expected database domain error, got %v", err)
	}
}
