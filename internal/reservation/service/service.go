package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	commoncrypto "github.com/sleepr-io/sleepr/backend/internal/common/crypto"
	commonerrors "github.com/sleepr-io/sleepr/backend/internal/common/errors"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/observability/metrics"
	"github.com/sleepr-io/sleepr/backend/internal/reservation/domain"
	resrepo "github.com/sleepr-io/sleepr/backend/internal/reservation/repository"
)

var ErrInvalidDateRange = commonerrors.NewDomainError(
	"INVALID_DATE_RANGE",
	commonerrors.CategoryValidation,
	http.StatusBadRequest,
	"end date must be after start date",
)

type CreateReservationInput struct {
	UserID    string
	PlaceID   string
	InvoiceID string
	StartDate time.Time
	EndDate   time.Time
}

type ReservationService struct {
	repo        resrepo.Repository
	idGenerator commoncrypto.IDGenerator
	log         *logger.Logger
}

func NewReservationService(
	repo resrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	log *logger.Logger,
) *ReservationService {
	return &ReservationService{
		repo:        repo,
		idGenerator: idGenerator,
		log:         log,
	}
}

func (s *ReservationService) Create(ctx context.Context, input CreateReservationInput) (domain.Reservation, error) {
	if !input.EndDate.After(input.StartDate) {
		return domain.Reservation{}, ErrInvalidDateRange
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Reservation{}, commonerrors.ErrInternalError.WithCause(err)
	}

	res := domain.Reservation{
		ID:        id,
		UserID:    input.UserID,
		PlaceID:   input.PlaceID,
		InvoiceID: input.InvoiceID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": input.UserID,
			"action":  "create_reservation_failed",
		}).Errorf("create reservation failed: %v", err)
		return domain.Reservation{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.ReservationsCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"reservation_id": res.ID,
		"user_id":        res.UserID,
		"action":         "create_reservation_success",
	}).Info("reservation created")

	return res, nil
}

func (s *ReservationService) Get(ctx context.Context, id, userID string) (domain.Reservation, error) {
	res, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, resrepo.ErrReservationNotFound) {
			return domain.Reservation{}, commonerrors.ErrReservationNotFound
		}
		return domain.Reservation{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return res, nil
}

func (s *ReservationService) List(ctx context.Context, userID string, limit, offset int) ([]domain.Reservation, error) {
	out, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return out, nil
}

func (s *ReservationService) UpdateDates(ctx context.Context, id, userID string, startDate, endDate time.Time) (domain.Reservation, error) {
	if !endDate.After(startDate) {
		return domain.Reservation{}, ErrInvalidDateRange
	}

	res, err := s.repo.UpdateDates(ctx, id, userID, startDate, endDate)
	if err != nil {
		if errors.Is(err, resrepo.ErrReservationNotFound) {
			return domain.Reservation{}, commonerrors.ErrReservationNotFound
		}
		return domain.Reservation{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return res, nil
}

func (s *ReservationService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, resrepo.ErrReservationNotFound) {
			return commonerrors.ErrReservationNotFound
		}
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"reservation_id": id,
		"user_id":        userID,
		"action":         "delete_reservation",
	}).Info("reservation deleted")
	return nil
}
