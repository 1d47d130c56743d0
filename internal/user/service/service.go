package service

import (
	"context"
	"errors"

	commoncrypto "github.com/sleepr-io/sleepr/backend/internal/common/crypto"
	commonerrors "github.com/sleepr-io/sleepr/backend/internal/common/errors"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/user/domain"
	userrepo "github.com/sleepr-io/sleepr/backend/internal/user/repository"
)

type CreateUserInput struct {
	Email    string
	Password string
}

type UserService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	log         *logger.Logger
}

func NewUserService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	log *logger.Logger,
) *UserService {
	return &UserService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		log:         log,
	}
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (domain.Summary, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "create_user_attempt",
	}).Info("create user attempt")

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "create_user_hash_failed",
		}).Errorf("create user failed: password hash error: %v", err)
		return domain.Summary{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Summary{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := domain.User{
		ID:           domain.ID(id),
		Email:        input.Email,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "create_user_email_exists",
			}).Warn("create user failed: email already registered")
			return domain.Summary{}, commonerrors.ErrEmailAlreadyExists
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "create_user_failed",
		}).Errorf("create user failed: %v", err)
		return domain.Summary{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "create_user_success",
	}).Info("user created")

	return domain.Summary{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.Summary, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return users, nil
}
