package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/sleepr-io/sleepr/backend/internal/common/constants"
	"github.com/sleepr-io/sleepr/backend/internal/common/db"
	"github.com/sleepr-io/sleepr/backend/internal/user/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

// Repository is the user directory consumed by the session manager. Lookups
// are by email at login and by id everywhere else.
type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.Summary, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		string(user.ID),
		user.Email,
		user.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return db.HandleExecError(err, "create user", start)
	}
	db.MeasureQueryDuration("create user", start)
	return nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`,
		email,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			db.MeasureQueryDuration("find user by email", start)
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, db.HandleQueryError(err, nil, "find user by email", start)
	}
	db.MeasureQueryDuration("find user by email", start)
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`,
		string(id),
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			db.MeasureQueryDuration("find user by id", start)
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, db.HandleQueryError(err, nil, "find user by id", start)
	}
	db.MeasureQueryDuration("find user by id", start)
	return user, nil
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]domain.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	if limit <= 0 || limit > constants.MaxListLimit {
		limit = constants.DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, email, created_at FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list users", start)
	}
	defer rows.Close()

	var users []domain.Summary
	for rows.Next() {
		var u domain.Summary
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan user", start)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list users", start)
	}

	db.MeasureQueryDuration("list users", start)
	return users, nil
}
