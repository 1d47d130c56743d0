package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/sleepr-io/sleepr/backend/internal/common/constants"
	"github.com/sleepr-io/sleepr/backend/internal/common/db"
	"github.com/sleepr-io/sleepr/backend/internal/reservation/domain"
)

var ErrReservationNotFound = errors.New("reservation not found")

// Repository stores reservations. Every read and mutation is scoped by
// user id so one account can never touch another's bookings.
type Repository interface {
	Create(ctx context.Context, res domain.Reservation) error
	FindByID(ctx context.Context, id, userID string) (domain.Reservation, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Reservation, error)
	UpdateDates(ctx context.Context, id, userID string, startDate, endDate time.Time) (domain.Reservation, error)
	Delete(ctx context.Context, id, userID string) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const reservationColumns = `id, user_id, place_id, invoice_id, start_date, end_date, created_at, updated_at`

func (r *PgRepository) Create(ctx context.Context, res domain.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO reservations (id, user_id, place_id, invoice_id, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID,
		res.UserID,
		res.PlaceID,
		res.InvoiceID,
		res.StartDate,
		res.EndDate,
	)
	if err != nil {
		return db.HandleExecError(err, "create reservation", start)
	}
	db.MeasureQueryDuration("create reservation", start)
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id, userID string) (domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			db.MeasureQueryDuration("find reservation", start)
			return domain.Reservation{}, ErrReservationNotFound
		}
		return domain.Reservation{}, db.HandleQueryError(err, nil, "find reservation", start)
	}
	db.MeasureQueryDuration("find reservation", start)
	return res, nil
}

func (r *PgRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Reservation, error) {
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
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE user_id = $1 ORDER BY start_date DESC LIMIT $2 OFFSET $3`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list reservations", start)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, db.HandleQueryError(err, nil, "scan reservation", start)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list reservations", start)
	}

	db.MeasureQueryDuration("list reservations", start)
	return out, nil
}

func (r *PgRepository) UpdateDates(ctx context.Context, id, userID string, startDate, endDate time.Time) (domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE reservations SET start_date = $3, end_date = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+reservationColumns,
		id,
		userID,
		startDate,
		endDate,
	)

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			db.MeasureQueryDuration("update reservation", start)
			return domain.Reservation{}, ErrReservationNotFound
		}
		return domain.Reservation{}, db.HandleQueryError(err, nil, "update reservation", start)
	}
	db.MeasureQueryDuration("update reservation", start)
	return res, nil
}

func (r *PgRepository) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM reservations WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		return db.HandleExecError(err, "delete reservation", start)
	}
	db.MeasureQueryDuration("delete reservation", start)

	if tag.RowsAffected() == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.PlaceID,
		&res.InvoiceID,
		&res.StartDate,
		&res.EndDate,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	return res, err
}
