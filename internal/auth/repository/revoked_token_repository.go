package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/sleepr-io/sleepr/backend/internal/auth/domain"
	"github.com/sleepr-io/sleepr/backend/internal/auth/revocation"
	"github.com/sleepr-io/sleepr/backend/internal/common/constants"
	"github.com/sleepr-io/sleepr/backend/internal/common/db"
)

// PgRevokedTokenJournal persists blocklist records so that revocations can
// be shared across instances and reloaded after a restart. Schema:
// revoked_tokens(token PK, user_id, token_type, expires_at indexed).
type PgRevokedTokenJournal struct {
	pool *pgxpool.Pool
}

func NewPgRevokedTokenJournal(pool *pgxpool.Pool) *PgRevokedTokenJournal {
	return &PgRevokedTokenJournal{pool: pool}
}

func (j *PgRevokedTokenJournal) Record(ctx context.Context, rec revocation.Record) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	_, err := j.pool.Exec(
		ctx,
		`INSERT INTO revoked_tokens (token, user_id, token_type, expires_at, revoked_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (token) DO UPDATE SET expires_at = EXCLUDED.expires_at`,
		rec.Token,
		nullIfEmpty(rec.UserID),
		nullIfEmpty(string(rec.TokenType)),
		rec.ExpiresAt,
	)
	return db.HandleExecError(err, "record revoked token", start)
}

func (j *PgRevokedTokenJournal) LoadActive(ctx context.Context) ([]revocation.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := j.pool.Query(
		ctx,
		`SELECT token, COALESCE(user_id, ''), COALESCE(token_type, ''), expires_at
		 FROM revoked_tokens
		 WHERE expires_at > NOW()`,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "load revoked tokens", start)
	}
	defer rows.Close()

	var recs []revocation.Record
	for rows.Next() {
		var rec revocation.Record
		var tokenType string
		if err := rows.Scan(&rec.Token, &rec.UserID, &tokenType, &rec.ExpiresAt); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan revoked token", start)
		}
		rec.TokenType = domain.TokenType(tokenType)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "load revoked tokens", start)
	}

	db.MeasureQueryDuration("load revoked tokens", start)
	return recs, nil
}

func (j *PgRevokedTokenJournal) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	start := time.Now()
	res, err := j.pool.Exec(
		ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < NOW()`,
	)
	if err != nil {
		return 0, db.HandleExecError(err, "delete expired revoked tokens", start)
	}
	db.MeasureQueryDuration("delete expired revoked tokens", start)
	return res.RowsAffected(), nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
