package repository

import (
	"context"
	"time"

	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/pgconv"
	"studio-booking/internal/usecase/shared"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

// Claim inserts the key. A concurrent claimer blocks on the unique index
// until the first transaction ends, then sees the row.
func (r *IdempotencyRepository) Claim(ctx context.Context, scope, key, requestHash string, now time.Time) (bool, error) {
	query, args, err := db.Psql.Insert("idempotency_keys").
		Columns("scope", "key", "request_hash", "created_at").
		Values(scope, key, requestHash, now).
		Suffix("ON CONFLICT (scope, key) DO NOTHING").
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build idempotency claim", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, scope, key string) (*shared.IdempotencyRecord, error) {
	query, args, err := db.Psql.Select("scope", "key", "request_hash", "result_id", "created_at").
		From("idempotency_keys").
		Where(squirrel.Eq{"scope": scope, "key": key}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build idempotency select", err)
	}

	var (
		rec      shared.IdempotencyRecord
		resultID pgtype.Int8
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(&rec.Scope, &rec.Key, &rec.RequestHash, &resultID, &rec.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", errs.ErrNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	rec.ResultID = pgconv.Int8PtrFromPgtype(resultID)
	return &rec, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, scope, key string, resultID int64) error {
	query, args, err := db.Psql.Update("idempotency_keys").
		Set("result_id", resultID).
		Where(squirrel.Eq{"scope": scope, "key": key}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build idempotency update", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	return nil
}
