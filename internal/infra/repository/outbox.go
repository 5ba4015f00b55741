package repository

import (
	"context"
	"time"

	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/shared"

	"github.com/Masterminds/squirrel"
)

// maxOutboxAttempts parks an event after repeated broker failures.
const maxOutboxAttempts = 10

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, ev shared.OutboxEvent) error {
	query, args, err := db.Psql.Insert("outbox_events").
		Columns("id", "topic", "key", "payload", "created_at").
		Values(ev.ID, ev.Topic, ev.Key, ev.Payload, ev.CreatedAt).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build outbox insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}

// ClaimBatch locks unpublished rows; concurrent relays skip them.
func (r *OutboxRepository) ClaimBatch(ctx context.Context, limit int) ([]shared.OutboxEvent, error) {
	query, args, err := db.Psql.Select("id", "topic", "key", "payload", "attempts", "created_at").
		From("outbox_events").
		Where(squirrel.Eq{"published_at": nil}).
		Where(squirrel.Lt{"attempts": maxOutboxAttempts}).
		OrderBy("created_at ASC").
		Limit(uint64(max(limit, 1))).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build outbox claim", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox events", err)
	}
	defer rows.Close()

	var events []shared.OutboxEvent
	for rows.Next() {
		var ev shared.OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.Topic, &ev.Key, &ev.Payload, &ev.Attempts, &ev.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox events", err)
	}
	return events, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []string, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := db.Psql.Update("outbox_events").
		Set("published_at", now).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build outbox publish update", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to mark outbox events published", err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	query, args, err := db.Psql.Update("outbox_events").
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", reason).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr("failed to build outbox failure update", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to mark outbox event failed", err)
	}
	return nil
}
