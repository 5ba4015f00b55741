package commands

import (
	"context"
	"log/slog"

	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"
)

// OutboxCommands relays committed lifecycle events to the broker.
type OutboxCommands interface {
	Relay(ctx context.Context) (int, error)
}

type outboxUseCaseImpl struct {
	uow       shared.UnitOfWork
	publisher EventPublisher
	metrics   Metrics
	clock     clock.Clock
	batchSize int
}

func NewOutboxCommands(uow shared.UnitOfWork, publisher EventPublisher, metrics Metrics, clk clock.Clock, cfg config.Config) OutboxCommands {
	size := cfg.Booking.OutboxBatchSize
	if size <= 0 {
		size = 50
	}
	return &outboxUseCaseImpl{uow: uow, publisher: publisher, metrics: metrics, clock: clk, batchSize: size}
}

// Relay publishes one batch inside a single transaction. Delivery is at
// least once: a crash after Publish but before commit republishes the batch.
func (uc *outboxUseCaseImpl) Relay(ctx context.Context) (int, error) {
	published := 0
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		published = 0
		events, err := tx.Outbox().ClaimBatch(ctx, uc.batchSize)
		if err != nil {
			return err
		}

		done := make([]string, 0, len(events))
		for _, ev := range events {
			if perr := uc.publisher.Publish(ctx, ev.Topic, ev.Key, ev.Payload); perr != nil {
				slog.WarnContext(ctx, "outbox publish failed",
					"event_id", ev.ID,
					"topic", ev.Topic,
					"attempts", ev.Attempts+1,
					"error", perr.Error())
				if merr := tx.Outbox().MarkFailed(ctx, ev.ID, perr.Error()); merr != nil {
					return merr
				}
				continue
			}
			done = append(done, ev.ID)
		}
		if len(done) == 0 {
			return nil
		}
		if err = tx.Outbox().MarkPublished(ctx, done, uc.clock.Now()); err != nil {
			return err
		}
		published = len(done)
		return nil
	})
	if err != nil {
		return 0, errs.Wrap(err, "relay outbox")
	}
	if published > 0 {
		uc.metrics.OutboxPublished(published)
		slog.DebugContext(ctx, "outbox events published", "count", published)
	}
	return published, nil
}
