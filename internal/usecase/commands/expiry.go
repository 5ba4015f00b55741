package commands

import (
	"context"
	"log/slog"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"
)

const expiryBatchSize = 100

// ExpiryCommands cancels pending bookings whose payment never arrived.
type ExpiryCommands interface {
	ExpirePending(ctx context.Context) (int, error)
}

type expiryUseCaseImpl struct {
	uow     shared.UnitOfWork
	cache   AvailabilityInvalidator
	metrics Metrics
	clock   clock.Clock
	grace   time.Duration
}

func NewExpiryCommands(uow shared.UnitOfWork, cache AvailabilityInvalidator, metrics Metrics, clk clock.Clock, cfg config.Config) ExpiryCommands {
	return &expiryUseCaseImpl{uow: uow, cache: cache, metrics: metrics, clock: clk, grace: cfg.Booking.PendingGracePeriod}
}

// ExpirePending expires each candidate in its own transaction under the
// slot lock and re-checks it there, since a webhook may have paid it since.
func (uc *expiryUseCaseImpl) ExpirePending(ctx context.Context) (int, error) {
	cutoff := uc.clock.Now().Add(-uc.grace)

	var refs []shared.BookingRef
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var lerr error
		refs, lerr = tx.Bookings().ListExpiredPending(ctx, cutoff, expiryBatchSize)
		return lerr
	})
	if err != nil {
		return 0, errs.Wrap(err, "list expired pending bookings")
	}

	expired := 0
	for _, ref := range refs {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		ok, err := uc.expireOne(ctx, ref, cutoff)
		if err != nil {
			slog.ErrorContext(ctx, "failed to expire pending booking", "booking_id", ref.ID, "error", err.Error())
			continue
		}
		if ok {
			expired++
			uc.metrics.BookingTransitioned(string(booking.StatusCancelled), "expired")
			if ierr := uc.cache.Invalidate(ctx, ref.SlotID); ierr != nil {
				slog.WarnContext(ctx, "availability cache invalidation failed", "slot_id", ref.SlotID, "error", ierr.Error())
			}
		}
	}
	if expired > 0 {
		slog.InfoContext(ctx, "expired pending bookings", "count", expired, "cutoff", cutoff)
	}
	return expired, nil
}

func (uc *expiryUseCaseImpl) expireOne(ctx context.Context, ref shared.BookingRef, cutoff time.Time) (bool, error) {
	expired := false
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired = false
		now := uc.clock.Now()
		if _, err := tx.Slots().GetForUpdate(ctx, ref.SlotID); err != nil {
			return err
		}
		b, err := tx.Bookings().GetForUpdate(ctx, ref.ID)
		if err != nil {
			return err
		}
		if b.CreatedAt().After(cutoff) {
			return nil
		}
		if err = b.Expire(now); err != nil {
			if errs.Is(err, errs.ErrInvalidTransition) {
				return nil
			}
			return err
		}
		if err = tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		expired = true
		return enqueueBookingEvent(ctx, tx, shared.TopicBookingExpired, b, "payment_timeout", now)
	})
	return expired, err
}
