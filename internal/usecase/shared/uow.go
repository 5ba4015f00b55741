package shared

import (
	"context"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/domain/slot"
	"studio-booking/internal/domain/studio"
)

type UnitOfWork interface {
	// Within runs fn in one transaction. Locks taken through the Tx
	// repositories are held until fn returns.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Studios() StudioRepository
	Services() ServiceRepository
	Slots() SlotRepository
	Bookings() BookingRepository
	Idempotency() IdempotencyRepository
	Outbox() OutboxRepository
}

type StudioRepository interface {
	Create(ctx context.Context, s *studio.Studio) (int64, error)
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
	Update(ctx context.Context, s *studio.Studio) error
}

type ServiceRepository interface {
	Create(ctx context.Context, s *catalog.Service) (int64, error)
	GetByID(ctx context.Context, id int64) (*catalog.Service, error)
}

type SlotRepository interface {
	Create(ctx context.Context, s *slot.Slot) (int64, error)
	GetByID(ctx context.Context, id int64) (*slot.Slot, error)
	// GetForUpdate takes the per-slot lock. Admission, cancellation and
	// payment updates for the slot's bookings all go through it first.
	GetForUpdate(ctx context.Context, id int64) (*slot.Slot, error)
	Update(ctx context.Context, s *slot.Slot) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (int64, error)
	GetByID(ctx context.Context, id int64) (*booking.Booking, error)
	// GetForUpdate locks the booking row. Callers hold the slot lock first.
	GetForUpdate(ctx context.Context, id int64) (*booking.Booking, error)
	GetByCheckoutSession(ctx context.Context, sessionID string) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
	// CountOccupied counts pending and confirmed bookings of the slot.
	CountOccupied(ctx context.Context, slotID int64) (int, error)
	ListExpiredPending(ctx context.Context, createdBefore time.Time, limit int) ([]BookingRef, error)
}

type IdempotencyRepository interface {
	// Claim inserts the key and reports false when it already existed.
	Claim(ctx context.Context, scope, key, requestHash string, now time.Time) (bool, error)
	Get(ctx context.Context, scope, key string) (*IdempotencyRecord, error)
	Complete(ctx context.Context, scope, key string, resultID int64) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, ev OutboxEvent) error
	// ClaimBatch returns unpublished events, skipping rows other relays hold.
	ClaimBatch(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []string, now time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
