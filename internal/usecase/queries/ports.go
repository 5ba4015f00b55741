package queries

import (
	"context"
	"time"

	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/domain/studio"
)

type SlotReadStore interface {
	FindSlot(ctx context.Context, id int64) (*SlotRecord, error)
	ListStudioSlots(ctx context.Context, studioID int64, f SlotFilter) ([]*SlotRecord, error)
	CountOccupied(ctx context.Context, slotID int64) (int, error)
}

type BookingReadStore interface {
	FindBooking(ctx context.Context, id int64) (*BookingRecord, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]*BookingRecord, error)
	CountBookings(ctx context.Context, f BookingFilter) (int, error)
}

type CatalogReadStore interface {
	FindService(ctx context.Context, id int64) (*catalog.Service, error)
	FindStudio(ctx context.Context, id int64) (*studio.Studio, error)
	// ListStudios returns studios newest first.
	ListStudios(ctx context.Context, f StudioFilter) ([]*studio.Studio, error)
	CountStudios(ctx context.Context, f StudioFilter) (int, error)
	// ListActiveServices returns the active services of the given studios,
	// optionally of one category.
	ListActiveServices(ctx context.Context, studioIDs []int64, category *catalog.Category) ([]*catalog.Service, error)
}

// BookingTokenVerifier resolves a booking access token to its booking id.
type BookingTokenVerifier interface {
	VerifyBookingToken(token string) (int64, error)
}

// AvailabilityCache holds rendered slot records between writes. A miss
// returns a nil record and the generation to fill; Set under that generation
// never overwrites data from a write that committed after the Get.
type AvailabilityCache interface {
	Get(ctx context.Context, slotID int64) (*SlotRecord, int64, error)
	Set(ctx context.Context, rec *SlotRecord, generation int64, ttl time.Duration) error
}
