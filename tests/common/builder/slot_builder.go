//go:build unit || e2e

package builder

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/slot"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/stretchr/testify/require"
)

type SlotBuilder struct {
	StudioID    int64
	ServiceID   *int64
	Title       string
	StartTime   time.Time
	Duration    time.Duration
	MaxCapacity int
	PriceCents  int
	IsActive    bool
}

// NewSlotBuilder starts a free, active slot two days from now.
func NewSlotBuilder() *SlotBuilder {
	return &SlotBuilder{
		StudioID:    1,
		Title:       "Morning Flow",
		StartTime:   time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second),
		Duration:    time.Hour,
		MaxCapacity: 10,
		IsActive:    true,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) WithStudio(studioID int64) *SlotBuilder {
	b.StudioID = studioID
	return b
}

func (b *SlotBuilder) WithService(serviceID int64) *SlotBuilder {
	b.ServiceID = &serviceID
	return b
}

func (b *SlotBuilder) WithCapacity(n int) *SlotBuilder {
	b.MaxCapacity = n
	return b
}

func (b *SlotBuilder) WithPrice(cents int) *SlotBuilder {
	b.PriceCents = cents
	return b
}

func (b *SlotBuilder) StartingAt(t time.Time) *SlotBuilder {
	b.StartTime = t.UTC()
	return b
}

func (b *SlotBuilder) Inactive() *SlotBuilder {
	b.IsActive = false
	return b
}

func (b *SlotBuilder) BuildDomain() *slot.Slot {
	now := time.Now().UTC()
	return &slot.Slot{
		StudioID:    b.StudioID,
		ServiceID:   b.ServiceID,
		Title:       b.Title,
		StartTime:   b.StartTime,
		EndTime:     b.StartTime.Add(b.Duration),
		MaxCapacity: b.MaxCapacity,
		PriceCents:  b.PriceCents,
		IsActive:    b.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// BuildRecord wraps the slot as a read store record with the given occupancy.
func (b *SlotBuilder) BuildRecord(id int64, policy admission.Policy, occupied int) *queries.SlotRecord {
	s := b.BuildDomain()
	s.ID = id
	return &queries.SlotRecord{Slot: *s, Policy: policy, Occupied: occupied}
}

func (b *SlotBuilder) Create(t *testing.T, uow shared.UnitOfWork) int64 {
	t.Helper()
	var id int64
	err := uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		id, err = tx.Slots().Create(ctx, b.BuildDomain())
		return err
	})
	require.NoError(t, err)
	return id
}
