//go:build unit

package slot_test

import (
	"testing"
	"time"

	"studio-booking/internal/domain/slot"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/ptr"
	"studio-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)

func TestNewSlot(t *testing.T) {
	svc := builder.NewServiceBuilder().WithStudio(1).BuildDomain()
	svc.ID = 4
	svc.PriceSingleCents = 1500
	start := now.Add(24 * time.Hour)

	t.Run("service supplies defaults", func(t *testing.T) {
		s, err := slot.NewSlot(slot.NewSlotParams{StudioID: 1, StartTime: start}, svc, now)
		require.NoError(t, err)
		assert.Equal(t, ptr.Of(int64(4)), s.ServiceID)
		assert.Equal(t, svc.Name, s.Title)
		assert.Equal(t, svc.MaxCapacity, s.MaxCapacity)
		assert.Equal(t, 1500, s.PriceCents)
		assert.Equal(t, start.Add(svc.Duration()), s.EndTime)
		assert.True(t, s.IsActive)
		assert.True(t, s.RequiresPayment())
	})

	t.Run("explicit values override the service", func(t *testing.T) {
		end := start.Add(90 * time.Minute)
		s, err := slot.NewSlot(slot.NewSlotParams{
			StudioID:    1,
			Title:       "Sunrise",
			StartTime:   start,
			EndTime:     &end,
			MaxCapacity: ptr.Of(4),
			PriceCents:  ptr.Of(0),
		}, svc, now)
		require.NoError(t, err)
		assert.Equal(t, "Sunrise", s.Title)
		assert.Equal(t, 4, s.MaxCapacity)
		assert.False(t, s.RequiresPayment())
		assert.Equal(t, end, s.EndTime)
	})

	t.Run("invalid slots", func(t *testing.T) {
		end := start.Add(-time.Minute)
		cases := []struct {
			name string
			p    slot.NewSlotParams
			svc  bool
		}{
			{"foreign service", slot.NewSlotParams{StudioID: 2, StartTime: start}, true},
			{"start in the past", slot.NewSlotParams{StudioID: 1, StartTime: now.Add(-time.Hour)}, true},
			{"end before start", slot.NewSlotParams{StudioID: 1, StartTime: start, EndTime: &end}, true},
			{"zero capacity", slot.NewSlotParams{StudioID: 1, StartTime: start, MaxCapacity: ptr.Of(0)}, true},
			{"no service and no title", slot.NewSlotParams{StudioID: 1, StartTime: start, MaxCapacity: ptr.Of(5)}, false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				s := svc
				if !tc.svc {
					s = nil
				}
				_, err := slot.NewSlot(tc.p, s, now)
				assert.ErrorIs(t, err, errs.ErrValidation)
			})
		}
	})
}

func TestApply(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		s := builder.NewSlotBuilder().BuildDomain()
		before := *s
		later := time.Now().UTC()

		require.NoError(t, s.Apply(slot.UpdateParams{MaxCapacity: ptr.Of(20)}, later))
		assert.Equal(t, 20, s.MaxCapacity)
		assert.Equal(t, before.Title, s.Title)
		assert.Equal(t, before.StartTime, s.StartTime)
		assert.Equal(t, later, s.UpdatedAt)
	})

	t.Run("invalid update leaves the slot untouched", func(t *testing.T) {
		s := builder.NewSlotBuilder().BuildDomain()
		before := *s
		end := s.StartTime.Add(-time.Hour)

		err := s.Apply(slot.UpdateParams{EndTime: &end, Title: ptr.Of("New")}, time.Now())
		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, before, *s)
	})

	t.Run("start time cannot move into the past", func(t *testing.T) {
		s := builder.NewSlotBuilder().BuildDomain()
		before := *s
		past := time.Now().Add(-time.Hour)
		end := past.Add(time.Hour * 2)

		err := s.Apply(slot.UpdateParams{StartTime: &past, EndTime: &end}, time.Now())
		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, before, *s)
	})

	t.Run("started slots are frozen", func(t *testing.T) {
		s := builder.NewSlotBuilder().BuildDomain()
		before := *s
		afterStart := s.StartTime.Add(time.Minute)

		err := s.Apply(slot.UpdateParams{MaxCapacity: ptr.Of(20)}, afterStart)
		require.ErrorIs(t, err, errs.ErrSlotAlreadyOccurred)
		assert.Equal(t, before, *s)
	})

	t.Run("deactivate closes the slot", func(t *testing.T) {
		s := builder.NewSlotBuilder().BuildDomain()
		assert.True(t, s.IsOpen(time.Now()))
		s.Deactivate(time.Now())
		assert.False(t, s.IsOpen(time.Now()))
		assert.False(t, s.HasStarted(time.Now()))
	})
}
