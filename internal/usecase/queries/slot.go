package queries

import (
	"context"
	"log/slog"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/pkg/errs"
)

type SlotQueries interface {
	GetSlot(ctx context.Context, id int64) (*SlotView, error)
	ListStudioSlots(ctx context.Context, studioID int64, f SlotFilter) ([]*SlotView, error)
	// Occupied is the capacity ledger read: pending plus confirmed bookings.
	Occupied(ctx context.Context, slotID int64) (int, error)
}

type slotQueriesImpl struct {
	slots    SlotReadStore
	catalog  CatalogReadStore
	cache    AvailabilityCache
	clock    clock.Clock
	cacheTTL time.Duration
	lowSpots int
}

func NewSlotQueries(slots SlotReadStore, catalog CatalogReadStore, cache AvailabilityCache, clk clock.Clock, cfg config.Config) SlotQueries {
	return &slotQueriesImpl{
		slots:    slots,
		catalog:  catalog,
		cache:    cache,
		clock:    clk,
		cacheTTL: cfg.Redis.TTL,
		lowSpots: cfg.Booking.LowSpotsThreshold,
	}
}

func (q *slotQueriesImpl) GetSlot(ctx context.Context, id int64) (*SlotView, error) {
	rec, gen, err := q.cache.Get(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "availability cache read failed", "slot_id", id, "error", err.Error())
	}
	if rec == nil {
		rec, err = q.slots.FindSlot(ctx, id)
		if err != nil {
			return nil, errs.Wrap(err, "find slot")
		}
		if err := q.cache.Set(ctx, rec, gen, q.cacheTTL); err != nil {
			slog.WarnContext(ctx, "availability cache write failed", "slot_id", id, "error", err.Error())
		}
	}
	return q.toView(rec), nil
}

func (q *slotQueriesImpl) ListStudioSlots(ctx context.Context, studioID int64, f SlotFilter) ([]*SlotView, error) {
	if _, err := q.catalog.FindStudio(ctx, studioID); err != nil {
		return nil, errs.Wrap(err, "find studio")
	}
	recs, err := q.slots.ListStudioSlots(ctx, studioID, f)
	if err != nil {
		return nil, errs.Wrap(err, "list studio slots")
	}
	views := make([]*SlotView, len(recs))
	for i, rec := range recs {
		views[i] = q.toView(rec)
	}
	return views, nil
}

func (q *slotQueriesImpl) Occupied(ctx context.Context, slotID int64) (int, error) {
	if _, err := q.slots.FindSlot(ctx, slotID); err != nil {
		return 0, errs.Wrap(err, "find slot")
	}
	n, err := q.slots.CountOccupied(ctx, slotID)
	if err != nil {
		return 0, errs.Wrap(err, "count occupied")
	}
	return n, nil
}

func (q *slotQueriesImpl) toView(rec *SlotRecord) *SlotView {
	s := rec.Slot
	a := admission.Project(s.IsActive, s.StartTime, s.MaxCapacity, rec.Policy, rec.Occupied, q.clock.Now(), q.lowSpots)
	return &SlotView{
		ID:                s.ID,
		StudioID:          s.StudioID,
		ServiceID:         s.ServiceID,
		ServiceName:       rec.ServiceName,
		ServiceCategory:   rec.ServiceCategory,
		Title:             s.Title,
		Description:       s.Description,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		MaxCapacity:       s.MaxCapacity,
		PriceCents:        s.PriceCents,
		CoursePriceCents:  s.CoursePriceCents,
		IsActive:          s.IsActive,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		BookingsCount:     a.Occupied,
		AvailableSpots:    a.AvailableSpots,
		OverbookSpotsLeft: a.OverbookSpotsLeft,
		CapacityLevel:     string(a.Level),
		LowSpots:          a.LowSpots,
	}
}
