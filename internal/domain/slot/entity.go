package slot

import (
	"strings"
	"time"

	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/patch"
)

// Slot is one scheduled instance of a service. It is never deleted;
// Deactivate hides it while keeping its booking history.
type Slot struct {
	ID               int64
	StudioID         int64
	ServiceID        *int64
	Title            string
	Description      *string
	StartTime        time.Time
	EndTime          time.Time
	MaxCapacity      int
	PriceCents       int
	CoursePriceCents *int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type NewSlotParams struct {
	StudioID         int64
	Title            string
	Description      *string
	StartTime        time.Time
	EndTime          *time.Time
	MaxCapacity      *int
	PriceCents       *int
	CoursePriceCents *int
}

// NewSlot builds a slot. With a service, capacity, price and end time default
// to the service's values.
func NewSlot(p NewSlotParams, svc *catalog.Service, now time.Time) (*Slot, error) {
	s := &Slot{
		StudioID:         p.StudioID,
		Title:            strings.TrimSpace(p.Title),
		Description:      p.Description,
		StartTime:        p.StartTime.UTC(),
		CoursePriceCents: p.CoursePriceCents,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if svc != nil {
		if svc.StudioID != p.StudioID {
			return nil, errs.Validationf("service %d does not belong to studio %d", svc.ID, p.StudioID)
		}
		id := svc.ID
		s.ServiceID = &id
		s.MaxCapacity = svc.MaxCapacity
		s.PriceCents = svc.PriceSingleCents
		s.EndTime = s.StartTime.Add(svc.Duration())
		if s.Title == "" {
			s.Title = svc.Name
		}
		if s.CoursePriceCents == nil {
			s.CoursePriceCents = svc.PriceCourseCents
		}
	}

	s.MaxCapacity = patch.Coalesce(p.MaxCapacity, s.MaxCapacity)
	s.PriceCents = patch.Coalesce(p.PriceCents, s.PriceCents)
	if p.EndTime != nil {
		s.EndTime = p.EndTime.UTC()
	}

	if !s.StartTime.After(now) {
		return nil, errs.Validationf("start_time must be in the future")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

type UpdateParams struct {
	Title            *string
	Description      *string
	StartTime        *time.Time
	EndTime          *time.Time
	MaxCapacity      *int
	PriceCents       *int
	CoursePriceCents *int
	IsActive         *bool
}

// Apply updates the slot in place. A capacity change only affects admissions
// that start after the change commits. Slots that already started are frozen.
func (s *Slot) Apply(u UpdateParams, now time.Time) error {
	if s.HasStarted(now) {
		return errs.ErrSlotAlreadyOccurred
	}
	next := *s
	next.Title = strings.TrimSpace(patch.Coalesce(u.Title, s.Title))
	if u.Description != nil {
		next.Description = u.Description
	}
	next.StartTime = patch.Coalesce(u.StartTime, s.StartTime).UTC()
	next.EndTime = patch.Coalesce(u.EndTime, s.EndTime).UTC()
	next.MaxCapacity = patch.Coalesce(u.MaxCapacity, s.MaxCapacity)
	next.PriceCents = patch.Coalesce(u.PriceCents, s.PriceCents)
	if u.CoursePriceCents != nil {
		next.CoursePriceCents = u.CoursePriceCents
	}
	next.IsActive = patch.Coalesce(u.IsActive, s.IsActive)

	if u.StartTime != nil && next.HasStarted(now) {
		return errs.Validationf("start_time must be in the future")
	}
	if err := next.validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*s = next
	return nil
}

func (s *Slot) Deactivate(now time.Time) {
	if !s.IsActive {
		return
	}
	s.IsActive = false
	s.UpdatedAt = now
}

// IsOpen reports whether the slot still accepts bookings at now.
func (s *Slot) IsOpen(now time.Time) bool {
	return s.IsActive && s.StartTime.After(now)
}

func (s *Slot) HasStarted(now time.Time) bool {
	return !s.StartTime.After(now)
}

func (s *Slot) RequiresPayment() bool {
	return s.PriceCents > 0
}

func (s *Slot) validate() error {
	if s.Title == "" {
		return errs.Validationf("title is required")
	}
	if !s.EndTime.After(s.StartTime) {
		return errs.Validationf("end_time must be after start_time")
	}
	if s.MaxCapacity <= 0 {
		return errs.Validationf("max_capacity must be > 0")
	}
	if s.PriceCents < 0 {
		return errs.Validationf("price_cents must be >= 0")
	}
	if s.CoursePriceCents != nil && *s.CoursePriceCents < 0 {
		return errs.Validationf("course_price_cents must be >= 0")
	}
	return nil
}
