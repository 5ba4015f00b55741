package memstore

import (
	"context"
	"sort"
	"strings"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/domain/slot"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/queries"
)

func (s *Store) FindStudio(_ context.Context, id int64) (*studio.Studio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.studios[id]
	if !ok {
		return nil, notFound("studio not found", errs.ErrStudioNotFound)
	}
	st = cloneStudio(st)
	return &st, nil
}

func (s *Store) ListStudios(_ context.Context, f queries.StudioFilter) ([]*studio.Studio, error) {
	f = f.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.matchStudiosLocked(f)
	out := make([]*studio.Studio, 0, f.Limit)
	for i := f.Skip; i < len(matched) && len(out) < f.Limit; i++ {
		st := cloneStudio(matched[i])
		out = append(out, &st)
	}
	return out, nil
}

func (s *Store) CountStudios(_ context.Context, f queries.StudioFilter) (int, error) {
	f = f.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchStudiosLocked(f)), nil
}

// matchStudiosLocked returns matching studios newest first.
func (s *Store) matchStudiosLocked(f queries.StudioFilter) []studio.Studio {
	matched := make([]studio.Studio, 0)
	for _, st := range s.studios {
		if f.OwnerID != nil && st.OwnerID != *f.OwnerID {
			continue
		}
		if f.IsActive != nil && st.IsActive != *f.IsActive {
			continue
		}
		if f.City != nil && (st.City == nil || strings.ToLower(*st.City) != *f.City) {
			continue
		}
		if !st.HasAmenities(f.Amenities) {
			continue
		}
		if f.Near != nil && (st.Latitude == nil || st.Longitude == nil || !f.Near.Contains(*st.Latitude, *st.Longitude)) {
			continue
		}
		if f.NeedsServices() && !s.hasMatchingServiceLocked(st, f) {
			continue
		}
		matched = append(matched, st)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (s *Store) hasMatchingServiceLocked(st studio.Studio, f queries.StudioFilter) bool {
	for _, svc := range s.services {
		if svc.StudioID != st.ID || !svc.IsActive {
			continue
		}
		if f.Category != nil && svc.Category != *f.Category {
			continue
		}
		if f.Query != nil && !containsFold(svc.Name, *f.Query) && !containsFold(st.Name, *f.Query) {
			continue
		}
		return true
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (s *Store) ListActiveServices(_ context.Context, studioIDs []int64, category *catalog.Category) ([]*catalog.Service, error) {
	want := make(map[int64]struct{}, len(studioIDs))
	for _, id := range studioIDs {
		want[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*catalog.Service, 0)
	for _, svc := range s.services {
		if _, ok := want[svc.StudioID]; !ok || !svc.IsActive {
			continue
		}
		if category != nil && svc.Category != *category {
			continue
		}
		out = append(out, &svc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudioID == out[j].StudioID {
			return out[i].ID < out[j].ID
		}
		return out[i].StudioID < out[j].StudioID
	})
	return out, nil
}

func (s *Store) FindService(_ context.Context, id int64) (*catalog.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, notFound("service not found", errs.ErrServiceNotFound)
	}
	return &svc, nil
}

func (s *Store) CountOccupied(_ context.Context, slotID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.occupiedLocked(slotID), nil
}

func (s *Store) occupiedLocked(slotID int64) int {
	n := 0
	for _, b := range s.bookings {
		if b.SlotID == slotID && b.Status.Occupies() {
			n++
		}
	}
	return n
}

func (s *Store) FindSlot(_ context.Context, id int64) (*queries.SlotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[id]
	if !ok {
		return nil, notFound("slot not found", errs.ErrSlotNotFound)
	}
	return s.slotRecordLocked(sl), nil
}

func (s *Store) ListStudioSlots(_ context.Context, studioID int64, f queries.SlotFilter) ([]*queries.SlotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*queries.SlotRecord, 0)
	for _, sl := range s.slots {
		if sl.StudioID != studioID {
			continue
		}
		if f.StartFrom != nil && sl.StartTime.Before(*f.StartFrom) {
			continue
		}
		if f.StartTo != nil && sl.StartTime.After(*f.StartTo) {
			continue
		}
		if f.IsActive != nil && sl.IsActive != *f.IsActive {
			continue
		}
		out = append(out, s.slotRecordLocked(sl))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Slot, out[j].Slot
		if a.StartTime.Equal(b.StartTime) {
			return a.ID < b.ID
		}
		return a.StartTime.Before(b.StartTime)
	})
	return out, nil
}

func (s *Store) slotRecordLocked(sl slot.Slot) *queries.SlotRecord {
	rec := &queries.SlotRecord{
		Slot:     sl,
		Policy:   admission.DefaultPolicy(),
		Occupied: s.occupiedLocked(sl.ID),
	}
	if sl.ServiceID != nil {
		if svc, ok := s.services[*sl.ServiceID]; ok {
			name, cat := svc.Name, string(svc.Category)
			rec.Policy = svc.Policy
			rec.ServiceName = &name
			rec.ServiceCategory = &cat
		}
	}
	return rec
}

func (s *Store) FindBooking(_ context.Context, id int64) (*queries.BookingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, notFound("booking not found", errs.ErrBookingNotFound)
	}
	return s.bookingRecordLocked(b), nil
}

func (s *Store) ListBookings(_ context.Context, f queries.BookingFilter) ([]*queries.BookingRecord, error) {
	f = f.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchBookingsLocked(f)
	out := make([]*queries.BookingRecord, 0, f.Limit)
	for i := f.Skip; i < len(matched) && len(out) < f.Limit; i++ {
		out = append(out, s.bookingRecordLocked(matched[i]))
	}
	return out, nil
}

func (s *Store) CountBookings(_ context.Context, f queries.BookingFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchBookingsLocked(f)), nil
}

// matchBookingsLocked returns matching bookings newest first.
func (s *Store) matchBookingsLocked(f queries.BookingFilter) []booking.Snapshot {
	var email string
	if f.GuestEmail != nil {
		email = strings.ToLower(strings.TrimSpace(*f.GuestEmail))
	}
	matched := make([]booking.Snapshot, 0)
	for _, b := range s.bookings {
		if f.SlotID != nil && b.SlotID != *f.SlotID {
			continue
		}
		if f.UserID != nil && (b.UserID == nil || *b.UserID != *f.UserID) {
			continue
		}
		if f.GuestEmail != nil && b.GuestEmail != email {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (s *Store) bookingRecordLocked(b booking.Snapshot) *queries.BookingRecord {
	rec := &queries.BookingRecord{Booking: b}
	if sl, ok := s.slots[b.SlotID]; ok {
		rec.SlotTitle = sl.Title
		rec.SlotStart = sl.StartTime
		rec.SlotEnd = sl.EndTime
		rec.StudioID = sl.StudioID
	}
	return rec
}
