package queries

import (
	"context"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/pkg/errs"
)

// Viewer is who is reading a booking: a signed-in user, the holder of the
// booking's access token, both or neither.
type Viewer struct {
	UserID      *int64
	AccessToken string
}

type BookingQueries interface {
	// GetByID returns the guest's contact and payment references only to
	// the booker, the token holder and the studio owner.
	GetByID(ctx context.Context, id int64, v Viewer) (*BookingView, error)
	// List and Count see the actor's own bookings, or every booking of a
	// slot whose studio the actor owns.
	List(ctx context.Context, actorID int64, f BookingFilter) ([]*BookingView, error)
	Count(ctx context.Context, actorID int64, f BookingFilter) (int, error)
	// ListBySlot is restricted to the owner of the slot's studio.
	ListBySlot(ctx context.Context, actorID, slotID int64) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	bookings BookingReadStore
	slots    SlotReadStore
	catalog  CatalogReadStore
	tokens   BookingTokenVerifier
	policy   booking.CancellationPolicy
	clock    clock.Clock
}

func NewBookingQueries(bookings BookingReadStore, slots SlotReadStore, catalog CatalogReadStore, tokens BookingTokenVerifier, clk clock.Clock, cfg config.Config) BookingQueries {
	return &bookingQueriesImpl{
		bookings: bookings,
		slots:    slots,
		catalog:  catalog,
		tokens:   tokens,
		policy:   booking.NewCancellationPolicy(cfg.Booking.CancellationWindow),
		clock:    clk,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id int64, v Viewer) (*BookingView, error) {
	rec, err := q.bookings.FindBooking(ctx, id)
	if err != nil {
		return nil, errs.Wrap(err, "find booking")
	}
	view := q.toView(rec)
	privileged, err := q.isPrivileged(ctx, rec, v)
	if err != nil {
		return nil, err
	}
	if !privileged {
		redact(view)
	}
	return view, nil
}

func (q *bookingQueriesImpl) isPrivileged(ctx context.Context, rec *BookingRecord, v Viewer) (bool, error) {
	if v.AccessToken != "" {
		if id, err := q.tokens.VerifyBookingToken(v.AccessToken); err == nil && id == rec.Booking.ID {
			return true, nil
		}
	}
	if v.UserID == nil {
		return false, nil
	}
	if rec.Booking.UserID != nil && *rec.Booking.UserID == *v.UserID {
		return true, nil
	}
	st, err := q.catalog.FindStudio(ctx, rec.StudioID)
	if err != nil {
		return false, errs.Wrap(err, "find studio")
	}
	return st.IsOwnedBy(*v.UserID), nil
}

func redact(v *BookingView) {
	v.GuestEmail = ""
	v.GuestPhone = nil
	v.CheckoutSessionID = nil
	v.PaymentIntentID = nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, actorID int64, f BookingFilter) ([]*BookingView, error) {
	f, err := q.scope(ctx, actorID, f)
	if err != nil {
		return nil, err
	}
	recs, err := q.bookings.ListBookings(ctx, f.Normalize())
	if err != nil {
		return nil, errs.Wrap(err, "list bookings")
	}
	return q.toViews(recs), nil
}

func (q *bookingQueriesImpl) Count(ctx context.Context, actorID int64, f BookingFilter) (int, error) {
	f, err := q.scope(ctx, actorID, f)
	if err != nil {
		return 0, err
	}
	n, err := q.bookings.CountBookings(ctx, f)
	if err != nil {
		return 0, errs.Wrap(err, "count bookings")
	}
	return n, nil
}

// scope narrows f to what actorID may see. A slot filter on a slot the
// actor's studio owns passes unchanged; anything else is pinned to the
// actor's own bookings.
func (q *bookingQueriesImpl) scope(ctx context.Context, actorID int64, f BookingFilter) (BookingFilter, error) {
	if f.Status != nil && !f.Status.IsValid() {
		return f, errs.Validationf("unknown booking status %q", *f.Status)
	}
	if f.SlotID != nil {
		owns, err := q.ownsSlot(ctx, actorID, *f.SlotID)
		if err != nil {
			return f, err
		}
		if owns {
			return f, nil
		}
	}
	if f.UserID != nil && *f.UserID != actorID {
		return f, errs.ErrForbidden
	}
	if f.GuestEmail != nil {
		return f, errs.ErrForbidden
	}
	f.UserID = &actorID
	return f, nil
}

func (q *bookingQueriesImpl) ownsSlot(ctx context.Context, actorID, slotID int64) (bool, error) {
	slotRec, err := q.slots.FindSlot(ctx, slotID)
	if err != nil {
		return false, errs.Wrap(err, "find slot")
	}
	st, err := q.catalog.FindStudio(ctx, slotRec.Slot.StudioID)
	if err != nil {
		return false, errs.Wrap(err, "find studio")
	}
	return st.IsOwnedBy(actorID), nil
}

func (q *bookingQueriesImpl) ListBySlot(ctx context.Context, actorID, slotID int64) ([]*BookingView, error) {
	owns, err := q.ownsSlot(ctx, actorID, slotID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, errs.ErrForbidden
	}
	recs, err := q.bookings.ListBookings(ctx, BookingFilter{SlotID: &slotID, Limit: MaxListLimit}.Normalize())
	if err != nil {
		return nil, errs.Wrap(err, "list slot bookings")
	}
	return q.toViews(recs), nil
}

func (q *bookingQueriesImpl) toViews(recs []*BookingRecord) []*BookingView {
	views := make([]*BookingView, len(recs))
	for i, rec := range recs {
		views[i] = q.toView(rec)
	}
	return views
}

func (q *bookingQueriesImpl) toView(rec *BookingRecord) *BookingView {
	s := rec.Booking
	b := booking.Reconstruct(s)
	return &BookingView{
		ID:                s.ID,
		SlotID:            s.SlotID,
		UserID:            s.UserID,
		GuestName:         s.GuestName,
		GuestEmail:        s.GuestEmail,
		GuestPhone:        s.GuestPhone,
		Status:            string(s.Status),
		PaymentStatus:     s.PaymentStatus.Ptr(),
		CheckoutSessionID: s.CheckoutSessionID,
		PaymentIntentID:   s.PaymentIntentID,
		AdmissionLevel:    string(s.AdmissionLevel),
		CanCancel:         q.policy.Check(b, rec.SlotStart, q.clock.Now()) == nil,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		CancelledAt:       s.CancelledAt,
		SlotTitle:         rec.SlotTitle,
		SlotStartTime:     rec.SlotStart,
		SlotEndTime:       rec.SlotEnd,
		StudioID:          rec.StudioID,
	}
}
