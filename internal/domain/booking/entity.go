package booking

import (
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/ptr"
)

// Booking is a seat claim on one slot. Cancelled is terminal and
// cancelledAt is written exactly once, on entry into it.
type Booking struct {
	id                int64
	slotID            int64
	booker            Booker
	status            Status
	paymentStatus     PaymentStatus
	checkoutSessionID *string
	paymentIntentID   *string
	admissionLevel    admission.Level
	createdAt         time.Time
	updatedAt         time.Time
	cancelledAt       *time.Time
}

// New creates an admitted booking. Free slots are confirmed immediately,
// paid slots start pending until the payment webhook arrives.
func New(slotID int64, booker Booker, priceCents int, level admission.Level, now time.Time) (*Booking, error) {
	if slotID <= 0 {
		return nil, errs.Validationf("slot id must be positive")
	}
	if !level.IsValid() {
		return nil, errs.Validationf("unknown admission level %q", level)
	}
	if priceCents < 0 {
		return nil, errs.Validationf("price must be >= 0")
	}

	b := &Booking{
		slotID:         slotID,
		booker:         booker,
		status:         StatusPending,
		paymentStatus:  PaymentNone,
		admissionLevel: level,
		createdAt:      now,
		updatedAt:      now,
	}
	if priceCents == 0 {
		b.status = StatusConfirmed
	}
	return b, nil
}

// Snapshot is the persisted form of a booking.
type Snapshot struct {
	ID                int64
	SlotID            int64
	UserID            *int64
	GuestName         string
	GuestEmail        string
	GuestPhone        *string
	Status            Status
	PaymentStatus     PaymentStatus
	CheckoutSessionID *string
	PaymentIntentID   *string
	AdmissionLevel    admission.Level
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CancelledAt       *time.Time
}

func Reconstruct(s Snapshot) *Booking {
	return &Booking{
		id:     s.ID,
		slotID: s.SlotID,
		booker: Booker{
			userID: ptr.Clone(s.UserID),
			name:   s.GuestName,
			email:  s.GuestEmail,
			phone:  ptr.Clone(s.GuestPhone),
		},
		status:            s.Status,
		paymentStatus:     s.PaymentStatus,
		checkoutSessionID: ptr.Clone(s.CheckoutSessionID),
		paymentIntentID:   ptr.Clone(s.PaymentIntentID),
		admissionLevel:    s.AdmissionLevel,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		cancelledAt:       ptr.Clone(s.CancelledAt),
	}
}

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:                b.id,
		SlotID:            b.slotID,
		UserID:            ptr.Clone(b.booker.userID),
		GuestName:         b.booker.name,
		GuestEmail:        b.booker.email,
		GuestPhone:        ptr.Clone(b.booker.phone),
		Status:            b.status,
		PaymentStatus:     b.paymentStatus,
		CheckoutSessionID: ptr.Clone(b.checkoutSessionID),
		PaymentIntentID:   ptr.Clone(b.paymentIntentID),
		AdmissionLevel:    b.admissionLevel,
		CreatedAt:         b.createdAt,
		UpdatedAt:         b.updatedAt,
		CancelledAt:       ptr.Clone(b.cancelledAt),
	}
}

func (b *Booking) ID() int64                       { return b.id }
func (b *Booking) SlotID() int64                   { return b.slotID }
func (b *Booking) Booker() Booker                  { return b.booker }
func (b *Booking) Status() Status                  { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus    { return b.paymentStatus }
func (b *Booking) CheckoutSessionID() *string      { return b.checkoutSessionID }
func (b *Booking) PaymentIntentID() *string        { return b.paymentIntentID }
func (b *Booking) AdmissionLevel() admission.Level { return b.admissionLevel }
func (b *Booking) CreatedAt() time.Time            { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time            { return b.updatedAt }
func (b *Booking) CancelledAt() *time.Time         { return b.cancelledAt }

// AssignID is called once by the store after insert.
func (b *Booking) AssignID(id int64) {
	if b.id == 0 {
		b.id = id
	}
}

func (b *Booking) IsCancelled() bool { return b.status == StatusCancelled }

// Occupies reports whether the booking counts toward the slot's occupancy.
func (b *Booking) Occupies() bool { return b.status.Occupies() }

func (b *Booking) IsPaid() bool { return b.paymentStatus == PaymentPaid }
