//go:build unit || e2e

package builder

import (
	"context"
	"testing"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/booking"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/stretchr/testify/require"
)

type BookingBuilder struct {
	SlotID            int64
	UserID            *int64
	GuestName         string
	GuestEmail        string
	Status            booking.Status
	PaymentStatus     booking.PaymentStatus
	CheckoutSessionID *string
	AdmissionLevel    admission.Level
	CreatedAt         time.Time
}

// NewBookingBuilder starts a confirmed guest booking.
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		SlotID:         1,
		GuestName:      "Ada Guest",
		GuestEmail:     "ada@example.com",
		Status:         booking.StatusConfirmed,
		AdmissionLevel: admission.LevelNormal,
		CreatedAt:      time.Now().UTC(),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) ForSlot(slotID int64) *BookingBuilder {
	b.SlotID = slotID
	return b
}

func (b *BookingBuilder) ForUser(userID int64) *BookingBuilder {
	b.UserID = &userID
	return b
}

func (b *BookingBuilder) Pending() *BookingBuilder {
	b.Status = booking.StatusPending
	return b
}

// AwaitingPayment is a pending booking with an open checkout session.
func (b *BookingBuilder) AwaitingPayment(sessionID string) *BookingBuilder {
	b.Status = booking.StatusPending
	b.PaymentStatus = booking.PaymentPending
	b.CheckoutSessionID = &sessionID
	return b
}

func (b *BookingBuilder) Paid() *BookingBuilder {
	b.Status = booking.StatusConfirmed
	b.PaymentStatus = booking.PaymentPaid
	return b
}

func (b *BookingBuilder) CreatedAgo(d time.Duration) *BookingBuilder {
	b.CreatedAt = time.Now().UTC().Add(-d)
	return b
}

func (b *BookingBuilder) BuildSnapshot() booking.Snapshot {
	s := booking.Snapshot{
		SlotID:            b.SlotID,
		UserID:            b.UserID,
		GuestName:         b.GuestName,
		GuestEmail:        b.GuestEmail,
		Status:            b.Status,
		PaymentStatus:     b.PaymentStatus,
		CheckoutSessionID: b.CheckoutSessionID,
		AdmissionLevel:    b.AdmissionLevel,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.CreatedAt,
	}
	if b.Status == booking.StatusCancelled {
		at := b.CreatedAt
		s.CancelledAt = &at
	}
	return s
}

func (b *BookingBuilder) BuildDomain() *booking.Booking {
	return booking.Reconstruct(b.BuildSnapshot())
}

func (b *BookingBuilder) BuildView(id int64) *queries.BookingView {
	s := b.BuildSnapshot()
	return &queries.BookingView{
		ID:                id,
		SlotID:            s.SlotID,
		UserID:            s.UserID,
		GuestName:         s.GuestName,
		GuestEmail:        s.GuestEmail,
		Status:            string(s.Status),
		PaymentStatus:     s.PaymentStatus.Ptr(),
		CheckoutSessionID: s.CheckoutSessionID,
		AdmissionLevel:    string(s.AdmissionLevel),
		CanCancel:         s.Status != booking.StatusCancelled,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		CancelledAt:       s.CancelledAt,
	}
}

func (b *BookingBuilder) Create(t *testing.T, uow shared.UnitOfWork) int64 {
	t.Helper()
	var id int64
	err := uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		id, err = tx.Bookings().Create(ctx, b.BuildDomain())
		return err
	})
	require.NoError(t, err)
	return id
}
