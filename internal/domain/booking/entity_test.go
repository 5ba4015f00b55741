//go:build unit

package booking_test

import (
	"strings"
	"testing"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/booking"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/ptr"
	"studio-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC)

func guest(t *testing.T) booking.Booker {
	t.Helper()
	b, err := booking.NewGuestBooker(" Ada Guest ", "Ada@Example.com", ptr.Of("  "))
	require.NoError(t, err)
	return b
}

func TestBooker(t *testing.T) {
	t.Run("guest fields are normalized", func(t *testing.T) {
		b := guest(t)
		assert.True(t, b.IsGuest())
		assert.Equal(t, "Ada Guest", b.Name())
		assert.Equal(t, "ada@example.com", b.Email())
		assert.Nil(t, b.Phone())
	})

	t.Run("guest validation", func(t *testing.T) {
		cases := []struct {
			name  string
			gname string
			email string
			phone *string
		}{
			{"empty name", "  ", "ada@example.com", nil},
			{"name too long", strings.Repeat("a", booking.MaxGuestNameLength+1), "ada@example.com", nil},
			{"bad email", "Ada", "ada.example.com", nil},
			{"phone too long", "Ada", "ada@example.com", ptr.Of(strings.Repeat("1", booking.MaxGuestPhoneLength+1))},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := booking.NewGuestBooker(tc.gname, tc.email, tc.phone)
				assert.ErrorIs(t, err, errs.ErrValidation)
			})
		}
	})

	t.Run("user booker may omit contact fields", func(t *testing.T) {
		b, err := booking.NewBooker(ptr.Of(int64(7)), "", "", nil)
		require.NoError(t, err)
		assert.False(t, b.IsGuest())
		assert.True(t, b.IsUser(7))
		assert.False(t, b.IsUser(8))

		_, err = booking.NewBooker(ptr.Of(int64(0)), "", "", nil)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestNew(t *testing.T) {
	t.Run("free slots confirm immediately", func(t *testing.T) {
		b, err := booking.New(1, guest(t), 0, admission.LevelNormal, t0)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, booking.PaymentNone, b.PaymentStatus())
		assert.True(t, b.Occupies())
	})

	t.Run("paid slots start pending", func(t *testing.T) {
		b, err := booking.New(1, guest(t), 2500, admission.LevelOverbooked, t0)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Equal(t, admission.LevelOverbooked, b.AdmissionLevel())
		assert.True(t, b.Occupies())
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := booking.New(0, guest(t), 0, admission.LevelNormal, t0)
		assert.ErrorIs(t, err, errs.ErrValidation)
		_, err = booking.New(1, guest(t), 0, admission.Level("full"), t0)
		assert.ErrorIs(t, err, errs.ErrValidation)
		_, err = booking.New(1, guest(t), -1, admission.LevelNormal, t0)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("snapshot round trips", func(t *testing.T) {
		snap := builder.NewBookingBuilder().ForUser(3).AwaitingPayment("cs_1").BuildSnapshot()
		snap.ID = 9
		got := booking.Reconstruct(snap).Snapshot()
		if diff := cmp.Diff(snap, got); diff != "" {
			t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLifecycle(t *testing.T) {
	later := t0.Add(time.Minute)

	t.Run("checkout then payment confirms", func(t *testing.T) {
		b := builder.NewBookingBuilder().Pending().BuildDomain()
		require.NoError(t, b.StartCheckout("cs_1", t0))
		assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
		assert.Equal(t, "cs_1", *b.CheckoutSessionID())

		assert.Equal(t, booking.PaymentApplied, b.MarkPaid(ptr.Of("pi_1"), later))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, booking.PaymentPaid, b.PaymentStatus())
		assert.Equal(t, "pi_1", *b.PaymentIntentID())
		assert.Equal(t, later, b.UpdatedAt())
	})

	t.Run("repeated payment is a duplicate", func(t *testing.T) {
		b := builder.NewBookingBuilder().Paid().BuildDomain()
		before := b.Snapshot()
		assert.Equal(t, booking.PaymentDuplicate, b.MarkPaid(ptr.Of("pi_2"), later))
		if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
			t.Errorf("duplicate payment changed the booking (-want +got):\n%s", diff)
		}
	})

	t.Run("payment after cancel stays cancelled and asks for a refund", func(t *testing.T) {
		b := builder.NewBookingBuilder().AwaitingPayment("cs_1").BuildDomain()
		require.NoError(t, b.Cancel(t0))
		assert.Equal(t, booking.PaymentRefundRequired, b.MarkPaid(nil, later))
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.True(t, b.IsPaid())
		assert.Equal(t, t0, *b.CancelledAt())
	})

	t.Run("checkout guards", func(t *testing.T) {
		confirmed := builder.NewBookingBuilder().BuildDomain()
		assert.ErrorIs(t, confirmed.StartCheckout("cs_1", t0), errs.ErrInvalidTransition)

		open := builder.NewBookingBuilder().AwaitingPayment("cs_1").BuildDomain()
		assert.ErrorIs(t, open.StartCheckout("cs_2", t0), errs.ErrConflict)

		pending := builder.NewBookingBuilder().Pending().BuildDomain()
		assert.ErrorIs(t, pending.StartCheckout("", t0), errs.ErrValidation)
	})

	t.Run("payment failure releases the seat once", func(t *testing.T) {
		b := builder.NewBookingBuilder().AwaitingPayment("cs_1").BuildDomain()
		assert.True(t, b.MarkPaymentFailed(t0))
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, booking.PaymentFailed, b.PaymentStatus())
		assert.False(t, b.Occupies())
		assert.False(t, b.MarkPaymentFailed(later))
		assert.Equal(t, t0, *b.CancelledAt())
	})

	t.Run("paid bookings never fail", func(t *testing.T) {
		b := builder.NewBookingBuilder().Paid().BuildDomain()
		assert.False(t, b.MarkPaymentFailed(t0))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("cancel is terminal and stamps once", func(t *testing.T) {
		b := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, b.Cancel(t0))
		assert.ErrorIs(t, b.Cancel(later), errs.ErrBookingAlreadyCancelled)
		assert.Equal(t, t0, *b.CancelledAt())
		assert.ErrorIs(t, b.Confirm(later), errs.ErrInvalidTransition)
	})

	t.Run("confirm is idempotent", func(t *testing.T) {
		b := builder.NewBookingBuilder().Pending().BuildDomain()
		require.NoError(t, b.Confirm(t0))
		require.NoError(t, b.Confirm(later))
		assert.Equal(t, t0, b.UpdatedAt())
	})

	t.Run("expire only touches unpaid pending bookings", func(t *testing.T) {
		b := builder.NewBookingBuilder().AwaitingPayment("cs_1").BuildDomain()
		require.NoError(t, b.Expire(t0))
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, booking.PaymentFailed, b.PaymentStatus())

		noCheckout := builder.NewBookingBuilder().Pending().BuildDomain()
		require.NoError(t, noCheckout.Expire(t0))
		assert.Equal(t, booking.PaymentNone, noCheckout.PaymentStatus())

		confirmed := builder.NewBookingBuilder().BuildDomain()
		assert.ErrorIs(t, confirmed.Expire(t0), errs.ErrInvalidTransition)
	})
}

func TestCancellationPolicy(t *testing.T) {
	policy := booking.NewCancellationPolicy(booking.DefaultCancellationWindow)

	cases := []struct {
		name      string
		booking   *builder.BookingBuilder
		untilSlot time.Duration
		errIs     error
	}{
		{"confirmed well ahead", builder.NewBookingBuilder(), 48 * time.Hour, nil},
		{"confirmed just outside the window", builder.NewBookingBuilder(), 12*time.Hour + time.Second, nil},
		{"confirmed exactly at the window", builder.NewBookingBuilder(), 12 * time.Hour, errs.ErrCancellationWindowExpired},
		{"confirmed inside the window", builder.NewBookingBuilder(), time.Hour, errs.ErrCancellationWindowExpired},
		{"pending inside the window", builder.NewBookingBuilder().Pending(), time.Hour, nil},
		{"pending after start", builder.NewBookingBuilder().Pending(), -time.Minute, errs.ErrSlotAlreadyOccurred},
		{"confirmed after start", builder.NewBookingBuilder(), 0, errs.ErrSlotAlreadyOccurred},
		{"already cancelled", builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) { b.Status = booking.StatusCancelled }), 48 * time.Hour, errs.ErrBookingAlreadyCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.booking.BuildDomain()
			err := policy.Check(b, t0.Add(tc.untilSlot), t0)
			if tc.errIs == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.errIs)
			}
		})
	}

	t.Run("negative window clamps to zero", func(t *testing.T) {
		p := booking.NewCancellationPolicy(-time.Hour)
		assert.Equal(t, time.Duration(0), p.Window)
		assert.True(t, p.CanCancel(builder.NewBookingBuilder().BuildDomain(), t0.Add(time.Second), t0))
	})

	t.Run("refund is due only for paid bookings", func(t *testing.T) {
		assert.True(t, booking.RefundDue(builder.NewBookingBuilder().Paid().BuildDomain()))
		assert.False(t, booking.RefundDue(builder.NewBookingBuilder().BuildDomain()))
	})
}
