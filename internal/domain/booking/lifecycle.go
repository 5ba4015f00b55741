package booking

import (
	"time"

	"studio-booking/internal/pkg/errs"
)

// Confirm moves pending to confirmed. Confirming a confirmed booking is a no-op.
func (b *Booking) Confirm(now time.Time) error {
	switch b.status {
	case StatusConfirmed:
		return nil
	case StatusPending:
		b.status = StatusConfirmed
		b.updatedAt = now
		return nil
	default:
		return errs.Wrap(errs.ErrInvalidTransition, "confirm "+string(b.status)+" booking")
	}
}

// StartCheckout attaches a provider checkout session to a pending booking.
func (b *Booking) StartCheckout(sessionID string, now time.Time) error {
	if b.status != StatusPending {
		return errs.Wrap(errs.ErrInvalidTransition, "checkout requires a pending booking")
	}
	if b.checkoutSessionID != nil {
		return errs.Wrap(errs.ErrConflict, "checkout session already created")
	}
	if sessionID == "" {
		return errs.Validationf("checkout session id is required")
	}
	b.checkoutSessionID = &sessionID
	b.paymentStatus = PaymentPending
	b.updatedAt = now
	return nil
}

// MarkPaid records a payment success. Repeated deliveries are reported as
// PaymentDuplicate and change nothing. Payment for a cancelled booking is
// recorded but leaves it cancelled.
func (b *Booking) MarkPaid(paymentIntentID *string, now time.Time) PaymentResult {
	if b.paymentStatus == PaymentPaid {
		return PaymentDuplicate
	}
	b.paymentStatus = PaymentPaid
	if paymentIntentID != nil && b.paymentIntentID == nil {
		id := *paymentIntentID
		b.paymentIntentID = &id
	}
	b.updatedAt = now

	if b.status == StatusCancelled {
		return PaymentRefundRequired
	}
	b.status = StatusConfirmed
	return PaymentApplied
}

// MarkPaymentFailed cancels a pending booking and releases its seat.
// It reports false when there was nothing to change.
func (b *Booking) MarkPaymentFailed(now time.Time) bool {
	if b.status != StatusPending || b.paymentStatus == PaymentPaid {
		return false
	}
	b.paymentStatus = PaymentFailed
	b.cancel(now)
	return true
}

// Cancel is the booker-initiated transition. Window checks live in
// CancellationPolicy.
func (b *Booking) Cancel(now time.Time) error {
	if b.status == StatusCancelled {
		return errs.ErrBookingAlreadyCancelled
	}
	b.cancel(now)
	return nil
}

// Expire cancels a pending booking whose payment never arrived.
func (b *Booking) Expire(now time.Time) error {
	if b.status != StatusPending || b.paymentStatus == PaymentPaid {
		return errs.Wrap(errs.ErrInvalidTransition, "only unpaid pending bookings expire")
	}
	if b.paymentStatus == PaymentPending {
		b.paymentStatus = PaymentFailed
	}
	b.cancel(now)
	return nil
}

func (b *Booking) cancel(now time.Time) {
	b.status = StatusCancelled
	b.updatedAt = now
	if b.cancelledAt == nil {
		t := now
		b.cancelledAt = &t
	}
}
