package booking

import (
	"time"

	"studio-booking/internal/pkg/errs"
)

const DefaultCancellationWindow = 12 * time.Hour

// CancellationPolicy decides self-service cancellation eligibility.
type CancellationPolicy struct {
	Window time.Duration
}

func NewCancellationPolicy(window time.Duration) CancellationPolicy {
	if window < 0 {
		window = 0
	}
	return CancellationPolicy{Window: window}
}

// CanCancel is true when the slot starts more than Window from now and the
// booking is not cancelled yet. A started slot is never cancellable.
func (p CancellationPolicy) CanCancel(b *Booking, slotStart, now time.Time) bool {
	if b.IsCancelled() {
		return false
	}
	return slotStart.Sub(now) > p.Window
}

// Check explains why a booker cancellation is not allowed. Pending bookings
// hold no payment yet, so only the slot start bounds them.
func (p CancellationPolicy) Check(b *Booking, slotStart, now time.Time) error {
	if b.IsCancelled() {
		return errs.ErrBookingAlreadyCancelled
	}
	if !slotStart.After(now) {
		return errs.ErrSlotAlreadyOccurred
	}
	if b.Status() == StatusConfirmed && !p.CanCancel(b, slotStart, now) {
		return errs.ErrCancellationWindowExpired
	}
	return nil
}

// RefundDue reports whether cancelling b must request a refund.
func RefundDue(b *Booking) bool {
	return b.IsPaid()
}
