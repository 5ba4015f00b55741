package shared

import "time"

const (
	IdempotencyScopeBookingCreate = "booking_create"
	IdempotencyScopePaymentEvent  = "payment_event"
)

// BookingRef identifies a booking together with the slot whose lock guards it.
type BookingRef struct {
	ID     int64
	SlotID int64
}

type IdempotencyRecord struct {
	Scope       string
	Key         string
	RequestHash string
	ResultID    *int64
	CreatedAt   time.Time
}

func (r *IdempotencyRecord) Completed() bool {
	return r.ResultID != nil
}

// Outbox topics.
const (
	TopicBookingCreated         = "booking.created"
	TopicBookingConfirmed       = "booking.confirmed"
	TopicBookingCancelled       = "booking.cancelled"
	TopicBookingExpired         = "booking.expired"
	TopicBookingPaymentFailed   = "booking.payment_failed"
	TopicBookingRefundRequested = "booking.refund_requested"
)

type OutboxEvent struct {
	ID        string
	Topic     string
	Key       string
	Payload   []byte
	Attempts  int
	CreatedAt time.Time
}
