package commands

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingEvent is the outbox payload for booking lifecycle topics.
type BookingEvent struct {
	EventID        string    `json:"event_id"`
	BookingID      int64     `json:"booking_id"`
	SlotID         int64     `json:"slot_id"`
	UserID         *int64    `json:"user_id,omitempty"`
	GuestEmail     string    `json:"guest_email,omitempty"`
	Status         string    `json:"status"`
	PaymentStatus  *string   `json:"payment_status"`
	AdmissionLevel string    `json:"admission_level"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// enqueueBookingEvent writes the event in the caller's transaction so it
// commits or rolls back with the state change.
func enqueueBookingEvent(ctx context.Context, tx shared.Tx, topic string, b *booking.Booking, reason string, now time.Time) error {
	id := uuid.NewString()
	payload, err := json.Marshal(BookingEvent{
		EventID:        id,
		BookingID:      b.ID(),
		SlotID:         b.SlotID(),
		UserID:         b.Booker().UserID(),
		GuestEmail:     b.Booker().Email(),
		Status:         string(b.Status()),
		PaymentStatus:  b.PaymentStatus().Ptr(),
		AdmissionLevel: string(b.AdmissionLevel()),
		Reason:         reason,
		OccurredAt:     now,
	})
	if err != nil {
		return errs.Wrap(err, "marshal booking event")
	}
	return tx.Outbox().Enqueue(ctx, shared.OutboxEvent{
		ID:        id,
		Topic:     topic,
		Key:       strconv.FormatInt(b.ID(), 10),
		Payload:   payload,
		CreatedAt: now,
	})
}
