package commands

import (
	"context"
	"time"
)

// PaymentGateway is the external payment processor.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
	// ParseWebhook verifies the signature and normalizes the event.
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}

type CheckoutSessionRequest struct {
	BookingID     int64
	SlotTitle     string
	AmountCents   int
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type PaymentEventKind string

const (
	PaymentEventSucceeded PaymentEventKind = "succeeded"
	PaymentEventFailed    PaymentEventKind = "failed"
	PaymentEventIgnored   PaymentEventKind = "ignored"
)

// PaymentEvent is a provider webhook reduced to what the lifecycle needs.
type PaymentEvent struct {
	ID                string
	Type              string
	Kind              PaymentEventKind
	CheckoutSessionID string
	PaymentIntentID   *string
	BookingID         *int64
}

// AvailabilityInvalidator drops cached availability after a committed write.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, slotIDs ...int64) error
}

// EventPublisher delivers outbox events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// Metrics records business outcomes.
type Metrics interface {
	AdmissionDecided(outcome, level string)
	BookingTransitioned(to string, reason string)
	WebhookProcessed(result string)
	OutboxPublished(n int)
}

// BookingTokens issues and verifies per-booking access tokens. A token is the
// only proof of ownership a guest booker has.
type BookingTokens interface {
	IssueBookingToken(bookingID int64, expiresAt time.Time) (string, error)
	VerifyBookingToken(token string) (int64, error)
}
