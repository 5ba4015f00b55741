package payment

import (
	"context"
	"encoding/json"
	"strconv"

	"studio-booking/internal/pkg/config"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/commands"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

const metadataBookingID = "booking_id"

// Checkout session events the booking lifecycle reacts to.
const (
	eventSessionCompleted          = "checkout.session.completed"
	eventSessionAsyncPaymentOK     = "checkout.session.async_payment_succeeded"
	eventSessionAsyncPaymentFailed = "checkout.session.async_payment_failed"
	eventSessionExpired            = "checkout.session.expired"
)

type StripeGateway struct {
	sessions      *session.Client
	webhookSecret string
	currency      string
}

func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	return &StripeGateway{
		sessions:      &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.SecretKey},
		webhookSecret: cfg.WebhookSecret,
		currency:      cfg.Currency,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req commands.CheckoutSessionRequest) (*commands.CheckoutSession, error) {
	if g.sessions.Key == "" {
		return nil, errs.New("stripe secret key is not configured")
	}
	bookingID := strconv.FormatInt(req.BookingID, 10)
	metadata := map[string]string{metadataBookingID: bookingID}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(bookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.SlotTitle),
				},
				UnitAmount: stripe.Int64(int64(req.AmountCents)),
			},
			Quantity: stripe.Int64(1),
		}},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Metadata = metadata
	params.Context = ctx
	params.SetIdempotencyKey("checkout-booking-" + bookingID)

	s, err := g.sessions.New(params)
	if err != nil {
		return nil, errs.Wrap(err, "stripe create checkout session")
	}
	return &commands.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and maps checkout
// session events. Other event types come back as PaymentEventIgnored.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*commands.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, errs.Wrap(err, "verify stripe signature")
	}

	ev := &commands.PaymentEvent{ID: event.ID, Type: string(event.Type), Kind: commands.PaymentEventIgnored}
	switch ev.Type {
	case eventSessionCompleted, eventSessionAsyncPaymentOK, eventSessionAsyncPaymentFailed, eventSessionExpired:
	default:
		return ev, nil
	}
	if event.Data == nil {
		return nil, errs.Validationf("stripe event %s has no data", event.ID)
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode checkout session"), errs.ErrValidation)
	}
	ev.CheckoutSessionID = cs.ID
	if cs.PaymentIntent != nil && cs.PaymentIntent.ID != "" {
		id := cs.PaymentIntent.ID
		ev.PaymentIntentID = &id
	}
	ev.BookingID = bookingIDFrom(cs)

	switch ev.Type {
	case eventSessionCompleted:
		// Delayed payment methods complete unpaid and report later.
		if cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
			cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
			ev.Kind = commands.PaymentEventSucceeded
		}
	case eventSessionAsyncPaymentOK:
		ev.Kind = commands.PaymentEventSucceeded
	case eventSessionAsyncPaymentFailed, eventSessionExpired:
		ev.Kind = commands.PaymentEventFailed
	}
	return ev, nil
}

func bookingIDFrom(cs stripe.CheckoutSession) *int64 {
	raw := cs.Metadata[metadataBookingID]
	if raw == "" {
		raw = cs.ClientReferenceID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
