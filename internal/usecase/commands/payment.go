package commands

import (
	"context"
	"log/slog"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"
)

type CheckoutInput struct {
	BookingID  int64
	SuccessURL string
	CancelURL  string
}

// Webhook results.
const (
	WebhookApplied        = "applied"
	WebhookDuplicate      = "duplicate"
	WebhookIgnored        = "ignored"
	WebhookUnknownBooking = "unknown_booking"
	WebhookRefundRequired = "refund_required"
	WebhookPaymentFailed  = "payment_failed"
)

type WebhookResult struct {
	EventID   string
	BookingID int64
	Result    string
}

type PaymentCommands interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error)
	// HandleWebhook applies a provider event at most once.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error)
}

type paymentUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	cache   AvailabilityInvalidator
	metrics Metrics
	clock   clock.Clock
}

func NewPaymentCommands(uow shared.UnitOfWork, gateway PaymentGateway, cache AvailabilityInvalidator, metrics Metrics, clk clock.Clock) PaymentCommands {
	return &paymentUseCaseImpl{uow: uow, gateway: gateway, cache: cache, metrics: metrics, clock: clk}
}

func (uc *paymentUseCaseImpl) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error) {
	if in.SuccessURL == "" || in.CancelURL == "" {
		return nil, errs.Validationf("success_url and cancel_url are required")
	}

	var req CheckoutSessionRequest
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().GetByID(ctx, in.BookingID)
		if err != nil {
			return err
		}
		s, err := tx.Slots().GetByID(ctx, b.SlotID())
		if err != nil {
			return err
		}
		if err = checkoutAllowed(b); err != nil {
			return err
		}
		if !s.IsOpen(uc.clock.Now()) {
			return errs.ErrSlotClosed
		}
		if !s.RequiresPayment() {
			return errs.Validationf("slot is free of charge")
		}
		req = CheckoutSessionRequest{
			BookingID:     b.ID(),
			SlotTitle:     s.Title,
			AmountCents:   s.PriceCents,
			CustomerEmail: b.Booker().Email(),
			SuccessURL:    in.SuccessURL,
			CancelURL:     in.CancelURL,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The provider call stays outside any transaction so no slot lock is
	// held across the network round trip.
	session, err := uc.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "create checkout session"), errs.ErrPaymentFailed)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, b, err := lockBooking(ctx, tx, in.BookingID)
		if err != nil {
			return err
		}
		if err = b.StartCheckout(session.ID, uc.clock.Now()); err != nil {
			return err
		}
		return tx.Bookings().Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "checkout session created", "booking_id", in.BookingID, "session_id", session.ID)
	return session, nil
}

func checkoutAllowed(b *booking.Booking) error {
	if b.Status() != booking.StatusPending {
		return errs.Wrap(errs.ErrInvalidTransition, "checkout requires a pending booking")
	}
	if b.CheckoutSessionID() != nil {
		return errs.Wrap(errs.ErrConflict, "checkout session already created")
	}
	return nil
}

func (uc *paymentUseCaseImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	ev, err := uc.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidSignature)
	}

	res := &WebhookResult{EventID: ev.ID, Result: WebhookIgnored}
	if ev.Kind == PaymentEventIgnored {
		uc.metrics.WebhookProcessed(res.Result)
		return res, nil
	}

	var slotID int64
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res.Result, res.BookingID, slotID = WebhookIgnored, 0, 0
		now := uc.clock.Now()

		claimed, err := tx.Idempotency().Claim(ctx, shared.IdempotencyScopePaymentEvent, ev.ID, ev.Type, now)
		if err != nil {
			return err
		}
		if !claimed {
			res.Result = WebhookDuplicate
			return nil
		}

		bookingID, found, err := resolveBooking(ctx, tx, ev)
		if err != nil {
			return err
		}
		if !found {
			res.Result = WebhookUnknownBooking
			return nil
		}
		res.BookingID = bookingID

		s, b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		slotID = s.ID

		switch ev.Kind {
		case PaymentEventSucceeded:
			switch b.MarkPaid(ev.PaymentIntentID, now) {
			case booking.PaymentDuplicate:
				res.Result = WebhookDuplicate
				return nil
			case booking.PaymentRefundRequired:
				res.Result = WebhookRefundRequired
				if err = tx.Bookings().Update(ctx, b); err != nil {
					return err
				}
				return enqueueBookingEvent(ctx, tx, shared.TopicBookingRefundRequested, b, "paid_after_cancel", now)
			default:
				res.Result = WebhookApplied
				if err = tx.Bookings().Update(ctx, b); err != nil {
					return err
				}
				return enqueueBookingEvent(ctx, tx, shared.TopicBookingConfirmed, b, "payment", now)
			}
		case PaymentEventFailed:
			// A failure of a superseded session must not cancel the booking.
			if cur := b.CheckoutSessionID(); cur != nil && ev.CheckoutSessionID != "" && *cur != ev.CheckoutSessionID {
				res.Result = WebhookIgnored
				return nil
			}
			if !b.MarkPaymentFailed(now) {
				res.Result = WebhookDuplicate
				return nil
			}
			res.Result = WebhookPaymentFailed
			if err = tx.Bookings().Update(ctx, b); err != nil {
				return err
			}
			return enqueueBookingEvent(ctx, tx, shared.TopicBookingPaymentFailed, b, ev.Type, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.WebhookProcessed(res.Result)
	switch res.Result {
	case WebhookApplied:
		uc.metrics.BookingTransitioned(string(booking.StatusConfirmed), "payment")
	case WebhookPaymentFailed:
		uc.metrics.BookingTransitioned(string(booking.StatusCancelled), "payment_failed")
	}
	if slotID != 0 && res.Result != WebhookDuplicate {
		if ierr := uc.cache.Invalidate(ctx, slotID); ierr != nil {
			slog.WarnContext(ctx, "availability cache invalidation failed", "slot_id", slotID, "error", ierr.Error())
		}
	}
	slog.InfoContext(ctx, "payment webhook processed",
		"event_id", ev.ID,
		"event_type", ev.Type,
		"booking_id", res.BookingID,
		"result", res.Result)
	return res, nil
}

// resolveBooking prefers the checkout session id and falls back to the
// booking id carried in session metadata.
func resolveBooking(ctx context.Context, tx shared.Tx, ev *PaymentEvent) (int64, bool, error) {
	if ev.CheckoutSessionID != "" {
		b, err := tx.Bookings().GetByCheckoutSession(ctx, ev.CheckoutSessionID)
		switch {
		case err == nil:
			return b.ID(), true, nil
		case !errs.Is(err, errs.ErrNotFound):
			return 0, false, err
		}
	}
	if ev.BookingID != nil {
		b, err := tx.Bookings().GetByID(ctx, *ev.BookingID)
		switch {
		case err == nil:
			return b.ID(), true, nil
		case !errs.Is(err, errs.ErrNotFound):
			return 0, false, err
		}
	}
	return 0, false, nil
}
