//go:build unit

package commands_test

import (
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/ptr"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/shared"

	"go.uber.org/mock/gomock"
)

const sig = "t=1,v1=signed"

func checkoutInput(bookingID int64) commands.CheckoutInput {
	return commands.CheckoutInput{
		BookingID:  bookingID,
		SuccessURL: "https://studio.example.com/ok",
		CancelURL:  "https://studio.example.com/cancel",
	}
}

// pendingWithSession books a paid slot and opens checkout session sessionID.
func (s *CommandsTestSuite) pendingWithSession(sessionID string) (slotID, bookingID int64) {
	slotID = s.slotStartingIn(48*time.Hour, 2500)
	bookingID = s.book(slotID, 1).BookingID

	s.gateway.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).
		Return(&commands.CheckoutSession{ID: sessionID, URL: "https://checkout.example.com/" + sessionID}, nil).Times(1)
	_, err := s.payments.CreateCheckoutSession(s.ctx, checkoutInput(bookingID))
	s.Require().NoError(err)
	return slotID, bookingID
}

func (s *CommandsTestSuite) deliver(ev *commands.PaymentEvent) *commands.WebhookResult {
	s.gateway.EXPECT().ParseWebhook([]byte("payload"), sig).Return(ev, nil).Times(1)
	res, err := s.payments.HandleWebhook(s.ctx, []byte("payload"), sig)
	s.Require().NoError(err)
	return res
}

func succeeded(eventID, sessionID string) *commands.PaymentEvent {
	return &commands.PaymentEvent{
		ID:                eventID,
		Type:              "checkout.session.completed",
		Kind:              commands.PaymentEventSucceeded,
		CheckoutSessionID: sessionID,
		PaymentIntentID:   ptr.Of("pi_" + eventID),
	}
}

func (s *CommandsTestSuite) TestCreateCheckoutSession() {
	s.Run("session request carries the slot price", func() {
		slotID := s.slotStartingIn(48*time.Hour, 2500)
		bookingID := s.book(slotID, 1).BookingID

		s.gateway.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req commands.CheckoutSessionRequest) (*commands.CheckoutSession, error) {
				s.Equal(bookingID, req.BookingID)
				s.Equal(2500, req.AmountCents)
				s.Equal("guest1@example.com", req.CustomerEmail)
				return &commands.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil
			}).Times(1)

		session, err := s.payments.CreateCheckoutSession(s.ctx, checkoutInput(bookingID))
		s.Require().NoError(err)
		s.Equal("cs_1", session.ID)

		b := s.load(bookingID)
		s.Equal("cs_1", *b.CheckoutSessionID())
		s.Equal(booking.PaymentPending, b.PaymentStatus())
	})

	s.Run("free slots need no checkout", func() {
		bookingID := s.book(s.slotStartingIn(48*time.Hour, 0), 1).BookingID
		_, err := s.payments.CreateCheckoutSession(s.ctx, checkoutInput(bookingID))
		s.ErrorIs(err, errs.ErrInvalidTransition)
	})

	s.Run("a second session conflicts", func() {
		_, bookingID := s.pendingWithSession("cs_2")
		_, err := s.payments.CreateCheckoutSession(s.ctx, checkoutInput(bookingID))
		s.ErrorIs(err, errs.ErrConflict)
	})

	s.Run("provider failure leaves the booking untouched", func() {
		bookingID := s.book(s.slotStartingIn(48*time.Hour, 2500), 1).BookingID
		s.gateway.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(nil, errs.New("stripe unavailable")).Times(1)

		_, err := s.payments.CreateCheckoutSession(s.ctx, checkoutInput(bookingID))
		s.ErrorIs(err, errs.ErrPaymentFailed)
		s.Nil(s.load(bookingID).CheckoutSessionID())
	})

	s.Run("missing urls", func() {
		_, err := s.payments.CreateCheckoutSession(s.ctx, commands.CheckoutInput{BookingID: 1})
		s.ErrorIs(err, errs.ErrValidation)
	})
}

func (s *CommandsTestSuite) TestHandleWebhook() {
	s.Run("payment success confirms the booking", func() {
		_, bookingID := s.pendingWithSession("cs_ok")

		res := s.deliver(succeeded("evt_ok", "cs_ok"))
		s.Equal(commands.WebhookApplied, res.Result)
		s.Equal(bookingID, res.BookingID)

		b := s.load(bookingID)
		s.Equal(booking.StatusConfirmed, b.Status())
		s.Equal(booking.PaymentPaid, b.PaymentStatus())
		s.Equal("pi_evt_ok", *b.PaymentIntentID())
		s.Contains(s.topics(bookingID), shared.TopicBookingConfirmed)
	})

	s.Run("redelivered event is a duplicate", func() {
		_, bookingID := s.pendingWithSession("cs_dup")
		s.deliver(succeeded("evt_dup", "cs_dup"))
		before := s.load(bookingID).Snapshot()

		res := s.deliver(succeeded("evt_dup", "cs_dup"))
		s.Equal(commands.WebhookDuplicate, res.Result)
		s.Equal(before, s.load(bookingID).Snapshot())
	})

	s.Run("second success event for a paid booking is a duplicate", func() {
		_, bookingID := s.pendingWithSession("cs_twice")
		s.deliver(succeeded("evt_a", "cs_twice"))

		res := s.deliver(succeeded("evt_b", "cs_twice"))
		s.Equal(commands.WebhookDuplicate, res.Result)
		s.Equal("pi_evt_a", *s.load(bookingID).PaymentIntentID())
	})

	s.Run("payment after cancellation requests a refund", func() {
		_, bookingID := s.pendingWithSession("cs_late")
		s.Require().NoError(s.cancelAsGuest(bookingID))

		res := s.deliver(succeeded("evt_late", "cs_late"))
		s.Equal(commands.WebhookRefundRequired, res.Result)

		b := s.load(bookingID)
		s.Equal(booking.StatusCancelled, b.Status())
		s.Equal(booking.PaymentPaid, b.PaymentStatus())
		s.Contains(s.topics(bookingID), shared.TopicBookingRefundRequested)
	})

	s.Run("cancelling a paid booking requests a refund", func() {
		_, bookingID := s.pendingWithSession("cs_paid")
		s.deliver(succeeded("evt_paid", "cs_paid"))

		s.Require().NoError(s.cancelAsGuest(bookingID))
		s.Contains(s.topics(bookingID), shared.TopicBookingRefundRequested)
	})

	s.Run("payment failure cancels and frees the seat", func() {
		slotID, bookingID := s.pendingWithSession("cs_fail")

		res := s.deliver(&commands.PaymentEvent{
			ID:                "evt_fail",
			Type:              "checkout.session.async_payment_failed",
			Kind:              commands.PaymentEventFailed,
			CheckoutSessionID: "cs_fail",
		})
		s.Equal(commands.WebhookPaymentFailed, res.Result)
		s.Equal(booking.StatusCancelled, s.load(bookingID).Status())
		s.Equal(0, s.occupied(slotID))
		s.Contains(s.topics(bookingID), shared.TopicBookingPaymentFailed)
	})

	s.Run("failure of a superseded session is ignored", func() {
		_, bookingID := s.pendingWithSession("cs_current")

		res := s.deliver(&commands.PaymentEvent{
			ID:                "evt_old",
			Type:              "checkout.session.expired",
			Kind:              commands.PaymentEventFailed,
			CheckoutSessionID: "cs_previous",
			BookingID:         ptr.Of(bookingID),
		})
		s.Equal(commands.WebhookIgnored, res.Result)
		s.Equal(booking.StatusPending, s.load(bookingID).Status())
	})

	s.Run("booking resolved from metadata", func() {
		_, bookingID := s.pendingWithSession("cs_meta")

		ev := succeeded("evt_meta", "")
		ev.BookingID = ptr.Of(bookingID)
		res := s.deliver(ev)
		s.Equal(commands.WebhookApplied, res.Result)
	})

	s.Run("unknown booking", func() {
		res := s.deliver(succeeded("evt_unknown", "cs_nobody"))
		s.Equal(commands.WebhookUnknownBooking, res.Result)
	})

	s.Run("uninteresting event types are acknowledged", func() {
		res := s.deliver(&commands.PaymentEvent{ID: "evt_other", Type: "customer.created", Kind: commands.PaymentEventIgnored})
		s.Equal(commands.WebhookIgnored, res.Result)
	})

	s.Run("bad signature", func() {
		s.gateway.EXPECT().ParseWebhook(gomock.Any(), "forged").Return(nil, errs.New("signature mismatch")).Times(1)
		_, err := s.payments.HandleWebhook(s.ctx, []byte("payload"), "forged")
		s.ErrorIs(err, errs.ErrInvalidSignature)
	})
}
