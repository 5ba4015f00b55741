//go:build unit

package commands_test

import (
	"context"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"

	"go.uber.org/mock/gomock"
)

func (s *CommandsTestSuite) TestExpirePending() {
	paidSlot := s.slotStartingIn(72*time.Hour, 2500)
	stale := s.book(paidSlot, 1).BookingID
	_, withSession := s.pendingWithSession("cs_stale")
	confirmed := s.book(s.slotStartingIn(72*time.Hour, 0), 2).BookingID

	s.clock.Add(10 * time.Minute)
	fresh := s.book(paidSlot, 3).BookingID
	s.clock.Add(6 * time.Minute)

	n, err := s.expiry.ExpirePending(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	s.Equal(booking.StatusCancelled, s.load(stale).Status())
	s.Equal(booking.PaymentNone, s.load(stale).PaymentStatus())
	s.Equal(booking.StatusCancelled, s.load(withSession).Status())
	s.Equal(booking.PaymentFailed, s.load(withSession).PaymentStatus())
	s.Equal(booking.StatusPending, s.load(fresh).Status())
	s.Equal(booking.StatusConfirmed, s.load(confirmed).Status())
	s.Equal(1, s.occupied(paidSlot))
	s.Contains(s.topics(stale), shared.TopicBookingExpired)

	s.Run("second sweep finds nothing", func() {
		n, err := s.expiry.ExpirePending(s.ctx)
		s.Require().NoError(err)
		s.Zero(n)
	})

	s.Run("paid bookings never expire", func() {
		_, bookingID := s.pendingWithSession("cs_paid_late")
		s.deliver(succeeded("evt_paid_late", "cs_paid_late"))
		s.clock.Add(time.Hour)

		_, err := s.expiry.ExpirePending(s.ctx)
		s.Require().NoError(err)
		s.Equal(booking.StatusConfirmed, s.load(bookingID).Status())
	})
}

func (s *CommandsTestSuite) TestRelay() {
	s.book(s.slotStartingIn(24*time.Hour, 0), 1)
	s.book(s.slotStartingIn(24*time.Hour, 2500), 2)
	s.Require().Len(s.store.Pending(), 3)

	s.Run("publishes every pending event once", func() {
		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

		n, err := s.outbox.Relay(s.ctx)
		s.Require().NoError(err)
		s.Equal(3, n)
		s.Empty(s.store.Pending())
		s.Len(s.store.Published(), 3)

		n, err = s.outbox.Relay(s.ctx)
		s.Require().NoError(err)
		s.Zero(n)
	})

	s.Run("a failed publish is retried on the next relay", func() {
		s.book(s.slotStartingIn(24*time.Hour, 2500), 3)
		s.book(s.slotStartingIn(24*time.Hour, 2500), 4)
		events := s.store.Pending()
		s.Require().Len(events, 2)

		gomock.InOrder(
			s.publisher.EXPECT().Publish(gomock.Any(), events[0].Topic, events[0].Key, events[0].Payload).Return(errs.New("broker down")),
			s.publisher.EXPECT().Publish(gomock.Any(), events[1].Topic, events[1].Key, events[1].Payload).Return(nil),
		)
		n, err := s.outbox.Relay(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)

		pending := s.store.Pending()
		s.Require().Len(pending, 1)
		s.Equal(events[0].ID, pending[0].ID)
		s.Equal(1, pending[0].Attempts)

		s.publisher.EXPECT().Publish(gomock.Any(), events[0].Topic, events[0].Key, events[0].Payload).Return(nil)
		n, err = s.outbox.Relay(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
		s.Empty(s.store.Pending())
	})

	s.Run("payload keys the booking", func() {
		for _, ev := range s.store.Published() {
			s.NotEmpty(ev.ID)
			s.NotEmpty(ev.Key)
			s.Positive(s.eventBookingID(ev))
		}
	})
}

func (s *CommandsTestSuite) TestRelay_CancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.outbox.Relay(ctx)
	s.ErrorIs(err, context.Canceled)
}
