//go:build unit

package commands_test

import (
	"sync"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/booking"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/ptr"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/shared"
)

func (s *CommandsTestSuite) TestCreate_AdmissionBands() {
	slotID := s.overbookedSlot(0)

	want := []admission.Level{
		admission.LevelNormal, admission.LevelNormal, admission.LevelNormal, admission.LevelNormal,
		admission.LevelNormal, admission.LevelNormal, admission.LevelNormal, admission.LevelNormal,
		admission.LevelNearCapacity, admission.LevelNearCapacity,
		admission.LevelOverbooked, admission.LevelOverbooked,
	}
	for i, level := range want {
		res := s.book(slotID, i+1)
		s.Equal(level, res.Level, "booking #%d", i+1)
		s.Equal(booking.StatusConfirmed, res.Status)
		s.Equal(level, s.load(res.BookingID).AdmissionLevel())
	}

	_, err := s.bookings.Create(s.ctx, guestInput(slotID, 13))
	s.ErrorIs(err, errs.ErrSlotFull)
	s.Equal(12, s.occupied(slotID))
}

func (s *CommandsTestSuite) TestCreate_StatusFollowsPrice() {
	s.Run("free slot confirms and emits both events", func() {
		res := s.book(s.slotStartingIn(24*time.Hour, 0), 1)
		s.Equal(booking.StatusConfirmed, res.Status)
		s.Equal([]string{shared.TopicBookingCreated, shared.TopicBookingConfirmed}, s.topics(res.BookingID))
	})

	s.Run("paid slot stays pending", func() {
		res := s.book(s.slotStartingIn(24*time.Hour, 2500), 1)
		s.Equal(booking.StatusPending, res.Status)
		b := s.load(res.BookingID)
		s.True(b.Occupies())
		s.Equal(booking.PaymentNone, b.PaymentStatus())
		s.Equal([]string{shared.TopicBookingCreated}, s.topics(res.BookingID))
	})
}

func (s *CommandsTestSuite) TestCreate_Rejections() {
	s.Run("inactive slot", func() {
		slotID := s.slotStartingIn(24*time.Hour, 0)
		s.Require().NoError(s.catalog.DeactivateSlot(s.ctx, ownerID, slotID))
		_, err := s.bookings.Create(s.ctx, guestInput(slotID, 1))
		s.ErrorIs(err, errs.ErrSlotClosed)
	})

	s.Run("slot already started", func() {
		slotID := s.slotStartingIn(time.Hour, 0)
		s.clock.Add(2 * time.Hour)
		_, err := s.bookings.Create(s.ctx, guestInput(slotID, 1))
		s.ErrorIs(err, errs.ErrSlotClosed)
	})

	s.Run("unknown slot", func() {
		_, err := s.bookings.Create(s.ctx, guestInput(9999, 1))
		s.ErrorIs(err, errs.ErrSlotNotFound)
		s.ErrorIs(err, errs.ErrNotFound)
	})

	s.Run("invalid guest", func() {
		in := guestInput(s.slotStartingIn(24*time.Hour, 0), 1)
		in.GuestEmail = "nope"
		_, err := s.bookings.Create(s.ctx, in)
		s.ErrorIs(err, errs.ErrValidation)
	})
}

func (s *CommandsTestSuite) TestCreate_Idempotency() {
	slotID := s.slotStartingIn(24*time.Hour, 0)
	in := guestInput(slotID, 1)
	in.IdempotencyKey = "key-1"

	first, err := s.bookings.Create(s.ctx, in)
	s.Require().NoError(err)
	s.False(first.Replayed)

	s.Run("same request replays the first result", func() {
		again, err := s.bookings.Create(s.ctx, in)
		s.Require().NoError(err)
		s.True(again.Replayed)
		s.Equal(first.BookingID, again.BookingID)
		s.Equal(first.Status, again.Status)

		id, err := s.tokens.VerifyBookingToken(again.AccessToken)
		s.Require().NoError(err)
		s.Equal(first.BookingID, id)
		s.Equal(1, s.occupied(slotID))
	})

	s.Run("email case and spacing do not change the request", func() {
		variant := in
		variant.GuestEmail = "  GUEST1@example.com "
		again, err := s.bookings.Create(s.ctx, variant)
		s.Require().NoError(err)
		s.True(again.Replayed)
	})

	s.Run("different request under the same key conflicts", func() {
		other := guestInput(slotID, 2)
		other.IdempotencyKey = "key-1"
		_, err := s.bookings.Create(s.ctx, other)
		s.ErrorIs(err, commands.ErrIdempotencyKeyReused)
		s.ErrorIs(err, errs.ErrConflict)
		s.Equal(1, s.occupied(slotID))
	})

	s.Run("a rejected request releases its key", func() {
		full := s.overbookedSlot(0)
		for i := 0; i < 12; i++ {
			s.book(full, 100+i)
		}
		req := guestInput(full, 1)
		req.IdempotencyKey = "key-full"
		_, err := s.bookings.Create(s.ctx, req)
		s.Require().ErrorIs(err, errs.ErrSlotFull)

		var victim int64
		for _, ev := range s.store.Pending() {
			if ev.Topic == shared.TopicBookingCreated {
				victim = s.eventBookingID(ev)
			}
		}
		s.Require().NoError(s.bookings.Cancel(s.ctx, commands.CancelBookingInput{BookingID: victim, ActorUserID: ptr.Of(ownerID)}))

		res, err := s.bookings.Create(s.ctx, req)
		s.Require().NoError(err)
		s.False(res.Replayed)
	})
}

func (s *CommandsTestSuite) TestCreate_ConcurrentAdmissionNeverExceedsCap() {
	slotID := s.overbookedSlot(0)

	const attempts = 40
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		full     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.bookings.Create(s.ctx, guestInput(slotID, n))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errs.Is(err, errs.ErrSlotFull):
				full++
			}
		}(i)
	}
	wg.Wait()

	s.Equal(12, accepted)
	s.Equal(attempts-12, full)
	s.Equal(12, s.occupied(slotID))

	levels := map[admission.Level]int{}
	for _, ev := range s.store.Pending() {
		if ev.Topic == shared.TopicBookingCreated {
			levels[s.load(s.eventBookingID(ev)).AdmissionLevel()]++
		}
	}
	s.Equal(map[admission.Level]int{
		admission.LevelNormal:       8,
		admission.LevelNearCapacity: 2,
		admission.LevelOverbooked:   2,
	}, levels)
}

func (s *CommandsTestSuite) TestCancel() {
	s.Run("guest cancels with the access token", func() {
		slotID := s.slotStartingIn(48*time.Hour, 0)
		res := s.book(slotID, 1)
		s.Require().NotEmpty(res.AccessToken)

		err := s.bookings.Cancel(s.ctx, commands.CancelBookingInput{BookingID: res.BookingID, AccessToken: res.AccessToken})
		s.Require().NoError(err)

		b := s.load(res.BookingID)
		s.Equal(booking.StatusCancelled, b.Status())
		s.Equal(s.clock.Now(), *b.CancelledAt())
		s.Equal(0, s.occupied(slotID))
		s.Contains(s.topics(res.BookingID), shared.TopicBookingCancelled)
	})

	s.Run("knowing the guest email is not enough", func() {
		slotID := s.slotStartingIn(48*time.Hour, 0)
		res := s.book(slotID, 1)
		other := s.book(slotID, 2)

		cases := []commands.CancelBookingInput{
			{BookingID: res.BookingID},
			{BookingID: res.BookingID, AccessToken: other.AccessToken},
			{BookingID: res.BookingID, AccessToken: "not-a-token"},
			{BookingID: res.BookingID, ActorUserID: ptr.Of(int64(77))},
		}
		for _, in := range cases {
			s.ErrorIs(s.bookings.Cancel(s.ctx, in), errs.ErrForbidden)
		}
		s.Equal(booking.StatusConfirmed, s.load(res.BookingID).Status())
	})

	s.Run("expired access token", func() {
		res := s.book(s.slotStartingIn(48*time.Hour, 0), 1)
		token, err := s.tokens.IssueBookingToken(res.BookingID, time.Now().Add(-time.Minute))
		s.Require().NoError(err)

		err = s.bookings.Cancel(s.ctx, commands.CancelBookingInput{BookingID: res.BookingID, AccessToken: token})
		s.ErrorIs(err, errs.ErrForbidden)
	})

	s.Run("registered booker cancels their own booking", func() {
		slotID := s.slotStartingIn(48*time.Hour, 0)
		in := guestInput(slotID, 1)
		in.UserID = ptr.Of(int64(55))
		res, err := s.bookings.Create(s.ctx, in)
		s.Require().NoError(err)

		s.NoError(s.bookings.Cancel(s.ctx, commands.CancelBookingInput{BookingID: res.BookingID, ActorUserID: ptr.Of(int64(55))}))
	})

	s.Run("confirmed booking inside the window", func() {
		res := s.book(s.slotStartingIn(6*time.Hour, 0), 1)
		err := s.bookings.Cancel(s.ctx, commands.CancelBookingInput{BookingID: res.BookingID, ActorUserID: ptr.Of(ownerID)})
		s.ErrorIs(err, errs.ErrCancellationWindowExpired)
	})

	s.Run("pending booking inside the window", func() {
		res := s.book(s.slotStartingIn(6*time.Hour, 2500), 1)
		s.NoError(s.bookings.Cancel(s.ctx, commands.CancelBookingInput{BookingID: res.BookingID, ActorUserID: ptr.Of(ownerID)}))
	})

	s.Run("second cancel", func() {
		res := s.book(s.slotStartingIn(48*time.Hour, 0), 1)
		in := commands.CancelBookingInput{BookingID: res.BookingID, ActorUserID: ptr.Of(ownerID)}
		s.Require().NoError(s.bookings.Cancel(s.ctx, in))
		s.ErrorIs(s.bookings.Cancel(s.ctx, in), errs.ErrBookingAlreadyCancelled)
	})

	s.Run("after the slot started", func() {
		res := s.book(s.slotStartingIn(13*time.Hour, 0), 1)
		s.clock.Add(14 * time.Hour)
		err := s.bookings.Cancel(s.ctx, commands.CancelBookingInput{BookingID: res.BookingID, ActorUserID: ptr.Of(ownerID)})
		s.ErrorIs(err, errs.ErrSlotAlreadyOccurred)
	})

	s.Run("missing booking", func() {
		err := s.bookings.Cancel(s.ctx, commands.CancelBookingInput{BookingID: 9999, ActorUserID: ptr.Of(ownerID)})
		s.ErrorIs(err, errs.ErrBookingNotFound)
	})

	s.Run("cancelling frees a seat for the next admission", func() {
		slotID := s.overbookedSlot(0)
		var last *commands.CreateBookingResult
		for i := 0; i < 12; i++ {
			last = s.book(slotID, i)
		}
		s.Require().NoError(s.bookings.Cancel(s.ctx, commands.CancelBookingInput{BookingID: last.BookingID, ActorUserID: ptr.Of(ownerID)}))
		res := s.book(slotID, 12)
		s.Equal(admission.LevelOverbooked, res.Level)
	})
}
