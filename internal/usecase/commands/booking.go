package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/slot"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"
)

var (
	ErrIdempotencyKeyReused  = errs.NewKind("idempotency key reused with a different request", errs.ErrConflict)
	ErrIdempotencyInProgress = errs.NewKind("request with this idempotency key is in progress", errs.ErrConflict)
)

type CreateBookingInput struct {
	SlotID         int64
	UserID         *int64
	GuestName      string
	GuestEmail     string
	GuestPhone     *string
	IdempotencyKey string
}

type CreateBookingResult struct {
	BookingID int64
	SlotID    int64
	Status    booking.Status
	Level     admission.Level
	Replayed  bool
	// AccessToken lets the booker read and cancel the booking without an account.
	AccessToken string
}

type CancelBookingInput struct {
	BookingID   int64
	ActorUserID *int64
	AccessToken string
}

// accessTokenGrace keeps access tokens valid for a while after the slot ends.
const accessTokenGrace = 7 * 24 * time.Hour

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error)
	Cancel(ctx context.Context, in CancelBookingInput) error
}

type bookingUseCaseImpl struct {
	uow     shared.UnitOfWork
	cache   AvailabilityInvalidator
	metrics Metrics
	tokens  BookingTokens
	clock   clock.Clock
	policy  booking.CancellationPolicy
}

func NewBookingCommands(uow shared.UnitOfWork, cache AvailabilityInvalidator, metrics Metrics, tokens BookingTokens, clk clock.Clock, cfg config.Config) BookingCommands {
	return &bookingUseCaseImpl{
		uow:     uow,
		cache:   cache,
		metrics: metrics,
		tokens:  tokens,
		clock:   clk,
		policy:  booking.NewCancellationPolicy(cfg.Booking.CancellationWindow),
	}
}

// Create runs the admission decision and the insert under the slot lock.
func (uc *bookingUseCaseImpl) Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	booker, err := booking.NewBooker(in.UserID, in.GuestName, in.GuestEmail, in.GuestPhone)
	if err != nil {
		return nil, err
	}
	hash := createRequestHash(in)

	var (
		result   *CreateBookingResult
		slotEnd  time.Time
		decision admission.Decision
		decided  bool
	)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result, decided = nil, false
		now := uc.clock.Now()

		if in.IdempotencyKey != "" {
			replay, end, rerr := uc.replay(ctx, tx, in.IdempotencyKey, hash)
			if rerr != nil || replay != nil {
				result, slotEnd = replay, end
				return rerr
			}
		}

		s, lerr := tx.Slots().GetForUpdate(ctx, in.SlotID)
		if lerr != nil {
			return lerr
		}
		slotEnd = s.EndTime
		policy, lerr := policyFor(ctx, tx, s)
		if lerr != nil {
			return lerr
		}
		occupied, lerr := tx.Bookings().CountOccupied(ctx, s.ID)
		if lerr != nil {
			return lerr
		}

		var derr error
		decision, derr = admission.Evaluate(admission.Request{
			SlotActive:     s.IsActive,
			SlotStart:      s.StartTime,
			MaxCapacity:    s.MaxCapacity,
			Policy:         policy,
			Occupied:       occupied,
			RequestedSeats: 1,
			Now:            now,
		})
		decided = true
		if derr != nil {
			return derr
		}

		b, derr := booking.New(s.ID, booker, s.PriceCents, decision.Level, now)
		if derr != nil {
			return derr
		}
		id, derr := tx.Bookings().Create(ctx, b)
		if derr != nil {
			return derr
		}
		b.AssignID(id)

		if in.IdempotencyKey != "" {
			if derr = tx.Idempotency().Complete(ctx, shared.IdempotencyScopeBookingCreate, in.IdempotencyKey, id); derr != nil {
				return derr
			}
		}
		if derr = enqueueBookingEvent(ctx, tx, shared.TopicBookingCreated, b, "", now); derr != nil {
			return derr
		}
		if b.Status() == booking.StatusConfirmed {
			if derr = enqueueBookingEvent(ctx, tx, shared.TopicBookingConfirmed, b, "free", now); derr != nil {
				return derr
			}
		}

		result = &CreateBookingResult{BookingID: id, SlotID: s.ID, Status: b.Status(), Level: decision.Level}
		return nil
	})

	if decided {
		uc.recordAdmission(decision)
	}
	if err != nil {
		if errs.Is(err, errs.ErrSlotFull) || errs.Is(err, errs.ErrSlotClosed) {
			slog.InfoContext(ctx, "booking rejected",
				"slot_id", in.SlotID,
				"reason", string(decision.Reason),
				"occupied", decision.Occupied,
				"absolute_cap", decision.Caps.Absolute)
		}
		return nil, err
	}

	token, err := uc.tokens.IssueBookingToken(result.BookingID, slotEnd.Add(accessTokenGrace))
	if err != nil {
		return nil, errs.Wrap(err, "issue booking access token")
	}
	result.AccessToken = token

	if !result.Replayed {
		uc.invalidate(ctx, result.SlotID)
		uc.metrics.BookingTransitioned(string(result.Status), "created")
		slog.InfoContext(ctx, "booking created",
			"booking_id", result.BookingID,
			"slot_id", result.SlotID,
			"status", string(result.Status),
			"admission_level", string(result.Level))
	}
	return result, nil
}

// replay returns the stored result for a completed request with the same key,
// along with the end time of the booked slot.
func (uc *bookingUseCaseImpl) replay(ctx context.Context, tx shared.Tx, key, hash string) (*CreateBookingResult, time.Time, error) {
	claimed, err := tx.Idempotency().Claim(ctx, shared.IdempotencyScopeBookingCreate, key, hash, uc.clock.Now())
	if err != nil {
		return nil, time.Time{}, err
	}
	if claimed {
		return nil, time.Time{}, nil
	}

	rec, err := tx.Idempotency().Get(ctx, shared.IdempotencyScopeBookingCreate, key)
	if err != nil {
		return nil, time.Time{}, err
	}
	if rec.RequestHash != hash {
		return nil, time.Time{}, ErrIdempotencyKeyReused
	}
	if !rec.Completed() {
		return nil, time.Time{}, ErrIdempotencyInProgress
	}

	b, err := tx.Bookings().GetByID(ctx, *rec.ResultID)
	if err != nil {
		return nil, time.Time{}, err
	}
	s, err := tx.Slots().GetByID(ctx, b.SlotID())
	if err != nil {
		return nil, time.Time{}, err
	}
	return &CreateBookingResult{
		BookingID: b.ID(),
		SlotID:    b.SlotID(),
		Status:    b.Status(),
		Level:     b.AdmissionLevel(),
		Replayed:  true,
	}, s.EndTime, nil
}

// Cancel serializes with admissions on the same slot: slot lock first,
// then the booking row.
func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, in CancelBookingInput) error {
	var (
		slotID   int64
		refunded bool
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		refunded = false
		now := uc.clock.Now()

		s, b, err := lockBooking(ctx, tx, in.BookingID)
		if err != nil {
			return err
		}
		slotID = s.ID

		if err = uc.authorizeBooker(ctx, tx, b, s, in); err != nil {
			return err
		}
		if err = uc.policy.Check(b, s.StartTime, now); err != nil {
			return err
		}

		refunded = booking.RefundDue(b)
		if err = b.Cancel(now); err != nil {
			return err
		}
		if err = tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		if err = enqueueBookingEvent(ctx, tx, shared.TopicBookingCancelled, b, "booker", now); err != nil {
			return err
		}
		if refunded {
			return enqueueBookingEvent(ctx, tx, shared.TopicBookingRefundRequested, b, "cancelled_after_payment", now)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.invalidate(ctx, slotID)
	uc.metrics.BookingTransitioned(string(booking.StatusCancelled), "booker")
	slog.InfoContext(ctx, "booking cancelled", "booking_id", in.BookingID, "slot_id", slotID, "refund_requested", refunded)
	return nil
}

func (uc *bookingUseCaseImpl) recordAdmission(d admission.Decision) {
	switch d.Outcome {
	case admission.OutcomeAccepted:
		uc.metrics.AdmissionDecided(string(d.Outcome), string(d.Level))
	case admission.OutcomeRejected:
		uc.metrics.AdmissionDecided(string(d.Reason), "")
	}
}

func (uc *bookingUseCaseImpl) invalidate(ctx context.Context, slotID int64) {
	if err := uc.cache.Invalidate(ctx, slotID); err != nil {
		slog.WarnContext(ctx, "availability cache invalidation failed", "slot_id", slotID, "error", err.Error())
	}
}

// lockBooking resolves the booking's slot and locks both in order.
func lockBooking(ctx context.Context, tx shared.Tx, bookingID int64) (*slot.Slot, *booking.Booking, error) {
	peek, err := tx.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	s, err := tx.Slots().GetForUpdate(ctx, peek.SlotID())
	if err != nil {
		return nil, nil, err
	}
	b, err := tx.Bookings().GetForUpdate(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	return s, b, nil
}

func policyFor(ctx context.Context, tx shared.Tx, s *slot.Slot) (admission.Policy, error) {
	if s.ServiceID == nil {
		return admission.DefaultPolicy(), nil
	}
	svc, err := tx.Services().GetByID(ctx, *s.ServiceID)
	if err != nil {
		return admission.Policy{}, err
	}
	return svc.Policy, nil
}

// authorizeBooker lets the booking's user, a holder of the booking's access
// token or the studio owner cancel.
func (uc *bookingUseCaseImpl) authorizeBooker(ctx context.Context, tx shared.Tx, b *booking.Booking, s *slot.Slot, in CancelBookingInput) error {
	if in.AccessToken != "" {
		if id, err := uc.tokens.VerifyBookingToken(in.AccessToken); err == nil && id == b.ID() {
			return nil
		}
	}
	bk := b.Booker()
	if in.ActorUserID != nil {
		if bk.IsUser(*in.ActorUserID) {
			return nil
		}
		st, err := tx.Studios().GetByID(ctx, s.StudioID)
		if err != nil {
			return err
		}
		if st.IsOwnedBy(*in.ActorUserID) {
			return nil
		}
	}
	return errs.ErrForbidden
}

func createRequestHash(in CreateBookingInput) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(in.SlotID, 10)))
	h.Write([]byte{0})
	if in.UserID != nil {
		h.Write([]byte(strconv.FormatInt(*in.UserID, 10)))
	}
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(in.GuestEmail))))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(in.GuestName)))
	return hex.EncodeToString(h.Sum(nil))
}
