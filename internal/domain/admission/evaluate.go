package admission

import (
	"time"

	"studio-booking/internal/pkg/errs"
)

// Request is everything an admission decision depends on. Occupied must be
// read under the same per-slot lock that guards the subsequent insert.
type Request struct {
	SlotActive     bool
	SlotStart      time.Time
	MaxCapacity    int
	Policy         Policy
	Occupied       int
	RequestedSeats int
	Now            time.Time
}

type Decision struct {
	Outcome  Outcome
	Level    Level
	Reason   Reason
	Caps     Caps
	Occupied int
	// SpotsLeft counts seats left before the absolute cap after this admission.
	SpotsLeft int
}

// Evaluate decides a booking request. Rejections are returned both in the
// decision and as errs.ErrSlotClosed / errs.ErrSlotFull.
func Evaluate(req Request) (Decision, error) {
	seats := req.RequestedSeats
	if seats == 0 {
		seats = 1
	}
	if seats < 0 {
		return Decision{}, errs.Validationf("requested seats must be >= 1, got %d", seats)
	}

	caps := req.Policy.Caps(req.MaxCapacity)
	d := Decision{Caps: caps, Occupied: req.Occupied}

	if !req.SlotActive || !req.SlotStart.After(req.Now) {
		d.Outcome = OutcomeRejected
		d.Reason = ReasonSlotClosed
		return d, errs.ErrSlotClosed
	}

	total := req.Occupied + seats
	switch {
	case total <= caps.Soft:
		d.Level = LevelNormal
	case total <= caps.Hard:
		d.Level = LevelNearCapacity
	case total <= caps.Absolute:
		d.Level = LevelOverbooked
	default:
		d.Outcome = OutcomeRejected
		d.Reason = ReasonSlotFull
		return d, errs.ErrSlotFull
	}

	d.Outcome = OutcomeAccepted
	d.SpotsLeft = caps.Absolute - total
	return d, nil
}
