package admission

import "time"

// Availability is the read projection the schedule views render.
type Availability struct {
	Occupied          int
	AvailableSpots    int
	OverbookSpotsLeft int
	Level             ProjectedLevel
	LowSpots          bool
	Caps              Caps
}

// Project describes what the next single-seat admission would see.
// lowSpotsThreshold <= 0 disables the LowSpots flag.
func Project(active bool, start time.Time, maxCapacity int, p Policy, occupied int, now time.Time, lowSpotsThreshold int) Availability {
	caps := p.Caps(maxCapacity)
	a := Availability{
		Occupied:          occupied,
		AvailableSpots:    max(0, maxCapacity-occupied),
		OverbookSpotsLeft: max(0, caps.Absolute-occupied),
		Caps:              caps,
	}
	a.LowSpots = lowSpotsThreshold > 0 && a.AvailableSpots <= lowSpotsThreshold

	d, err := Evaluate(Request{
		SlotActive:     active,
		SlotStart:      start,
		MaxCapacity:    maxCapacity,
		Policy:         p,
		Occupied:       occupied,
		RequestedSeats: 1,
		Now:            now,
	})
	switch {
	case d.Reason == ReasonSlotClosed:
		a.Level = ProjectedClosed
	case err != nil:
		a.Level = ProjectedFull
	default:
		a.Level = ProjectedLevel(d.Level)
	}
	return a
}
