package admission

import (
	"math"

	"studio-booking/internal/pkg/errs"
)

// floorEpsilon absorbs binary rounding in products like 10*1.2.
const floorEpsilon = 1e-9

// MaxRatio bounds every capacity multiplier.
const MaxRatio = 10.0

// maxSeats caps a derived threshold so the float to int conversion cannot overflow.
const maxSeats = math.MaxInt32

// Policy holds the capacity multipliers of a service.
type Policy struct {
	SoftLimitRatio     float64
	HardLimitRatio     float64
	MaxOverbookedRatio float64
}

// DefaultPolicy admits up to capacity and never overbooks.
func DefaultPolicy() Policy {
	return Policy{SoftLimitRatio: 1.0, HardLimitRatio: 1.0, MaxOverbookedRatio: 1.0}
}

func NewPolicy(soft, hard, overbooked float64) (Policy, error) {
	p := Policy{SoftLimitRatio: soft, HardLimitRatio: hard, MaxOverbookedRatio: overbooked}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate enforces 0 <= soft <= hard <= overbooked <= MaxRatio.
func (p Policy) Validate() error {
	for _, r := range []float64{p.SoftLimitRatio, p.HardLimitRatio, p.MaxOverbookedRatio} {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return errs.Validationf("capacity ratio must be a finite number")
		}
	}
	if p.SoftLimitRatio < 0 {
		return errs.Validationf("soft_limit_ratio must be >= 0, got %v", p.SoftLimitRatio)
	}
	if p.SoftLimitRatio > p.HardLimitRatio {
		return errs.Validationf("soft_limit_ratio (%v) must not exceed hard_limit_ratio (%v)", p.SoftLimitRatio, p.HardLimitRatio)
	}
	if p.HardLimitRatio > p.MaxOverbookedRatio {
		return errs.Validationf("hard_limit_ratio (%v) must not exceed max_overbooked_ratio (%v)", p.HardLimitRatio, p.MaxOverbookedRatio)
	}
	if p.MaxOverbookedRatio > MaxRatio {
		return errs.Validationf("max_overbooked_ratio must be <= %v, got %v", MaxRatio, p.MaxOverbookedRatio)
	}
	return nil
}

// Caps are the seat thresholds derived from a policy and a capacity.
type Caps struct {
	Soft     int `json:"soft_cap"`
	Hard     int `json:"hard_cap"`
	Absolute int `json:"absolute_cap"`
}

func (p Policy) Caps(maxCapacity int) Caps {
	return Caps{
		Soft:     floorMul(maxCapacity, p.SoftLimitRatio),
		Hard:     floorMul(maxCapacity, p.HardLimitRatio),
		Absolute: floorMul(maxCapacity, p.MaxOverbookedRatio),
	}
}

func floorMul(capacity int, ratio float64) int {
	if capacity <= 0 || ratio <= 0 {
		return 0
	}
	seats := math.Floor(float64(capacity)*ratio + floorEpsilon)
	if seats >= maxSeats {
		return maxSeats
	}
	return int(seats)
}
