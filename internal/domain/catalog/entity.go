package catalog

import (
	"strings"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/pkg/errs"
)

const MaxNameLength = 200

// Service is a class type offered by a studio with its capacity policy and prices.
type Service struct {
	ID               int64
	StudioID         int64
	Name             string
	Description      *string
	Type             ServiceType
	Category         Category
	DurationMinutes  int
	MaxCapacity      int
	Policy           admission.Policy
	PriceSingleCents int
	PriceCourseCents *int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type NewServiceParams struct {
	StudioID         int64
	Name             string
	Description      *string
	Type             ServiceType
	Category         Category
	DurationMinutes  int
	MaxCapacity      int
	SoftLimitRatio   *float64
	HardLimitRatio   *float64
	MaxOverbooked    *float64
	PriceSingleCents int
	PriceCourseCents *int
}

// NewService validates params. Omitted ratios fall back to the no-overbooking default.
func NewService(p NewServiceParams, now time.Time) (*Service, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" || len(name) > MaxNameLength {
		return nil, errs.Validationf("service name must be 1..%d characters", MaxNameLength)
	}
	if p.Type == "" {
		p.Type = TypeSingleClass
	}
	if !p.Type.IsValid() {
		return nil, errs.Validationf("unknown service type %q", p.Type)
	}
	if !p.Category.IsValid() {
		return nil, errs.Validationf("unknown category %q", p.Category)
	}
	if p.DurationMinutes <= 0 {
		return nil, errs.Validationf("duration_minutes must be > 0")
	}
	if p.MaxCapacity <= 0 {
		return nil, errs.Validationf("max_capacity must be > 0")
	}
	if p.PriceSingleCents < 0 {
		return nil, errs.Validationf("price_single_cents must be >= 0")
	}
	if p.PriceCourseCents != nil && *p.PriceCourseCents < 0 {
		return nil, errs.Validationf("price_course_cents must be >= 0")
	}

	def := admission.DefaultPolicy()
	policy, err := admission.NewPolicy(
		orDefault(p.SoftLimitRatio, def.SoftLimitRatio),
		orDefault(p.HardLimitRatio, def.HardLimitRatio),
		orDefault(p.MaxOverbooked, def.MaxOverbookedRatio),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		StudioID:         p.StudioID,
		Name:             name,
		Description:      p.Description,
		Type:             p.Type,
		Category:         p.Category,
		DurationMinutes:  p.DurationMinutes,
		MaxCapacity:      p.MaxCapacity,
		Policy:           policy,
		PriceSingleCents: p.PriceSingleCents,
		PriceCourseCents: p.PriceCourseCents,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
