package studio

import (
	"strings"
	"time"

	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/pkg/patch"
)

const (
	maxNameLen    = 200
	maxPhoneLen   = 20
	maxAddressLen = 500
	maxCityLen    = 100
)

type Studio struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	Latitude    *float64
	Longitude   *float64
	Amenities   []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewStudioParams struct {
	OwnerID     int64
	Name        string
	Description *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	Latitude    *float64
	Longitude   *float64
	Amenities   []string
}

func NewStudio(p NewStudioParams, now time.Time) (*Studio, error) {
	if p.OwnerID <= 0 {
		return nil, errs.Validationf("studio owner is required")
	}
	s := &Studio{
		OwnerID:     p.OwnerID,
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Email:       lowerTrimmed(p.Email),
		Phone:       trimmed(p.Phone),
		Address:     trimmed(p.Address),
		City:        trimmed(p.City),
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Amenities:   NormalizeAmenities(p.Amenities),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateParams is a partial update; nil fields are left unchanged.
type UpdateParams struct {
	Name        *string
	Description *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	Latitude    *float64
	Longitude   *float64
	Amenities   *[]string
	IsActive    *bool
}

func (s *Studio) Apply(u UpdateParams, now time.Time) error {
	next := *s
	next.Name = strings.TrimSpace(patch.Coalesce(u.Name, s.Name))
	if u.Description != nil {
		next.Description = u.Description
	}
	if u.Email != nil {
		next.Email = lowerTrimmed(u.Email)
	}
	if u.Phone != nil {
		next.Phone = trimmed(u.Phone)
	}
	if u.Address != nil {
		next.Address = trimmed(u.Address)
	}
	if u.City != nil {
		next.City = trimmed(u.City)
	}
	if u.Latitude != nil {
		next.Latitude = u.Latitude
	}
	if u.Longitude != nil {
		next.Longitude = u.Longitude
	}
	if u.Amenities != nil {
		next.Amenities = NormalizeAmenities(*u.Amenities)
	}
	next.IsActive = patch.Coalesce(u.IsActive, s.IsActive)

	if err := next.validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*s = next
	return nil
}

func (s *Studio) IsOwnedBy(userID int64) bool {
	return s.OwnerID == userID
}

// HasAmenities reports whether the studio offers every amenity in want.
func (s *Studio) HasAmenities(want []string) bool {
	have := make(map[string]struct{}, len(s.Amenities))
	for _, a := range s.Amenities {
		have[a] = struct{}{}
	}
	for _, a := range NormalizeAmenities(want) {
		if _, ok := have[a]; !ok {
			return false
		}
	}
	return true
}

// NormalizeAmenities trims, drops empty entries and removes duplicates,
// keeping the first occurrence order.
func NormalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func (s *Studio) validate() error {
	if s.Name == "" {
		return errs.Validationf("studio name is required")
	}
	if len(s.Name) > maxNameLen {
		return errs.Validationf("studio name must be at most %d characters", maxNameLen)
	}
	if s.Phone != nil && len(*s.Phone) > maxPhoneLen {
		return errs.Validationf("phone must be at most %d characters", maxPhoneLen)
	}
	if s.Address != nil && len(*s.Address) > maxAddressLen {
		return errs.Validationf("address must be at most %d characters", maxAddressLen)
	}
	if s.City != nil && len(*s.City) > maxCityLen {
		return errs.Validationf("city must be at most %d characters", maxCityLen)
	}
	if (s.Latitude == nil) != (s.Longitude == nil) {
		return errs.Validationf("latitude and longitude must be set together")
	}
	if s.Latitude != nil && (*s.Latitude < -90 || *s.Latitude > 90) {
		return errs.Validationf("latitude must be within [-90, 90], got %v", *s.Latitude)
	}
	if s.Longitude != nil && (*s.Longitude < -180 || *s.Longitude > 180) {
		return errs.Validationf("longitude must be within [-180, 180], got %v", *s.Longitude)
	}
	return nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func lowerTrimmed(p *string) *string {
	v := trimmed(p)
	if v == nil {
		return nil
	}
	l := strings.ToLower(*v)
	return &l
}
