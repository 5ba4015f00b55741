package request

import (
	"time"

	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/domain/slot"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"
)

type CreateStudioRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Description *string  `json:"description,omitempty"`
	Email       *string  `json:"email,omitempty" binding:"omitempty,email,max=320"`
	Phone       *string  `json:"phone,omitempty" binding:"omitempty,max=20"`
	Address     *string  `json:"address,omitempty" binding:"omitempty,max=500"`
	City        *string  `json:"city,omitempty" binding:"omitempty,max=100"`
	Latitude    *float64 `json:"latitude,omitempty" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude,omitempty" binding:"omitempty,min=-180,max=180"`
	Amenities   []string `json:"amenities,omitempty" binding:"omitempty,max=50,dive,max=100"`
}

func (r CreateStudioRequest) ToParams(ownerID int64) studio.NewStudioParams {
	return studio.NewStudioParams{
		OwnerID:     ownerID,
		Name:        r.Name,
		Description: r.Description,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		City:        r.City,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Amenities:   r.Amenities,
	}
}

type UpdateStudioRequest struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string   `json:"description,omitempty"`
	Email       *string   `json:"email,omitempty" binding:"omitempty,email,max=320"`
	Phone       *string   `json:"phone,omitempty" binding:"omitempty,max=20"`
	Address     *string   `json:"address,omitempty" binding:"omitempty,max=500"`
	City        *string   `json:"city,omitempty" binding:"omitempty,max=100"`
	Latitude    *float64  `json:"latitude,omitempty" binding:"omitempty,min=-90,max=90"`
	Longitude   *float64  `json:"longitude,omitempty" binding:"omitempty,min=-180,max=180"`
	Amenities   *[]string `json:"amenities,omitempty" binding:"omitempty,max=50,dive,max=100"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

func (r UpdateStudioRequest) ToParams() studio.UpdateParams {
	return studio.UpdateParams{
		Name:        r.Name,
		Description: r.Description,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		City:        r.City,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Amenities:   r.Amenities,
		IsActive:    r.IsActive,
	}
}

// ListStudiosQuery also serves the count endpoint, which ignores paging.
type ListStudiosQuery struct {
	OwnerID   *int64   `form:"owner_id" binding:"omitempty,min=1"`
	IsActive  *bool    `form:"is_active"`
	City      *string  `form:"city" binding:"omitempty,max=100"`
	Category  *string  `form:"category"`
	Query     *string  `form:"query" binding:"omitempty,max=200"`
	Amenities []string `form:"amenities"`
	Skip      int      `form:"skip" binding:"omitempty,min=0"`
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q ListStudiosQuery) ToFilter() queries.StudioFilter {
	return queries.StudioFilter{
		OwnerID:   q.OwnerID,
		IsActive:  q.IsActive,
		City:      q.City,
		Category:  categoryPtr(q.Category),
		Query:     q.Query,
		Amenities: q.Amenities,
		Skip:      q.Skip,
		Limit:     q.Limit,
	}
}

type SearchQuery struct {
	Query     *string  `form:"query" binding:"omitempty,max=200"`
	Category  *string  `form:"category"`
	City      *string  `form:"city" binding:"omitempty,max=100"`
	Lat       *float64 `form:"lat" binding:"omitempty,min=-90,max=90"`
	Lng       *float64 `form:"lng" binding:"omitempty,min=-180,max=180"`
	RadiusKm  *float64 `form:"radius_km" binding:"omitempty,min=0"`
	Amenities []string `form:"amenities"`
	Skip      int      `form:"skip" binding:"omitempty,min=0"`
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q SearchQuery) ToFilter() queries.SearchFilter {
	return queries.SearchFilter{
		Query:     q.Query,
		Category:  categoryPtr(q.Category),
		City:      q.City,
		Latitude:  q.Lat,
		Longitude: q.Lng,
		RadiusKm:  q.RadiusKm,
		Amenities: q.Amenities,
		Skip:      q.Skip,
		Limit:     q.Limit,
	}
}

func categoryPtr(s *string) *catalog.Category {
	if s == nil || *s == "" {
		return nil
	}
	c := catalog.Category(*s)
	return &c
}

type CreateServiceRequest struct {
	Name               string   `json:"name" binding:"required,max=200"`
	Description        *string  `json:"description,omitempty"`
	Type               string   `json:"type" binding:"omitempty,oneof=single_class course"`
	Category           string   `json:"category" binding:"required"`
	DurationMinutes    int      `json:"duration_minutes" binding:"required,min=1"`
	MaxCapacity        int      `json:"max_capacity" binding:"required,min=1"`
	SoftLimitRatio     *float64 `json:"soft_limit_ratio,omitempty"`
	HardLimitRatio     *float64 `json:"hard_limit_ratio,omitempty"`
	MaxOverbookedRatio *float64 `json:"max_overbooked_ratio,omitempty"`
	PriceSingleCents   int      `json:"price_single_cents" binding:"min=0"`
	PriceCourseCents   *int     `json:"price_course_cents,omitempty" binding:"omitempty,min=0"`
}

func (r CreateServiceRequest) ToParams(studioID int64) catalog.NewServiceParams {
	return catalog.NewServiceParams{
		StudioID:         studioID,
		Name:             r.Name,
		Description:      r.Description,
		Type:             catalog.ServiceType(r.Type),
		Category:         catalog.Category(r.Category),
		DurationMinutes:  r.DurationMinutes,
		MaxCapacity:      r.MaxCapacity,
		SoftLimitRatio:   r.SoftLimitRatio,
		HardLimitRatio:   r.HardLimitRatio,
		MaxOverbooked:    r.MaxOverbookedRatio,
		PriceSingleCents: r.PriceSingleCents,
		PriceCourseCents: r.PriceCourseCents,
	}
}

// CreateSlotRequest falls back to the service for omitted capacity, price
// and end time.
type CreateSlotRequest struct {
	StudioID         int64      `json:"studio_id" binding:"required,min=1"`
	ServiceID        *int64     `json:"service_id,omitempty" binding:"omitempty,min=1"`
	Title            string     `json:"title" binding:"max=200"`
	Description      *string    `json:"description,omitempty"`
	StartTime        time.Time  `json:"start_time" binding:"required"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	MaxCapacity      *int       `json:"max_capacity,omitempty" binding:"omitempty,min=1"`
	PriceCents       *int       `json:"price_cents,omitempty" binding:"omitempty,min=0"`
	CoursePriceCents *int       `json:"course_price_cents,omitempty" binding:"omitempty,min=0"`
}

func (r CreateSlotRequest) ToInput() commands.CreateSlotInput {
	return commands.CreateSlotInput{
		NewSlotParams: slot.NewSlotParams{
			StudioID:         r.StudioID,
			Title:            r.Title,
			Description:      r.Description,
			StartTime:        r.StartTime,
			EndTime:          r.EndTime,
			MaxCapacity:      r.MaxCapacity,
			PriceCents:       r.PriceCents,
			CoursePriceCents: r.CoursePriceCents,
		},
		ServiceID: r.ServiceID,
	}
}

type UpdateSlotRequest struct {
	Title            *string    `json:"title,omitempty" binding:"omitempty,max=200"`
	Description      *string    `json:"description,omitempty"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	MaxCapacity      *int       `json:"max_capacity,omitempty" binding:"omitempty,min=1"`
	PriceCents       *int       `json:"price_cents,omitempty" binding:"omitempty,min=0"`
	CoursePriceCents *int       `json:"course_price_cents,omitempty" binding:"omitempty,min=0"`
	IsActive         *bool      `json:"is_active,omitempty"`
}

func (r UpdateSlotRequest) ToParams() slot.UpdateParams {
	return slot.UpdateParams{
		Title:            r.Title,
		Description:      r.Description,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		MaxCapacity:      r.MaxCapacity,
		PriceCents:       r.PriceCents,
		CoursePriceCents: r.CoursePriceCents,
		IsActive:         r.IsActive,
	}
}

type ListSlotsQuery struct {
	StartFrom *time.Time `form:"start_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTo   *time.Time `form:"start_to" time_format:"2006-01-02T15:04:05Z07:00"`
	IsActive  *bool      `form:"is_active"`
}

func (q ListSlotsQuery) ToFilter() queries.SlotFilter {
	return queries.SlotFilter{StartFrom: q.StartFrom, StartTo: q.StartTo, IsActive: q.IsActive}
}
