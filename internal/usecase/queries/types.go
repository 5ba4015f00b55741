package queries

import (
	"math"
	"strings"
	"time"

	"studio-booking/internal/domain/admission"
	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/catalog"
	"studio-booking/internal/domain/slot"
	"studio-booking/internal/domain/studio"
	"studio-booking/internal/pkg/errs"
)

// Read models (DTO for read side)

// SlotView is a slot with its live availability projection.
type SlotView struct {
	ID                int64     `json:"id"`
	StudioID          int64     `json:"studio_id"`
	ServiceID         *int64    `json:"service_id,omitempty"`
	ServiceName       *string   `json:"service_name,omitempty"`
	ServiceCategory   *string   `json:"service_category,omitempty"`
	Title             string    `json:"title"`
	Description       *string   `json:"description,omitempty"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	MaxCapacity       int       `json:"max_capacity"`
	PriceCents        int       `json:"price_cents"`
	CoursePriceCents  *int      `json:"course_price_cents,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	BookingsCount     int       `json:"bookings_count"`
	AvailableSpots    int       `json:"available_spots"`
	OverbookSpotsLeft int       `json:"overbook_spots_left"`
	CapacityLevel     string    `json:"capacity_level"`
	LowSpots          bool      `json:"low_spots"`
}

type BookingView struct {
	ID                int64      `json:"id"`
	SlotID            int64      `json:"slot_id"`
	UserID            *int64     `json:"user_id,omitempty"`
	GuestName         string     `json:"guest_name"`
	GuestEmail        string     `json:"guest_email,omitempty"`
	GuestPhone        *string    `json:"guest_phone,omitempty"`
	Status            string     `json:"status"`
	PaymentStatus     *string    `json:"payment_status"`
	CheckoutSessionID *string    `json:"checkout_session_id,omitempty"`
	PaymentIntentID   *string    `json:"payment_intent_id,omitempty"`
	AdmissionLevel    string     `json:"admission_level"`
	CanCancel         bool       `json:"can_cancel"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	SlotTitle         string     `json:"slot_title"`
	SlotStartTime     time.Time  `json:"slot_start_time"`
	SlotEndTime       time.Time  `json:"slot_end_time"`
	StudioID          int64      `json:"studio_id"`
}

type ServiceView struct {
	ID                 int64     `json:"id"`
	StudioID           int64     `json:"studio_id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description,omitempty"`
	Type               string    `json:"type"`
	Category           string    `json:"category"`
	DurationMinutes    int       `json:"duration_minutes"`
	MaxCapacity        int       `json:"max_capacity"`
	SoftLimitRatio     float64   `json:"soft_limit_ratio"`
	HardLimitRatio     float64   `json:"hard_limit_ratio"`
	MaxOverbookedRatio float64   `json:"max_overbooked_ratio"`
	PriceSingleCents   int       `json:"price_single_cents"`
	PriceCourseCents   *int      `json:"price_course_cents,omitempty"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type StudioView struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	City        *string   `json:"city,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Amenities   []string  `json:"amenities"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchResult is a studio with the services that made it match.
type SearchResult struct {
	Studio          *StudioView    `json:"studio"`
	MatchedServices []*ServiceView `json:"matched_services"`
}

// Read store records

// SlotRecord is a slot joined with its admission policy and occupancy.
type SlotRecord struct {
	Slot            slot.Slot
	Policy          admission.Policy
	ServiceName     *string
	ServiceCategory *string
	Occupied        int
}

type BookingRecord struct {
	Booking   booking.Snapshot
	SlotTitle string
	SlotStart time.Time
	SlotEnd   time.Time
	StudioID  int64
}

type SlotFilter struct {
	StartFrom *time.Time
	StartTo   *time.Time
	IsActive  *bool
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type BookingFilter struct {
	SlotID     *int64
	UserID     *int64
	GuestEmail *string
	Status     *booking.Status
	Skip       int
	Limit      int
}

const (
	DefaultStudioListLimit = 20
	MaxStudioListLimit     = 100
	DefaultSearchRadiusKm  = 10
	kmPerDegree            = 111.0
)

// GeoWindow is a square of 2*RadiusKm around a point, measured in degrees.
type GeoWindow struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

func (w GeoWindow) DeltaDegrees() float64 {
	return w.RadiusKm / kmPerDegree
}

func (w GeoWindow) Contains(lat, lng float64) bool {
	d := w.DeltaDegrees()
	return math.Abs(lat-w.Latitude) <= d && math.Abs(lng-w.Longitude) <= d
}

// StudioFilter narrows studio listings. Category and Query match through
// the studio's active services; WithActiveService requires one even when
// neither is set.
type StudioFilter struct {
	OwnerID           *int64
	IsActive          *bool
	City              *string
	Category          *catalog.Category
	Query             *string
	Amenities         []string
	Near              *GeoWindow
	WithActiveService bool
	Skip              int
	Limit             int
}

// Normalize trims text filters, dropping blank ones, and clamps paging.
func (f StudioFilter) Normalize() StudioFilter {
	f.City = lowerNonBlank(f.City)
	f.Query = nonBlank(f.Query)
	f.Amenities = studio.NormalizeAmenities(f.Amenities)
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultStudioListLimit
	}
	if f.Limit > MaxStudioListLimit {
		f.Limit = MaxStudioListLimit
	}
	return f
}

// NeedsServices reports whether matching consults the studio's services.
func (f StudioFilter) NeedsServices() bool {
	return f.WithActiveService || f.Category != nil || f.Query != nil
}

func (f StudioFilter) validate() error {
	if f.Category != nil && !f.Category.IsValid() {
		return errs.Validationf("unknown category %q", *f.Category)
	}
	if n := f.Near; n != nil {
		if n.Latitude < -90 || n.Latitude > 90 || n.Longitude < -180 || n.Longitude > 180 {
			return errs.Validationf("coordinates out of range")
		}
		if n.RadiusKm < 0 {
			return errs.Validationf("radius_km must not be negative")
		}
	}
	return nil
}

type SearchFilter struct {
	Query     *string
	Category  *catalog.Category
	City      *string
	Latitude  *float64
	Longitude *float64
	RadiusKm  *float64
	Amenities []string
	Skip      int
	Limit     int
}

// StudioFilter maps a search onto active studios with a matching active
// service. The geo window applies only when both coordinates are given.
func (f SearchFilter) StudioFilter() StudioFilter {
	active := true
	out := StudioFilter{
		IsActive:          &active,
		City:              f.City,
		Category:          f.Category,
		Query:             f.Query,
		Amenities:         f.Amenities,
		WithActiveService: true,
		Skip:              f.Skip,
		Limit:             f.Limit,
	}
	if f.Latitude != nil && f.Longitude != nil {
		radius := float64(DefaultSearchRadiusKm)
		if f.RadiusKm != nil && *f.RadiusKm > 0 {
			radius = *f.RadiusKm
		}
		out.Near = &GeoWindow{Latitude: *f.Latitude, Longitude: *f.Longitude, RadiusKm: radius}
	}
	return out.Normalize()
}

func nonBlank(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func lowerNonBlank(p *string) *string {
	v := nonBlank(p)
	if v == nil {
		return nil
	}
	l := strings.ToLower(*v)
	return &l
}

// Normalize clamps paging to sane bounds.
func (f BookingFilter) Normalize() BookingFilter {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	return f
}

func NewServiceView(s *catalog.Service) *ServiceView {
	return &ServiceView{
		ID:                 s.ID,
		StudioID:           s.StudioID,
		Name:               s.Name,
		Description:        s.Description,
		Type:               string(s.Type),
		Category:           string(s.Category),
		DurationMinutes:    s.DurationMinutes,
		MaxCapacity:        s.MaxCapacity,
		SoftLimitRatio:     s.Policy.SoftLimitRatio,
		HardLimitRatio:     s.Policy.HardLimitRatio,
		MaxOverbookedRatio: s.Policy.MaxOverbookedRatio,
		PriceSingleCents:   s.PriceSingleCents,
		PriceCourseCents:   s.PriceCourseCents,
		IsActive:           s.IsActive,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func NewStudioView(s *studio.Studio) *StudioView {
	amenities := s.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return &StudioView{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Description: s.Description,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		City:        s.City,
		Latitude:    s.Latitude,
		Longitude:   s.Longitude,
		Amenities:   amenities,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
