package response

import (
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type StudioResponse struct {
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

func FromStudioView(v *queries.StudioView) *StudioResponse {
	res := &StudioResponse{}
	_ = copier.Copy(res, v)
	if res.Amenities == nil {
		res.Amenities = []string{}
	}
	return res
}

func FromStudioViews(vs []*queries.StudioView) []*StudioResponse {
	res := make([]*StudioResponse, len(vs))
	for i, v := range vs {
		res[i] = FromStudioView(v)
	}
	return res
}

type StudioListResponse struct {
	Items []*StudioResponse `json:"items"`
	Skip  int               `json:"skip"`
	Limit int               `json:"limit"`
}

type SearchResultResponse struct {
	Studio          *StudioResponse    `json:"studio"`
	MatchedServices []*ServiceResponse `json:"matched_services"`
}

func FromSearchResults(rs []*queries.SearchResult) []*SearchResultResponse {
	res := make([]*SearchResultResponse, len(rs))
	for i, r := range rs {
		services := make([]*ServiceResponse, len(r.MatchedServices))
		for j, svc := range r.MatchedServices {
			services[j] = FromServiceView(svc)
		}
		res[i] = &SearchResultResponse{Studio: FromStudioView(r.Studio), MatchedServices: services}
	}
	return res
}

type ServiceResponse struct {
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

func FromServiceView(v *queries.ServiceView) *ServiceResponse {
	res := &ServiceResponse{}
	_ = copier.Copy(res, v)
	return res
}
