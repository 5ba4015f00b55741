package response

import (
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

// SlotResponse is a slot with its availability projection.
type SlotResponse struct {
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
	BookingsCount     int       `json:"bookings_count"`
	AvailableSpots    int       `json:"available_spots"`
	OverbookSpotsLeft int       `json:"overbook_spots_left"`
	CapacityLevel     string    `json:"capacity_level"`
	LowSpots          bool      `json:"low_spots"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func FromSlotView(v *queries.SlotView) *SlotResponse {
	res := &SlotResponse{}
	_ = copier.Copy(res, v)
	return res
}

func FromSlotViews(vs []*queries.SlotView) []*SlotResponse {
	res := make([]*SlotResponse, len(vs))
	for i, v := range vs {
		res[i] = FromSlotView(v)
	}
	return res
}
