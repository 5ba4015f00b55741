package response

import (
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                int64      `json:"id"`
	SlotID            int64      `json:"slot_id"`
	UserID            *int64     `json:"user_id,omitempty"`
	GuestName         string     `json:"guest_name"`
	GuestEmail        string     `json:"guest_email,omitempty"`
	GuestPhone        *string    `json:"guest_phone,omitempty"`
	Status            string     `json:"status"`
	PaymentStatus     *string    `json:"payment_status"`
	CheckoutSessionID *string    `json:"checkout_session_id,omitempty"`
	AdmissionLevel    string     `json:"admission_level"`
	CanCancel         bool       `json:"can_cancel"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	SlotTitle         string     `json:"slot_title"`
	SlotStartTime     time.Time  `json:"slot_start_time"`
	SlotEndTime       time.Time  `json:"slot_end_time"`
	StudioID          int64      `json:"studio_id"`
	// AccessToken is set only on creation; it is the guest's proof for
	// reading contact details and cancelling.
	AccessToken string `json:"access_token,omitempty"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	res := &BookingResponse{}
	_ = copier.Copy(res, v)
	return res
}

func FromBookingViews(vs []*queries.BookingView) []*BookingResponse {
	res := make([]*BookingResponse, len(vs))
	for i, v := range vs {
		res[i] = FromBookingView(v)
	}
	return res
}

type BookingListResponse struct {
	Items []*BookingResponse `json:"items"`
	Skip  int                `json:"skip"`
	Limit int                `json:"limit"`
}

type CountResponse struct {
	Count int `json:"count"`
}
