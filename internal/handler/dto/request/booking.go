package request

import (
	"strings"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"
)

type CreateBookingRequest struct {
	SlotID     int64   `json:"slot_id" binding:"required,min=1"`
	GuestName  string  `json:"guest_name" binding:"required,max=200"`
	GuestEmail string  `json:"guest_email" binding:"required,email,max=320"`
	GuestPhone *string `json:"guest_phone,omitempty" binding:"omitempty,max=32"`
}

func (r CreateBookingRequest) ToInput(userID *int64, idempotencyKey string) commands.CreateBookingInput {
	var phone *string
	if r.GuestPhone != nil {
		if p := strings.TrimSpace(*r.GuestPhone); p != "" {
			phone = &p
		}
	}
	return commands.CreateBookingInput{
		SlotID:         r.SlotID,
		UserID:         userID,
		GuestName:      r.GuestName,
		GuestEmail:     r.GuestEmail,
		GuestPhone:     phone,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
}

// CancelBookingRequest is optional; guests prove ownership with the access
// token returned at booking time, here or in the X-Booking-Token header.
type CancelBookingRequest struct {
	AccessToken string `json:"access_token" binding:"omitempty,max=2048"`
}

type ListBookingsQuery struct {
	SlotID     *int64  `form:"slot_id" binding:"omitempty,min=1"`
	UserID     *int64  `form:"user_id" binding:"omitempty,min=1"`
	GuestEmail *string `form:"guest_email" binding:"omitempty,email"`
	Status     *string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	Skip       int     `form:"skip" binding:"omitempty,min=0"`
	Limit      int     `form:"limit" binding:"omitempty,min=1,max=200"`
}

func (q ListBookingsQuery) ToFilter() queries.BookingFilter {
	f := queries.BookingFilter{
		SlotID:     q.SlotID,
		UserID:     q.UserID,
		GuestEmail: q.GuestEmail,
		Skip:       q.Skip,
		Limit:      q.Limit,
	}
	if q.Status != nil {
		st := booking.Status(*q.Status)
		f.Status = &st
	}
	return f
}

type CountBookingsQuery struct {
	SlotID     *int64  `form:"slot_id" binding:"omitempty,min=1"`
	UserID     *int64  `form:"user_id" binding:"omitempty,min=1"`
	GuestEmail *string `form:"guest_email" binding:"omitempty,email"`
	Status     *string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

func (q CountBookingsQuery) ToFilter() queries.BookingFilter {
	return ListBookingsQuery{SlotID: q.SlotID, UserID: q.UserID, GuestEmail: q.GuestEmail, Status: q.Status}.ToFilter()
}
