package request

import "studio-booking/internal/usecase/commands"

type CheckoutSessionRequest struct {
	BookingID  int64  `json:"booking_id" binding:"required,min=1"`
	SuccessURL string `json:"success_url" binding:"required,url"`
	CancelURL  string `json:"cancel_url" binding:"required,url"`
}

func (r CheckoutSessionRequest) ToInput() commands.CheckoutInput {
	return commands.CheckoutInput{
		BookingID:  r.BookingID,
		SuccessURL: r.SuccessURL,
		CancelURL:  r.CancelURL,
	}
}
