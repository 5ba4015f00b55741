package httperr

import (
	"net/http"

	"studio-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// Error codes returned in the response body.
const (
	CodeNotFound                  = "NOT_FOUND"
	CodeSlotClosed                = "SLOT_CLOSED"
	CodeSlotFull                  = "SLOT_FULL"
	CodeCancellationWindowExpired = "CANCELLATION_WINDOW_EXPIRED"
	CodeSlotAlreadyOccurred       = "SLOT_ALREADY_OCCURRED"
	CodeBookingAlreadyCancelled   = "BOOKING_ALREADY_CANCELLED"
	CodeInvalidTransition         = "INVALID_TRANSITION"
	CodePaymentFailed             = "PAYMENT_FAILED"
	CodeInvalidSignature          = "INVALID_SIGNATURE"
	CodeValidation                = "VALIDATION_ERROR"
	CodeForbidden                 = "FORBIDDEN"
	CodeUnauthorized              = "UNAUTHORIZED"
	CodeConflict                  = "CONFLICT"
	CodeInternal                  = "INTERNAL_ERROR"
)

type mapping struct {
	sentinel error
	status   int
	code     string
	message  string
}

// Checked in order; specific sentinels precede the generic ones they mark.
var mappings = []mapping{
	{errs.ErrSlotClosed, http.StatusConflict, CodeSlotClosed, "Slot is closed for booking"},
	{errs.ErrSlotFull, http.StatusConflict, CodeSlotFull, "Slot is full"},
	{errs.ErrCancellationWindowExpired, http.StatusConflict, CodeCancellationWindowExpired, "Cancellation window has expired"},
	{errs.ErrSlotAlreadyOccurred, http.StatusConflict, CodeSlotAlreadyOccurred, "Slot has already taken place"},
	{errs.ErrBookingAlreadyCancelled, http.StatusConflict, CodeBookingAlreadyCancelled, "Booking is already cancelled"},
	{errs.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition, "Booking cannot change to the requested state"},
	{errs.ErrPaymentFailed, http.StatusPaymentRequired, CodePaymentFailed, "Payment failed"},
	{errs.ErrInvalidSignature, http.StatusBadRequest, CodeInvalidSignature, "Invalid webhook signature"},
	{errs.ErrStudioNotFound, http.StatusNotFound, CodeNotFound, "Studio not found"},
	{errs.ErrServiceNotFound, http.StatusNotFound, CodeNotFound, "Service not found"},
	{errs.ErrSlotNotFound, http.StatusNotFound, CodeNotFound, "Slot not found"},
	{errs.ErrBookingNotFound, http.StatusNotFound, CodeNotFound, "Booking not found"},
	{errs.ErrNotFound, http.StatusNotFound, CodeNotFound, "Not found"},
	{errs.ErrValidation, http.StatusBadRequest, CodeValidation, ""},
	{errs.ErrForbidden, http.StatusForbidden, CodeForbidden, "Forbidden"},
	{errs.ErrConflict, http.StatusConflict, CodeConflict, "Conflict"},
}

// Classify maps a domain error to its HTTP status, code and public message.
func Classify(err error) (int, string, string) {
	for _, m := range mappings {
		if !errs.Is(err, m.sentinel) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = errs.UnwrapAll(err).Error()
		}
		if reason, ok := errs.Reason(err); ok && m.sentinel == errs.ErrConflict {
			msg = reason
		}
		return m.status, m.code, msg
	}
	return http.StatusInternalServerError, CodeInternal, "Internal server error"
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusPaymentRequired:
		return CodePaymentFailed
	}
	return CodeInternal
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = codeForStatus(status)
	resp.Detail = detail

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort responds with the mapping Classify picks for err.
func Abort(c *gin.Context, err error) {
	status, code, msg := Classify(err)

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = code

	errType := gin.ErrorTypePublic
	if status >= http.StatusInternalServerError {
		errType = gin.ErrorTypePrivate
	}
	_ = c.Error(&gin.Error{
		Err:  err,
		Type: errType,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
