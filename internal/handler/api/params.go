package api

import (
	"strconv"

	"studio-booking/internal/handler/httperr"
	"studio-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	HeaderBookingToken   = "X-Booking-Token"
)

// pathID parses a positive int64 path parameter and aborts on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		httperr.Abort(c, errs.Validationf("invalid %s", name))
		return 0, false
	}
	return id, true
}

func bindError(err error) error {
	return errs.Mark(errs.Wrap(err, "invalid request"), errs.ErrValidation)
}
