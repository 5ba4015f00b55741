package api

import (
	"net/http"
	"strings"

	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/handler/httperr"
	"studio-booking/internal/handler/middleware"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Admit a booking into a slot. Paid slots start pending until payment
// @Tags bookings
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first result for the same key"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "Idempotent replay"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	key := c.GetHeader(headerIdempotencyKey)
	if len(key) > 255 {
		httperr.Abort(c, errs.Validationf("Idempotency-Key must be at most 255 characters"))
		return
	}

	ctx := c.Request.Context()
	result, err := h.cmds.Create(ctx, req.ToInput(middleware.UserIDPtr(c), key))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	view, err := h.q.GetByID(ctx, result.BookingID, queries.Viewer{
		UserID:      middleware.UserIDPtr(c),
		AccessToken: result.AccessToken,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		c.Header("Idempotent-Replayed", "true")
		status = http.StatusOK
	}
	res := resdto.FromBookingView(view)
	res.AccessToken = result.AccessToken
	c.JSON(status, res)
}

// @Summary Get booking
// @Description Guest contact and payment references are shown to the booker, the studio owner and the access token holder only
// @Tags bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Param X-Booking-Token header string false "Access token returned at booking time"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id, viewer(c, ""))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List bookings
// @Description Newest first. Callers see their own bookings, or all bookings of a slot in a studio they own
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param slot_id query int false "Slot ID"
// @Param user_id query int false "User ID"
// @Param guest_email query string false "Guest email (studio owners filtering by slot)"
// @Param status query string false "pending, confirmed or cancelled"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	var q reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	actorID, _ := middleware.GetUserID(c)
	filter := q.ToFilter().Normalize()
	views, err := h.q.List(c.Request.Context(), actorID, filter)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.BookingListResponse{
		Items: resdto.FromBookingViews(views),
		Skip:  filter.Skip,
		Limit: filter.Limit,
	})
}

// @Summary Count bookings
// @Description Same visibility and filters as the list
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param slot_id query int false "Slot ID"
// @Param user_id query int false "User ID"
// @Param guest_email query string false "Guest email"
// @Param status query string false "pending, confirmed or cancelled"
// @Success 200 {object} resdto.CountResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /bookings/count [get]
func (h *BookingHandler) Count(c *gin.Context) {
	var q reqdto.CountBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	actorID, _ := middleware.GetUserID(c)
	n, err := h.q.Count(c.Request.Context(), actorID, q.ToFilter())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CountResponse{Count: n})
}

// @Summary Cancel booking
// @Description Booker, guest (by access token) or studio owner cancellation
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param X-Booking-Token header string false "Access token returned at booking time"
// @Param request body reqdto.CancelBookingRequest false "Guest ownership proof"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [patch]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Abort(c, bindError(err))
			return
		}
	}

	v := viewer(c, req.AccessToken)
	ctx := c.Request.Context()
	err := h.cmds.Cancel(ctx, commands.CancelBookingInput{
		BookingID:   id,
		ActorUserID: v.UserID,
		AccessToken: v.AccessToken,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	view, err := h.q.GetByID(ctx, id, v)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// viewer prefers the X-Booking-Token header over a token from the body.
func viewer(c *gin.Context, bodyToken string) queries.Viewer {
	token := strings.TrimSpace(c.GetHeader(HeaderBookingToken))
	if token == "" {
		token = strings.TrimSpace(bodyToken)
	}
	return queries.Viewer{UserID: middleware.UserIDPtr(c), AccessToken: token}
}
