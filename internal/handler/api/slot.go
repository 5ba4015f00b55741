package api

import (
	"net/http"

	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/handler/httperr"
	"studio-booking/internal/handler/middleware"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	cmds     commands.CatalogCommands
	slots    queries.SlotQueries
	bookings queries.BookingQueries
}

func NewSlotHandler(cmds commands.CatalogCommands, slots queries.SlotQueries, bookings queries.BookingQueries) *SlotHandler {
	return &SlotHandler{cmds: cmds, slots: slots, bookings: bookings}
}

// @Summary Get slot
// @Description Slot with live availability
// @Tags slots
// @Produce json
// @Param id path int true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 404 {object} httperr.Response
// @Router /slots/{id} [get]
func (h *SlotHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.slots.GetSlot(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary Studio schedule
// @Tags slots
// @Produce json
// @Param id path int true "Studio ID"
// @Param start_from query string false "RFC3339 lower bound on start_time"
// @Param start_to query string false "RFC3339 upper bound on start_time"
// @Param is_active query bool false "Active filter"
// @Success 200 {array} resdto.SlotResponse
// @Failure 404 {object} httperr.Response
// @Router /studios/{id}/slots [get]
func (h *SlotHandler) ListByStudio(c *gin.Context) {
	studioID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q reqdto.ListSlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	views, err := h.slots.ListStudioSlots(c.Request.Context(), studioID, q.ToFilter())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotViews(views))
}

// @Summary Slot bookings
// @Description Studio owner only
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 200 {array} resdto.BookingResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /slots/{id}/bookings [get]
func (h *SlotHandler) ListBookings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID, _ := middleware.GetUserID(c)
	views, err := h.bookings.ListBySlot(c.Request.Context(), actorID, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

// @Summary Create slot
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSlotRequest true "Slot"
// @Success 201 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /slots [post]
func (h *SlotHandler) Create(c *gin.Context) {
	var req reqdto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	actorID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()
	id, err := h.cmds.CreateSlot(ctx, actorID, req.ToInput())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	view, err := h.slots.GetSlot(ctx, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromSlotView(view))
}

// @Summary Update slot
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Param request body reqdto.UpdateSlotRequest true "Changed fields"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /slots/{id} [patch]
func (h *SlotHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	actorID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()
	if err := h.cmds.UpdateSlot(ctx, actorID, id, req.ToParams()); err != nil {
		httperr.Abort(c, err)
		return
	}
	view, err := h.slots.GetSlot(ctx, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary Deactivate slot
// @Description Soft delete; existing bookings are kept
// @Tags slots
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /slots/{id} [delete]
func (h *SlotHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actorID, _ := middleware.GetUserID(c)
	if err := h.cmds.DeactivateSlot(c.Request.Context(), actorID, id); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
