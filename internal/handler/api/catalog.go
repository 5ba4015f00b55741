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

type CatalogHandler struct {
	cmds commands.CatalogCommands
	q    queries.CatalogQueries
}

func NewCatalogHandler(cmds commands.CatalogCommands, q queries.CatalogQueries) *CatalogHandler {
	return &CatalogHandler{cmds: cmds, q: q}
}

// @Summary Create studio
// @Description The caller becomes the owner
// @Tags studios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateStudioRequest true "Studio"
// @Success 201 {object} resdto.StudioResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /studios [post]
func (h *CatalogHandler) CreateStudio(c *gin.Context) {
	var req reqdto.CreateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	ownerID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()
	id, err := h.cmds.CreateStudio(ctx, req.ToParams(ownerID))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	view, err := h.q.GetStudio(ctx, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromStudioView(view))
}

// @Summary Get studio
// @Tags studios
// @Produce json
// @Param id path int true "Studio ID"
// @Success 200 {object} resdto.StudioResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /studios/{id} [get]
func (h *CatalogHandler) GetStudio(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetStudio(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStudioView(view))
}

// @Summary List studios
// @Description Newest first. category and query match through the studio's active services
// @Tags studios
// @Produce json
// @Param owner_id query int false "Owner ID"
// @Param is_active query bool false "Active flag"
// @Param city query string false "City (case-insensitive)"
// @Param category query string false "Service category"
// @Param query query string false "Studio or service name fragment"
// @Param amenities query []string false "Required amenities" collectionFormat(multi)
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} resdto.StudioListResponse
// @Failure 400 {object} httperr.Response
// @Router /studios [get]
func (h *CatalogHandler) ListStudios(c *gin.Context) {
	var q reqdto.ListStudiosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	filter := q.ToFilter().Normalize()
	views, err := h.q.ListStudios(c.Request.Context(), filter)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.StudioListResponse{
		Items: resdto.FromStudioViews(views),
		Skip:  filter.Skip,
		Limit: filter.Limit,
	})
}

// @Summary Count studios
// @Description Same filters as the list, without paging
// @Tags studios
// @Produce json
// @Param owner_id query int false "Owner ID"
// @Param is_active query bool false "Active flag"
// @Param city query string false "City"
// @Param category query string false "Service category"
// @Param query query string false "Studio or service name fragment"
// @Param amenities query []string false "Required amenities" collectionFormat(multi)
// @Success 200 {object} resdto.CountResponse
// @Failure 400 {object} httperr.Response
// @Router /studios/count [get]
func (h *CatalogHandler) CountStudios(c *gin.Context) {
	var q reqdto.ListStudiosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	n, err := h.q.CountStudios(c.Request.Context(), q.ToFilter())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CountResponse{Count: n})
}

// @Summary Update studio
// @Description Partial update, owner only
// @Tags studios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Studio ID"
// @Param request body reqdto.UpdateStudioRequest true "Fields to change"
// @Success 200 {object} resdto.StudioResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /studios/{id} [patch]
func (h *CatalogHandler) UpdateStudio(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	actorID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()
	if err := h.cmds.UpdateStudio(ctx, actorID, id, req.ToParams()); err != nil {
		httperr.Abort(c, err)
		return
	}
	view, err := h.q.GetStudio(ctx, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStudioView(view))
}

// @Summary Search studios
// @Description Active studios with a matching active service. lat and lng select a square window of radius_km (default 10)
// @Tags search
// @Produce json
// @Param query query string false "Studio or service name fragment"
// @Param category query string false "Service category"
// @Param city query string false "City"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param radius_km query number false "Radius in km"
// @Param amenities query []string false "Required amenities" collectionFormat(multi)
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} resdto.SearchResultResponse
// @Failure 400 {object} httperr.Response
// @Router /search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	var q reqdto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	results, err := h.q.Search(c.Request.Context(), q.ToFilter())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSearchResults(results))
}

// @Summary Create service
// @Tags services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Studio ID"
// @Param request body reqdto.CreateServiceRequest true "Service"
// @Success 201 {object} resdto.ServiceResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /studios/{id}/services [post]
func (h *CatalogHandler) CreateService(c *gin.Context) {
	studioID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	actorID, _ := middleware.GetUserID(c)
	ctx := c.Request.Context()
	id, err := h.cmds.CreateService(ctx, actorID, req.ToParams(studioID))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	view, err := h.q.GetService(ctx, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromServiceView(view))
}

// @Summary Get service
// @Tags services
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} resdto.ServiceResponse
// @Failure 404 {object} httperr.Response
// @Router /services/{id} [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetService(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromServiceView(view))
}
