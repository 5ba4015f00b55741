package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"studio-booking/internal/handler/api"
	"studio-booking/internal/handler/middleware"
	"studio-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers groups the API handlers the router mounts.
type Handlers struct {
	Booking *api.BookingHandler
	Slot    *api.SlotHandler
	Catalog *api.CatalogHandler
	Payment *api.PaymentHandler
}

// MetricsExporter serves the scrape endpoint and observes requests.
type MetricsExporter interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware, metrics MetricsExporter) {
	setupMiddleware(engine, cfg, logger, metrics)
	setupRoutes(engine, cfg, h, authMiddleware, metrics)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, metrics MetricsExporter) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	if cfg.Metrics.Enabled && metrics != nil {
		engine.Use(middleware.MetricsMiddleware(metrics))
	}
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware, metrics MetricsExporter) {
	engine.GET("/health", healthCheck)

	if cfg.Metrics.Enabled && metrics != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	engine.POST("/webhooks/stripe", h.Payment.StripeWebhook)

	v1 := engine.Group("/api/v1")
	requireAuth := authMiddleware.RequireAuth()
	optionalAuth := authMiddleware.OptionalAuth()

	bookings := v1.Group("/bookings")
	{
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Booking.Create, Mw: []gin.HandlerFunc{optionalAuth}},
			{Method: http.MethodGet, Path: "", Handler: h.Booking.List, Mw: []gin.HandlerFunc{requireAuth}},
			{Method: http.MethodGet, Path: "/count", Handler: h.Booking.Count, Mw: []gin.HandlerFunc{requireAuth}},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get, Mw: []gin.HandlerFunc{optionalAuth}},
			{Method: http.MethodPatch, Path: "/:id/cancel", Handler: h.Booking.Cancel, Mw: []gin.HandlerFunc{optionalAuth}},
		})
	}

	payments := v1.Group("/payments")
	{
		addRoutes(payments, []route{
			{Method: http.MethodPost, Path: "/checkout-session", Handler: h.Payment.CreateCheckoutSession},
		})
	}

	slots := v1.Group("/slots")
	{
		addRoutes(slots, []route{
			{Method: http.MethodGet, Path: "/:id", Handler: h.Slot.Get},
			{Method: http.MethodGet, Path: "/:id/bookings", Handler: h.Slot.ListBookings, Mw: []gin.HandlerFunc{requireAuth}},
			{Method: http.MethodPost, Path: "", Handler: h.Slot.Create, Mw: []gin.HandlerFunc{requireAuth}},
			{Method: http.MethodPatch, Path: "/:id", Handler: h.Slot.Update, Mw: []gin.HandlerFunc{requireAuth}},
			{Method: http.MethodDelete, Path: "/:id", Handler: h.Slot.Delete, Mw: []gin.HandlerFunc{requireAuth}},
		})
	}

	studios := v1.Group("/studios")
	{
		addRoutes(studios, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Catalog.CreateStudio, Mw: []gin.HandlerFunc{requireAuth}},
			{Method: http.MethodGet, Path: "", Handler: h.Catalog.ListStudios},
			{Method: http.MethodGet, Path: "/count", Handler: h.Catalog.CountStudios},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Catalog.GetStudio},
			{Method: http.MethodPatch, Path: "/:id", Handler: h.Catalog.UpdateStudio, Mw: []gin.HandlerFunc{requireAuth}},
			{Method: http.MethodGet, Path: "/:id/slots", Handler: h.Slot.ListByStudio},
			{Method: http.MethodPost, Path: "/:id/services", Handler: h.Catalog.CreateService, Mw: []gin.HandlerFunc{requireAuth}},
		})
	}

	v1.GET("/search", h.Catalog.Search)

	services := v1.Group("/services")
	{
		addRoutes(services, []route{
			{Method: http.MethodGet, Path: "/:id", Handler: h.Catalog.GetService},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
