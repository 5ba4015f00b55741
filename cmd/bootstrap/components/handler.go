package components

import (
	"studio-booking/internal/handler"
	"studio-booking/internal/handler/api"
	"studio-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewSlotHandler,
		api.NewCatalogHandler,
		api.NewPaymentHandler,
		newHandlers,
		middleware.NewJWTValidator,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(b *api.BookingHandler, s *api.SlotHandler, c *api.CatalogHandler, p *api.PaymentHandler) handler.Handlers {
	return handler.Handlers{Booking: b, Slot: s, Catalog: c, Payment: p}
}
