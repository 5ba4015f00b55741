package bootstrap

import (
	"studio-booking/internal/infra/payment"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		func(cfg config.Config) commands.PaymentGateway {
			return payment.NewStripeGateway(cfg.Stripe)
		},
	),
)
