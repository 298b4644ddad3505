package components

import (
	"pricing-engine/internal/handler"
	"pricing-engine/internal/handler/api"
	"pricing-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewRuleHandler,
		api.NewQuoteHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
