package components

import (
	"pricing-engine/internal/domain/pricing"
	"pricing-engine/internal/pkg/clock"
	"pricing-engine/internal/pkg/config"
	"pricing-engine/internal/usecase"
	"pricing-engine/internal/usecase/commands"
	"pricing-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	pricing.NewEngine,
	func(cfg config.Config) config.PricingConfig {
		return cfg.Pricing
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewRuleCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRuleQueries,
		queries.NewPricingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
