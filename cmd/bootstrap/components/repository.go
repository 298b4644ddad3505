package components

import (
	"pricing-engine/internal/infra/cache"
	repo_impl "pricing-engine/internal/infra/repository"
	"pricing-engine/internal/pkg/clock"
	"pricing-engine/internal/pkg/config"
	"pricing-engine/internal/usecase/commands"
	"pricing-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewRuleRepository,
			fx.As(new(commands.RuleRepository)),
			fx.As(new(queries.RuleReadStore)),
			fx.As(new(cache.RuleLister)),
		),
		fx.Annotate(
			NewRuleCache,
			fx.As(new(queries.RuleSnapshotSource)),
			fx.As(new(commands.SnapshotInvalidator)),
		),
	),
)

func NewRuleCache(lister cache.RuleLister, cfg config.Config, clk clock.Clock) *cache.RuleCache {
	return cache.NewRuleCache(lister, cfg.Pricing.RuleCacheTTL, clk)
}
