//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"statdash/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideRandomSource,
	ProvideCollector,
	ProvideTracer,
	ProvideCapacitiesClient,
	ProvideSpaceAPI,
	ProvideCloudWatchClient,
	ProvideStatsPublisher,
	ProvideAnalyticsService,
	ProvideQueryBus,
	ProvideErrorHandler,
	ProvideJWTValidator,
	ProvideRateLimiter,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
