package di

import (
	"net/http"

	"go.uber.org/zap"

	querybus "statdash/application/queries/bus"
	"statdash/application/services"
	"statdash/infrastructure/config"
	"statdash/interfaces/http/rest"
	"statdash/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Service   *services.AnalyticsService
	QueryBus  *querybus.QueryBus
	Collector *observability.Collector
	Router    *rest.Router
}

// Handler returns the fully configured HTTP handler
func (c *Container) Handler() http.Handler {
	return c.Router.Setup()
}

// Close flushes buffered log entries
func (c *Container) Close() {
	_ = c.Logger.Sync()
}
