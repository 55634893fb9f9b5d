package di

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"go.uber.org/zap"

	"statdash/application/ports"
	querybus "statdash/application/queries/bus"
	queries_handlers "statdash/application/queries/handlers"
	"statdash/application/services"
	"statdash/domain/analytics"
	domainconfig "statdash/domain/config"
	"statdash/infrastructure/capacities"
	"statdash/infrastructure/config"
	"statdash/interfaces/http/rest"
	"statdash/pkg/auth"
	apperrors "statdash/pkg/errors"
	"statdash/pkg/observability"
)

// metricsNamespace prefixes every Prometheus metric
const metricsNamespace = "statdash"

// ProvideLogger creates a new logger instance honoring LOG_LEVEL
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", "statdash"), zap.String("environment", cfg.Environment)), nil
}

// ProvideDomainConfig extracts the analytics engine settings
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return cfg.Domain()
}

// ProvideRandomSource seeds the estimation jitter. A zero seed means time based.
func ProvideRandomSource(cfg *config.Config) analytics.RandomSource {
	seed := cfg.EstimationSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// ProvideCollector creates the Prometheus collector, nil when metrics are disabled
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(metricsNamespace)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("statdash", cfg.EnableTracing)
}

// ProvideCapacitiesClient creates the HTTP client of the Capacities API
func ProvideCapacitiesClient(cfg *config.Config, collector *observability.Collector, logger *zap.Logger) (*capacities.Client, error) {
	var observer capacities.RequestObserver
	if collector != nil {
		observer = collector
	}

	return capacities.NewClient(capacities.Config{
		BaseURL:   cfg.CapacitiesBaseURL,
		Token:     cfg.CapacitiesToken,
		SpaceID:   cfg.CapacitiesSpaceID,
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.CapacitiesRateLimit,
		Tracing:   cfg.EnableTracing,
	}, observer, logger)
}

// ProvideSpaceAPI wraps the client with a circuit breaker
func ProvideSpaceAPI(client *capacities.Client, collector *observability.Collector, logger *zap.Logger) ports.SpaceAPI {
	var observer capacities.StateObserver
	if collector != nil {
		observer = collector
	}
	return capacities.NewBreakerClient(client, capacities.DefaultBreakerSettings(), observer, logger)
}

// ProvideCloudWatchClient creates a CloudWatch client, nil when the publisher is disabled
func ProvideCloudWatchClient(ctx context.Context, cfg *config.Config) (*awscloudwatch.Client, error) {
	if !cfg.EnableCloudWatch {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awscloudwatch.NewFromConfig(awsCfg), nil
}

// ProvideStatsPublisher fans space statistics out to the enabled sinks
func ProvideStatsPublisher(cfg *config.Config, cw *awscloudwatch.Client, collector *observability.Collector) ports.StatsPublisher {
	var publishers ports.MultiStatsPublisher
	if collector != nil {
		publishers = append(publishers, collector)
	}
	if cw != nil {
		namespace := fmt.Sprintf("Statdash/%s", cfg.Environment)
		publishers = append(publishers, observability.NewCloudWatchPublisher(namespace, cfg.CapacitiesSpaceID, cw))
	}

	if len(publishers) == 0 {
		return ports.NoopStatsPublisher{}
	}
	return publishers
}

// ProvideAnalyticsService creates the analytics engine
func ProvideAnalyticsService(
	api ports.SpaceAPI,
	publisher ports.StatsPublisher,
	domainCfg *domainconfig.DomainConfig,
	rng analytics.RandomSource,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.AnalyticsService {
	return services.NewAnalyticsService(api, publisher, domainCfg, rng, tracer, logger)
}

// ProvideQueryBus creates the query bus with all dashboard handlers registered
func ProvideQueryBus(
	service *services.AnalyticsService,
	collector *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	var middlewares []querybus.Middleware
	if collector != nil {
		middlewares = append(middlewares, querybus.NewMetricsMiddleware(collector))
	}
	if tracer.Enabled() {
		middlewares = append(middlewares, querybus.NewTracingMiddleware(tracer))
	}

	handlers := queries_handlers.NewDashboardHandlers(service, logger)
	if err := handlers.Register(queryBus, middlewares...); err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}

	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error handler, with stack traces outside production
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideJWTValidator creates the token validator, nil when authentication is disabled
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if !cfg.AuthEnabled {
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideRateLimiter creates the per-IP limiter, nil when REQUESTS_PER_MINUTE is 0
func ProvideRateLimiter(cfg *config.Config) auth.RateLimiter {
	if cfg.RequestsPerMinute <= 0 {
		return nil
	}
	return auth.NewIPRateLimiter(cfg.RequestsPerMinute)
}

// ProvideRouter assembles the HTTP layer
func ProvideRouter(
	cfg *config.Config,
	queryBus *querybus.QueryBus,
	service *services.AnalyticsService,
	errorHandler *apperrors.ErrorHandler,
	collector *observability.Collector,
	tracer *observability.Tracer,
	validator *auth.JWTValidator,
	limiter auth.RateLimiter,
	logger *zap.Logger,
) *rest.Router {
	deps := rest.Dependencies{
		QueryBus:     queryBus,
		Tester:       service,
		ErrorHandler: errorHandler,
		Collector:    collector,
		Validator:    validator,
		Limiter:      limiter,
		Config:       cfg,
		Logger:       logger,
		Version:      config.ServiceVersion,
	}
	if tracer.Enabled() {
		deps.Tracer = tracer
	}
	return rest.NewRouter(deps)
}
