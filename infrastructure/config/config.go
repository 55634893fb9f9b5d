package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	domainconfig "statdash/domain/config"
	"statdash/domain/core/valueobjects"
	"statdash/pkg/utils"
)

// ServiceVersion is reported by the root endpoint and the X-API-Version header
const ServiceVersion = "1.0.0"

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `validate:"required"`
	Environment   string `validate:"oneof=development staging production test"`

	// Capacities API
	CapacitiesToken     string        `validate:"required"`
	CapacitiesSpaceID   string        `validate:"required"`
	CapacitiesBaseURL   string        `validate:"required,url"`
	HTTPTimeout         time.Duration `validate:"gt=0"`
	CapacitiesRateLimit float64       `validate:"gte=0"`

	// Analytics engine
	FetchLimit            int    `validate:"gt=0"`
	TopStructuresLimit    int    `validate:"gt=0"`
	ReportStructuresLimit int    `validate:"gt=0"`
	ReferenceMarker       string `validate:"required"`
	EstimationSeed        int64

	// AWS configuration
	AWSRegion          string
	IsLambda           bool
	LambdaFunctionName string

	// Logging
	LogLevel string `validate:"oneof=debug info warn error"`

	// Authentication
	AuthEnabled       bool
	JWTSecret         string `validate:"required_if=AuthEnabled true"`
	JWTIssuer         string
	AllowedOrigins    []string
	RequestsPerMinute int `validate:"gte=0"`

	// Feature flags
	EnableMetrics    bool
	EnableTracing    bool
	EnableCORS       bool
	EnableCloudWatch bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	serverAddress := getEnv("SERVER_ADDRESS", ":3000")
	if port := os.Getenv("PORT"); port != "" {
		serverAddress = ":" + port
	}

	defaults := domainconfig.DefaultDomainConfig()
	functionName := getEnv("AWS_LAMBDA_FUNCTION_NAME", "")

	cfg := &Config{
		ServerAddress: serverAddress,
		Environment:   getEnv("ENVIRONMENT", "development"),

		CapacitiesToken:     getEnv("CAPACITIES_API_TOKEN", ""),
		CapacitiesSpaceID:   getEnv("CAPACITIES_SPACE_ID", ""),
		CapacitiesBaseURL:   getEnv("CAPACITIES_API_BASE_URL", "https://api.capacities.io"),
		HTTPTimeout:         getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		CapacitiesRateLimit: getEnvFloat("CAPACITIES_RATE_LIMIT", 5),

		FetchLimit:            getEnvInt("FETCH_LIMIT", defaults.FetchLimit),
		TopStructuresLimit:    getEnvInt("TOP_STRUCTURES_LIMIT", defaults.TopStructuresLimit),
		ReportStructuresLimit: getEnvInt("REPORT_STRUCTURES_LIMIT", defaults.ReportStructuresLimit),
		ReferenceMarker:       getEnv("REFERENCE_MARKER", valueobjects.DefaultReferenceMarker),
		EstimationSeed:        int64(getEnvInt("ESTIMATION_SEED", 0)),

		AWSRegion:          getEnv("AWS_REGION", "us-west-2"),
		IsLambda:           functionName != "",
		LambdaFunctionName: functionName,

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		AuthEnabled:       getEnvBool("AUTH_ENABLED", false),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTIssuer:         getEnv("JWT_ISSUER", "statdash"),
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		RequestsPerMinute: getEnvInt("REQUESTS_PER_MINUTE", 120),

		EnableMetrics:    getEnvBool("ENABLE_METRICS", true),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
		EnableCORS:       getEnvBool("ENABLE_CORS", true),
		EnableCloudWatch: getEnvBool("ENABLE_CLOUDWATCH", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.IsProduction() && c.AuthEnabled && len(c.JWTSecret) < 32 {
		return fmt.Errorf("invalid configuration: JWT_SECRET must be at least 32 characters in production")
	}
	return c.Domain().Validate()
}

// Domain returns the analytics engine settings
func (c *Config) Domain() *domainconfig.DomainConfig {
	cfg := domainconfig.DefaultDomainConfig()
	cfg.FetchLimit = c.FetchLimit
	cfg.TopStructuresLimit = c.TopStructuresLimit
	cfg.ReportStructuresLimit = c.ReportStructuresLimit
	cfg.ReferenceMarker = c.ReferenceMarker
	return cfg
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("15s") or plain milliseconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// getEnvList splits a comma separated variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
