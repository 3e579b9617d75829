// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SaleorConfig provides settings for the commerce backend GraphQL API.
type SaleorConfig interface {
	GetSaleorAPIURL() string
	GetSaleorAppToken() string
	GetSaleorChannelID() string
}

// WebhookConfig provides settings for the outbound service-request webhook.
type WebhookConfig interface {
	GetServiceRequestWebhookURL() string
	GetServiceRequestWebhookSecret() string
	GetWebhookTimeout() time.Duration
}

// IntakeConfig provides settings for the repair intake pipeline.
type IntakeConfig interface {
	GetWorkerGroupName() string
	GetEscalationGroup() string
	GetEscalationWindow() time.Duration
	GetIdempotencyTTL() time.Duration
	GetPhoneDefaultRegion() string
	GetIntakeRatePerMinute() int
	GetDashboardPageSize() int
}

// CatalogConfig provides settings for the service catalog source.
type CatalogConfig interface {
	GetServiceCatalogPath() string
	GetDatabaseURL() string
}

// SchedulerConfig provides settings for Redis and the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// EmailConfig provides settings for SMTP email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                         string
	HTTPAddr                    string
	CORSAllowAll                bool
	CORSOrigins                 []string
	CORSAllowCreds              bool
	JWTAccessSecret             string
	SaleorAPIURL                string
	SaleorAppToken              string
	SaleorChannelID             string
	WorkerGroupName             string
	ServiceRequestWebhookURL    string
	ServiceRequestWebhookSecret string
	WebhookTimeout              time.Duration
	ServiceCatalogPath          string
	DatabaseURL                 string
	RedisURL                    string
	RedisTLSInsecure            bool
	AsynqQueueName              string
	AsynqConcurrency            int
	IdempotencyTTL              time.Duration
	EscalationGroup             string
	EscalationWindow            time.Duration
	EmailEnabled                bool
	SMTPHost                    string
	SMTPPort                    int
	SMTPUsername                string
	SMTPPassword                string
	EmailFromName               string
	EmailFromAddress            string
	PhoneDefaultRegion          string
	IntakeRatePerMinute         int
	DashboardPageSize           int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SaleorConfig implementation
func (c *Config) GetSaleorAPIURL() string    { return c.SaleorAPIURL }
func (c *Config) GetSaleorAppToken() string  { return c.SaleorAppToken }
func (c *Config) GetSaleorChannelID() string { return c.SaleorChannelID }

// WebhookConfig implementation
func (c *Config) GetServiceRequestWebhookURL() string    { return c.ServiceRequestWebhookURL }
func (c *Config) GetServiceRequestWebhookSecret() string { return c.ServiceRequestWebhookSecret }
func (c *Config) GetWebhookTimeout() time.Duration       { return c.WebhookTimeout }

// IntakeConfig implementation
func (c *Config) GetWorkerGroupName() string         { return c.WorkerGroupName }
func (c *Config) GetEscalationGroup() string         { return c.EscalationGroup }
func (c *Config) GetEscalationWindow() time.Duration { return c.EscalationWindow }
func (c *Config) GetIdempotencyTTL() time.Duration   { return c.IdempotencyTTL }
func (c *Config) GetPhoneDefaultRegion() string      { return c.PhoneDefaultRegion }
func (c *Config) GetIntakeRatePerMinute() int        { return c.IntakeRatePerMinute }
func (c *Config) GetDashboardPageSize() int          { return c.DashboardPageSize }

// CatalogConfig implementation
func (c *Config) GetServiceCatalogPath() string { return c.ServiceCatalogPath }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool  { return c.RedisURL != "" }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true")

	cfg := &Config{
		Env:                         getEnv("APP_ENV", "development"),
		HTTPAddr:                    getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:                corsAllowAll,
		CORSOrigins:                 corsOrigins,
		CORSAllowCreds:              strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		JWTAccessSecret:             getEnv("JWT_ACCESS_SECRET", ""),
		SaleorAPIURL:                getEnv("SALEOR_API_URL", ""),
		SaleorAppToken:              getEnv("SALEOR_APP_TOKEN", ""),
		SaleorChannelID:             getEnv("SALEOR_CHANNEL_ID", ""),
		WorkerGroupName:             getEnv("REPAIR_WORKER_GROUP", "Repair Workers"),
		ServiceRequestWebhookURL:    strings.TrimSpace(getEnv("SERVICE_REQUEST_WEBHOOK_URL", "")),
		ServiceRequestWebhookSecret: getEnv("SERVICE_REQUEST_WEBHOOK_SECRET", ""),
		WebhookTimeout:              mustDuration(getEnv("WEBHOOK_TIMEOUT", "5s")),
		ServiceCatalogPath:          getEnv("SERVICE_CATALOG_PATH", "config/services.yaml"),
		DatabaseURL:                 getEnv("DATABASE_URL", ""),
		RedisURL:                    getEnv("REDIS_URL", ""),
		RedisTLSInsecure:            strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:              getEnv("ASYNQ_QUEUE", "repairs"),
		AsynqConcurrency:            mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		IdempotencyTTL:              mustDuration(getEnv("IDEMPOTENCY_TTL", "24h")),
		EscalationGroup:             getEnv("ESCALATION_GROUP", ""),
		EscalationWindow:            mustDuration(getEnv("ESCALATION_WINDOW", "15m")),
		EmailEnabled:                emailEnabled && smtpHost != "",
		SMTPHost:                    smtpHost,
		SMTPPort:                    mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:                getEnv("SMTP_USERNAME", ""),
		SMTPPassword:                getEnv("SMTP_PASSWORD", ""),
		EmailFromName:               getEnv("EMAIL_FROM_NAME", "Repair Desk"),
		EmailFromAddress:            getEnv("EMAIL_FROM_ADDRESS", ""),
		PhoneDefaultRegion:          strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "KG")),
		IntakeRatePerMinute:         mustInt(getEnv("INTAKE_RATE_PER_MINUTE", "20")),
		DashboardPageSize:           mustInt(getEnv("DASHBOARD_PAGE_SIZE", "50")),
	}

	if cfg.SaleorAPIURL == "" {
		return nil, fmt.Errorf("SALEOR_API_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if emailEnabled && smtpHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is required when EMAIL_ENABLED is true")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.DashboardPageSize < 1 || cfg.DashboardPageSize > 100 {
		cfg.DashboardPageSize = 50
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
