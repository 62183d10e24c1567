package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Schedule configuration
	CheckSchedule string // "daily" or "weekly"
	TimeZone      string

	// Azure Storage configuration
	StorageAccount   string
	StorageContainer string

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Brand monitored by scheduled checks
	BrandName     string
	BrandDomain   string
	BrandIndustry string
	BrandRegion   string
	Competitors   []string
	JourneyStages []string
	PlatformTier  string

	// Traffic estimation inputs
	MonthlySearchVolume   int
	CurrentMonthlyTraffic int

	// Completion backends
	LLMGatewayURL    string
	LLMGatewayAPIKey string
	GeminiAPIKey     string

	// Invocation limits
	MaxConcurrency    int
	CallTimeout       time.Duration
	RequestsPerSecond float64
	MaxTokens         int
	Temperature       float64
	PromptsPerStage   int
}

// Load loads configuration from environment variables and validates it for
// the long-running service
func Load() (*Config, error) {
	cfg := FromEnv()

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FromEnv reads configuration from environment variables without validation.
// One-shot commands that never notify use it with ValidateBackends.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Debug:         getBoolEnv("DEBUG", false),
		CheckSchedule: getEnv("CHECK_SCHEDULE", "weekly"),
		TimeZone:      getEnv("TIMEZONE", "UTC"),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "visibility"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		BrandName:     getEnv("BRAND_NAME", ""),
		BrandDomain:   getEnv("BRAND_DOMAIN", ""),
		BrandIndustry: getEnv("BRAND_INDUSTRY", ""),
		BrandRegion:   getEnv("BRAND_REGION", "us"),
		Competitors:   getSliceEnv("COMPETITORS", nil),
		JourneyStages: getSliceEnv("JOURNEY_STAGES", []string{"awareness", "consideration", "decision", "branded"}),
		PlatformTier:  getEnv("PLATFORM_TIER", "core"),

		MonthlySearchVolume:   getIntEnv("MONTHLY_SEARCH_VOLUME", 0),
		CurrentMonthlyTraffic: getIntEnv("CURRENT_MONTHLY_TRAFFIC", 0),

		LLMGatewayURL:    getEnv("LLM_GATEWAY_URL", "https://openrouter.ai/api/v1"),
		LLMGatewayAPIKey: getEnv("LLM_GATEWAY_API_KEY", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),

		MaxConcurrency:    getIntEnv("MAX_CONCURRENCY", 5),
		CallTimeout:       getDurationEnv("CALL_TIMEOUT", 30*time.Second),
		RequestsPerSecond: getFloatEnv("REQUESTS_PER_SECOND", 0),
		MaxTokens:         getIntEnv("MAX_TOKENS", 800),
		Temperature:       getFloatEnv("TEMPERATURE", 0.7),
		PromptsPerStage:   getIntEnv("PROMPTS_PER_STAGE", 1),
	}
}

func (c *Config) validate() error {
	if c.CheckSchedule != "daily" && c.CheckSchedule != "weekly" {
		return fmt.Errorf("CHECK_SCHEDULE must be 'daily' or 'weekly'")
	}

	if c.TeamsWebhookURL == "" && c.NotificationEmail == "" {
		return fmt.Errorf("at least one notification method must be configured (TEAMS_WEBHOOK_URL or NOTIFICATION_EMAIL)")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return c.ValidateBackends()
}

// ValidateBackends checks the settings every visibility check depends on
func (c *Config) ValidateBackends() error {
	if c.LLMGatewayAPIKey == "" && c.GeminiAPIKey == "" {
		return fmt.Errorf("at least one completion backend must be configured (LLM_GATEWAY_API_KEY or GEMINI_API_KEY)")
	}

	if c.MaxConcurrency < 1 {
		return fmt.Errorf("MAX_CONCURRENCY must be at least 1")
	}

	if c.CallTimeout <= 0 {
		return fmt.Errorf("CALL_TIMEOUT must be positive")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return defaultValue
}
