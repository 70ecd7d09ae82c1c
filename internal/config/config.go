package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey       = errors.New("YouTube API key is required")
	ErrUnsupportedProvider = errors.New("unsupported AI provider")
	ErrInvalidSetting      = errors.New("invalid setting")
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

const (
	defaultPort             = "8080"
	defaultProvider         = ProviderOpenAI
	defaultInsightsTimeout  = 60 * time.Second
	defaultRecentVideoLimit = 20
	defaultLogLevel         = "info"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
}

// defaultModels maps each provider to the model used when AI_MODEL is unset.
var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o",
	ProviderGemini:    "gemini-2.5-flash",
	ProviderAnthropic: "claude-sonnet-4-5",
}

// providerKeyVars lists the provider-specific key variables consulted when
// AI_API_KEY is unset.
var providerKeyVars = map[string]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey string
	// DBPath is a SQLite Cloud connection string. Empty disables caching.
	DBPath         string
	Port           string
	AllowedOrigins []string
	LogLevel       string

	AI AIConfig

	InsightsTimeout  time.Duration
	RecentVideoLimit int
}

// AIConfig selects and authenticates the language-model provider.
type AIConfig struct {
	Provider string
	// APIKey may be empty; every generation then degrades to the fallback result.
	APIKey  string
	Model   string
	BaseURL string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		YouTubeAPIKey:    os.Getenv("YOUTUBE_API_KEY"),
		DBPath:           os.Getenv("DB_PATH"),
		Port:             getEnv("PORT", defaultPort),
		AllowedOrigins:   defaultAllowedOrigins,
		LogLevel:         getEnv("LOG_LEVEL", defaultLogLevel),
		InsightsTimeout:  defaultInsightsTimeout,
		RecentVideoLimit: defaultRecentVideoLimit,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	provider := strings.ToLower(getEnv("AI_PROVIDER", defaultProvider))
	cfg.AI = AIConfig{
		Provider: provider,
		APIKey:   os.Getenv("AI_API_KEY"),
		Model:    getEnv("AI_MODEL", defaultModels[provider]),
		BaseURL:  os.Getenv("AI_BASE_URL"),
	}
	if cfg.AI.APIKey == "" {
		if name, ok := providerKeyVars[provider]; ok {
			cfg.AI.APIKey = os.Getenv(name)
		}
	}

	if v := os.Getenv("INSIGHTS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: INSIGHTS_TIMEOUT %q: %v", ErrInvalidSetting, v, err)
		}
		cfg.InsightsTimeout = d
	}

	if v := os.Getenv("RECENT_VIDEO_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: RECENT_VIDEO_LIMIT %q: %v", ErrInvalidSetting, v, err)
		}
		cfg.RecentVideoLimit = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	if _, ok := defaultModels[c.AI.Provider]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, c.AI.Provider)
	}
	if c.InsightsTimeout <= 0 {
		return fmt.Errorf("%w: INSIGHTS_TIMEOUT must be positive", ErrInvalidSetting)
	}
	if c.RecentVideoLimit <= 0 {
		return fmt.Errorf("%w: RECENT_VIDEO_LIMIT must be positive", ErrInvalidSetting)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
