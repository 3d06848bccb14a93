package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	Backend   BackendConfig
	CEP       CEPConfig
	Console   ConsoleConfig
	Screen    ScreenConfig
	Dashboard DashboardConfig
	Logging   LoggingConfig
}

// BackendConfig points at the FitPay REST backend
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CEPConfig points at the postal code lookup service
type CEPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ConsoleConfig contains web console server configuration
type ConsoleConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	SessionSecret     string
	SessionExpiry     time.Duration
	AdminEmail        string
	AdminPasswordHash string
	RateLimit         int
	AllowedOrigins    []string
}

// AuthEnabled reports whether the console requires a login.
func (c ConsoleConfig) AuthEnabled() bool {
	return c.AdminPasswordHash != ""
}

// Addr returns host:port
func (c ConsoleConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ScreenConfig tunes list screens
type ScreenConfig struct {
	SearchDebounce time.Duration
	PageSize       int
}

// DashboardConfig schedules the background dashboard refresh
type DashboardConfig struct {
	RefreshSchedule string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: getEnv("FITPAY_API_URL", "http://localhost:8080"),
			Timeout: getEnvAsDuration("FITPAY_API_TIMEOUT", 30*time.Second),
		},
		CEP: CEPConfig{
			BaseURL: getEnv("CEP_API_URL", "https://viacep.com.br/ws"),
			Timeout: getEnvAsDuration("CEP_API_TIMEOUT", 10*time.Second),
		},
		Console: ConsoleConfig{
			Host:              getEnv("CONSOLE_HOST", "0.0.0.0"),
			Port:              getEnvAsInt("CONSOLE_PORT", 3000),
			ReadTimeout:       getEnvAsDuration("CONSOLE_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:      getEnvAsDuration("CONSOLE_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout:   getEnvAsDuration("CONSOLE_SHUTDOWN_TIMEOUT", 15*time.Second),
			SessionSecret:     getEnv("CONSOLE_SESSION_SECRET", ""),
			SessionExpiry:     getEnvAsDuration("CONSOLE_SESSION_EXPIRY", 8*time.Hour),
			AdminEmail:        getEnv("CONSOLE_ADMIN_EMAIL", "admin@fitpay.local"),
			AdminPasswordHash: getEnv("CONSOLE_ADMIN_PASSWORD_HASH", ""),
			RateLimit:         getEnvAsInt("CONSOLE_RATE_LIMIT", 120),
			AllowedOrigins:    getEnvAsList("CONSOLE_ALLOWED_ORIGINS"),
		},
		Screen: ScreenConfig{
			SearchDebounce: getEnvAsDuration("SEARCH_DEBOUNCE", 400*time.Millisecond),
			PageSize:       getEnvAsInt("PAGE_SIZE", 10),
		},
		Dashboard: DashboardConfig{
			RefreshSchedule: getEnv("DASHBOARD_REFRESH_SCHEDULE", "@every 5m"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validateURL("FITPAY_API_URL", c.Backend.BaseURL); err != nil {
		return err
	}
	if err := validateURL("CEP_API_URL", c.CEP.BaseURL); err != nil {
		return err
	}

	if c.Console.Port < 1 || c.Console.Port > 65535 {
		return fmt.Errorf("invalid console port: %d", c.Console.Port)
	}

	if c.Console.AuthEnabled() && len(c.Console.SessionSecret) < 16 {
		return fmt.Errorf("CONSOLE_SESSION_SECRET must have at least 16 characters when login is enabled")
	}

	if c.Console.RateLimit < 1 {
		return fmt.Errorf("invalid console rate limit: %d", c.Console.RateLimit)
	}

	if d := c.Screen.SearchDebounce; d < 300*time.Millisecond || d > 500*time.Millisecond {
		return fmt.Errorf("SEARCH_DEBOUNCE must be between 300ms and 500ms, got %s", d)
	}

	if c.Screen.PageSize < 1 || c.Screen.PageSize > 100 {
		return fmt.Errorf("invalid page size: %d", c.Screen.PageSize)
	}

	if _, err := cron.ParseStandard(c.Dashboard.RefreshSchedule); err != nil {
		return fmt.Errorf("invalid DASHBOARD_REFRESH_SCHEDULE %q: %w", c.Dashboard.RefreshSchedule, err)
	}

	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
