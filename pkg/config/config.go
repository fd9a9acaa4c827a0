package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External sources
	ApeWisdom ApeWisdomConfig
	Reddit    RedditConfig
	Yahoo     YahooConfig

	// Decision engine thresholds
	Engine EngineConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ApeWisdomConfig holds trend-source scraper configuration
type ApeWisdomConfig struct {
	BaseURL string
	TopN    int // how many trending rows to scrape per run
}

// RedditConfig holds Reddit mention-tracking configuration
type RedditConfig struct {
	BaseURL    string
	UserAgent  string
	Subreddits []string
	HoursBack  int // trailing mention window
}

// YahooConfig holds fundamentals-source configuration
type YahooConfig struct {
	BaseURL string
}

// EngineConfig holds decision-engine thresholds
// Passed into the engine at construction time so tests can vary thresholds
// without shared-state interference.
type EngineConfig struct {
	TopNRank       int           // ticker must rank within top N on the trend source
	MinVelocityPct float64       // minimum mention-velocity increase (%)
	MinHealthScore float64       // minimum fundamental health score (0-100)
	MinConfidence  float64       // minimum confidence to create a flag (0-100)
	MaxFlagAge     time.Duration // OPEN flags older than this expire
}

// Load reads configuration from environment variables
// SSOT: this is the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		ApeWisdom: ApeWisdomConfig{
			BaseURL: getEnv("APEWISDOM_BASE_URL", "https://apewisdom.io"),
			TopN:    getEnvAsInt("APEWISDOM_TOP_N", 50),
		},

		Reddit: RedditConfig{
			BaseURL:    getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
			UserAgent:  getEnv("REDDIT_USER_AGENT", "sentival/1.0"),
			Subreddits: getEnvAsSlice("REDDIT_SUBREDDITS", []string{"wallstreetbets", "stocks", "investing", "RobinHoodPennyStocks"}),
			HoursBack:  getEnvAsInt("REDDIT_HOURS_BACK", 24),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		},

		Engine: EngineConfig{
			TopNRank:       getEnvAsInt("ENGINE_TOP_N_RANK", 20),
			MinVelocityPct: getEnvAsFloat("ENGINE_MIN_VELOCITY_PCT", 20.0),
			MinHealthScore: getEnvAsFloat("ENGINE_MIN_HEALTH_SCORE", 60.0),
			MinConfidence:  getEnvAsFloat("ENGINE_MIN_CONFIDENCE", 70.0),
			MaxFlagAge:     getEnvAsDuration("ENGINE_MAX_FLAG_AGE", "720h"), // 30 days
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
// Threshold validation failures are fatal at startup, before any ticker is evaluated.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.ApeWisdom.TopN < 1 {
		return fmt.Errorf("APEWISDOM_TOP_N must be a positive integer")
	}

	if c.Reddit.HoursBack < 1 {
		return fmt.Errorf("REDDIT_HOURS_BACK must be a positive integer")
	}

	return c.Engine.Validate()
}

// Validate checks engine thresholds
func (e EngineConfig) Validate() error {
	if e.TopNRank < 1 {
		return fmt.Errorf("ENGINE_TOP_N_RANK must be a positive integer, got %d", e.TopNRank)
	}
	if e.MinVelocityPct < 0 {
		return fmt.Errorf("ENGINE_MIN_VELOCITY_PCT must be non-negative, got %.2f", e.MinVelocityPct)
	}
	if e.MinHealthScore < 0 {
		return fmt.Errorf("ENGINE_MIN_HEALTH_SCORE must be non-negative, got %.2f", e.MinHealthScore)
	}
	if e.MinConfidence < 0 {
		return fmt.Errorf("ENGINE_MIN_CONFIDENCE must be non-negative, got %.2f", e.MinConfidence)
	}
	if e.MaxFlagAge <= 0 {
		return fmt.Errorf("ENGINE_MAX_FLAG_AGE must be positive, got %s", e.MaxFlagAge)
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
