package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the analyzer.
// Every environment variable is read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Database
	Database DatabaseConfig

	// Fundamentals provider
	Provider ProviderConfig

	// Analyzer run parameters
	Analyzer AnalyzerConfig

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

// ProviderConfig holds fundamentals provider configuration
type ProviderConfig struct {
	BaseURL string
	APIKey  string

	// Requests per second against the provider, and burst allowance.
	RateLimit float64
	Burst     int

	Timeout time.Duration
}

// AnalyzerConfig holds run parameters for the scoring engine
type AnalyzerConfig struct {
	TickersFile string

	// Bounded parallelism for per-instrument fetch/calculate.
	Concurrency int

	// Overall run deadline. Instruments still outstanding when it
	// expires are excluded from the run.
	RunTimeout time.Duration

	// Cron expressions for the schedule command (with seconds).
	Schedule      string
	Rule1Schedule string

	Weights Weights
}

// Weights is the composite-score weight vector. It must sum to 1.0
// within tolerance; see Validate.
type Weights struct {
	MagicFormula  float64
	Piotroski     float64
	FCFYield      float64
	DebtEquity    float64
	RevenueGrowth float64
	GrossMargin   float64
}

// WeightTolerance is the allowed deviation of the weight sum from 1.0.
const WeightTolerance = 1e-6

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.MagicFormula + w.Piotroski + w.FCFYield +
		w.DebtEquity + w.RevenueGrowth + w.GrossMargin
}

// Validate checks that every weight is non-negative and the vector sums
// to 1.0 within WeightTolerance.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"W_MAGIC_FORMULA":  w.MagicFormula,
		"W_PIOTROSKI":      w.Piotroski,
		"W_FCF_YIELD":      w.FCFYield,
		"W_DEBT_EQUITY":    w.DebtEquity,
		"W_REVENUE_GROWTH": w.RevenueGrowth,
		"W_GROSS_MARGIN":   w.GrossMargin,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", name, v)
		}
	}

	sum := w.Sum()
	if diff := sum - 1.0; diff > WeightTolerance || diff < -WeightTolerance {
		return fmt.Errorf("weights must sum to 1.0 (got %v)", sum)
	}
	return nil
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Provider: ProviderConfig{
			BaseURL:   getEnv("PROVIDER_BASE_URL", "http://localhost:8200"),
			APIKey:    getEnv("PROVIDER_API_KEY", ""),
			RateLimit: getEnvAsFloat("PROVIDER_RATE_LIMIT", 0.67), // ~1 request / 1.5s
			Burst:     getEnvAsInt("PROVIDER_BURST", 1),
			Timeout:   getEnvAsDuration("PROVIDER_TIMEOUT", "30s"),
		},

		Analyzer: AnalyzerConfig{
			TickersFile:   getEnv("TICKERS_FILE", "/config/tickers.txt"),
			Concurrency:   getEnvAsInt("ANALYZER_CONCURRENCY", 4),
			RunTimeout:    getEnvAsDuration("ANALYZER_RUN_TIMEOUT", "30m"),
			Schedule:      getEnv("ANALYZER_SCHEDULE", "0 0 22 * * 1-5"),
			Rule1Schedule: getEnv("RULE1_SCHEDULE", "0 30 22 * * 6"),
			Weights: Weights{
				MagicFormula:  getEnvAsFloat("W_MAGIC_FORMULA", 0.30),
				Piotroski:     getEnvAsFloat("W_PIOTROSKI", 0.25),
				FCFYield:      getEnvAsFloat("W_FCF_YIELD", 0.15),
				DebtEquity:    getEnvAsFloat("W_DEBT_EQUITY", 0.10),
				RevenueGrowth: getEnvAsFloat("W_REVENUE_GROWTH", 0.10),
				GrossMargin:   getEnvAsFloat("W_GROSS_MARGIN", 0.10),
			},
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analyzer.Concurrency < 1 {
		return fmt.Errorf("ANALYZER_CONCURRENCY must be at least 1")
	}

	if err := c.Analyzer.Weights.Validate(); err != nil {
		return err
	}

	return nil
}

// LoadTickers reads the instrument list from the mounted config file.
// Blank lines and lines starting with '#' are skipped.
func LoadTickers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tickers file: %w", err)
	}
	defer f.Close()

	tickers := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tickers file: %w", err)
	}

	return tickers, nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
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
