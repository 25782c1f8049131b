package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret string
	JWTIssuer string

	// Valuation settings. FXRates maps a currency code to its fixed rate into
	// the reporting currency. The table is deliberately static: snapshots are
	// historical approximations and live rates would break their reproducibility.
	ReportingCurrency string
	FXRates           map[string]decimal.Decimal

	// Scheduled sweep settings. The sweep fires once per day at
	// SweepHour:SweepMinute wall-clock time in SweepLocation.
	SweepHour        int
	SweepMinute      int
	SweepLocation    *time.Location
	SweepConcurrency int

	// Rate limit applied to the trigger endpoints, in ulule/limiter formatted
	// notation (e.g. "10-M" for ten requests per minute).
	TriggerRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "networth-snapshot-service")
	viper.SetDefault("REPORTING_CURRENCY", "KES")
	viper.SetDefault("FX_RATES", "USD=84.0")
	viper.SetDefault("SWEEP_HOUR", 23)
	viper.SetDefault("SWEEP_MINUTE", 55)
	viper.SetDefault("SWEEP_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("SWEEP_CONCURRENCY", 4)
	viper.SetDefault("TRIGGER_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.ReportingCurrency = strings.ToUpper(viper.GetString("REPORTING_CURRENCY"))

	rates, err := ParseFXRates(viper.GetString("FX_RATES"))
	if err != nil {
		return nil, fmt.Errorf("invalid FX_RATES: %w", err)
	}
	cfg.FXRates = rates

	cfg.SweepHour = viper.GetInt("SWEEP_HOUR")
	cfg.SweepMinute = viper.GetInt("SWEEP_MINUTE")
	if cfg.SweepHour < 0 || cfg.SweepHour > 23 || cfg.SweepMinute < 0 || cfg.SweepMinute > 59 {
		return nil, fmt.Errorf("invalid sweep time %02d:%02d", cfg.SweepHour, cfg.SweepMinute)
	}

	tzName := viper.GetString("SWEEP_TIMEZONE")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_TIMEZONE %q: %w", tzName, err)
	}
	cfg.SweepLocation = loc

	cfg.SweepConcurrency = viper.GetInt("SWEEP_CONCURRENCY")
	if cfg.SweepConcurrency < 1 {
		log.Printf("Warning: SWEEP_CONCURRENCY %d is invalid. Defaulting to 1.\n", cfg.SweepConcurrency)
		cfg.SweepConcurrency = 1
	}

	cfg.TriggerRateLimit = viper.GetString("TRIGGER_RATE_LIMIT")

	return cfg, nil
}

// ParseFXRates parses a comma-separated list of CODE=RATE pairs,
// e.g. "USD=84.0,EUR=91.25".
func ParseFXRates(s string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	if strings.TrimSpace(s) == "" {
		return rates, nil
	}
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed rate entry %q", pair)
		}
		code := strings.ToUpper(strings.TrimSpace(parts[0]))
		rate, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("malformed rate for %s: %w", code, err)
		}
		if rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("rate for %s must be positive", code)
		}
		rates[code] = rate
	}
	return rates, nil
}
