package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP (optional; insight generation runs inline when unset)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Insight generation
	FetchTimeout    time.Duration // bound on each accessor read
	TrailingMonths  int           // spending pattern lookback
	TopCategories   int           // spending pattern top-N
	InsightCacheTTL time.Duration // HTTP-level insight list cache
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8082"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finsight.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finsight"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "generate_insights"),

		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 5*time.Second),
		TrailingMonths:  getEnvInt("TRAILING_MONTHS", 3),
		TopCategories:   getEnvInt("TOP_CATEGORIES", 5),
		InsightCacheTTL: getEnvDuration("INSIGHT_CACHE_TTL", 5*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.FetchTimeout < 100*time.Millisecond {
		errs = append(errs, fmt.Sprintf("invalid fetch timeout %v: must be at least 100ms", c.FetchTimeout))
	} else if c.FetchTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid fetch timeout %v: must be at most 1 minute", c.FetchTimeout))
	}

	if c.TrailingMonths < 1 || c.TrailingMonths > 36 {
		errs = append(errs, fmt.Sprintf("invalid trailing months %d: must be between 1 and 36", c.TrailingMonths))
	}

	if c.TopCategories < 1 || c.TopCategories > 100 {
		errs = append(errs, fmt.Sprintf("invalid top categories %d: must be between 1 and 100", c.TopCategories))
	}

	if c.InsightCacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid insight cache TTL %v: must not be negative", c.InsightCacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
