// Package config provides centralized default values for SmartEngage
package config

import (
	"os"
	"strconv"
	"time"
)

// getEnvInt reads environment variable with fallback to default
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvString reads environment variable with string fallback
func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvBool reads environment variable as boolean with fallback
func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration reads environment variable as duration with fallback
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		// Try as integer seconds
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

// Server Configuration
var (
	Port               = getEnvString("PORT", "8080")
	ServerReadTimeout  = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout  = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	AdminJWTSecret     = getEnvString("ADMIN_JWT_SECRET", "")
	AdminPassHash      = getEnvString("ADMIN_PASSWORD_HASH", "")
	TokenLifetime      = getEnvDuration("ADMIN_TOKEN_LIFETIME", 12*time.Hour)
)

// Database Configuration
var (
	DatabaseDriver = getEnvString("DATABASE_DRIVER", "sqlite3")
	DatabaseURL    = getEnvString("DATABASE_URL", "smartengage.db")

	DBMaxOpenConns           = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns           = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
)

// Visitor State Configuration
var (
	// SessionTTL bounds the session-scoped frequency state (sessionShown flags
	// and trigger machines). Durable state has no TTL.
	SessionTTL             = time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)) * time.Minute
	SessionCleanupInterval = time.Duration(getEnvInt("SESSION_CLEANUP_INTERVAL_MINUTES", 10)) * time.Minute
	MaxVisitorStates       = getEnvInt("MAX_VISITOR_STATES", 50000)
)

// Analytics Configuration
var (
	AnalyticsTimezone     = getEnvString("ANALYTICS_TIMEZONE", "UTC")
	AnonymizeEvents       = getEnvBool("ANONYMIZE_EVENTS", true)
	EventRetentionDays    = getEnvInt("EVENT_RETENTION_DAYS", 90)
	RetentionPurgePeriod  = time.Duration(getEnvInt("RETENTION_PURGE_INTERVAL_HOURS", 24)) * time.Hour
	DefaultReportRangeDay = getEnvInt("DEFAULT_REPORT_RANGE_DAYS", 7)
)

// Observability Configuration
var (
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 50*time.Millisecond)
	LogLevel           = getEnvString("LOG_LEVEL", "INFO")
	LogJSON            = getEnvBool("LOG_JSON", false)
)
