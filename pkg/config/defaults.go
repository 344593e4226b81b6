// Package config provides centralized default values for the SEO insights engine
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, redact(key, val), defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	log.Printf("Config override: %s=%v (default: %v)", key, out, defaultValue)
	return out
}

// redact hides secrets in override logs
func redact(key, val string) string {
	upper := strings.ToUpper(key)
	if strings.Contains(upper, "SECRET") || strings.Contains(upper, "TOKEN") ||
		strings.Contains(upper, "PASSWORD") || strings.Contains(upper, "CREDENTIALS_JSON") {
		return "****"
	}
	return val
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	CORSOrigins        []string

	// Logging
	LogLevel     string
	LogDirectory string
	LogToFile    bool
	LogJSON      bool

	// Cache Configuration
	ScoreCacheTTL        time.Duration
	ReportCacheTTL       time.Duration
	CacheCleanupInterval time.Duration
	CacheCleanupVerbose  bool

	// Upstream providers
	ProviderTimeout       time.Duration
	MetricsWindowDays     int
	ContentPathPrefix     string
	ConversionPaths       []string
	GSCSiteURL            string
	GA4PropertyID         string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string
	ProviderRowLimit      int

	// Content store
	ContentDBDriver    string
	ContentDBDSN       string
	ContentDBName      string
	TursoAuthToken     string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	SlowQueryThreshold time.Duration
	SeedDemoContent    bool

	// Vocabulary and scoring overrides
	VocabularyFile string

	// Admin API
	AdminJWTSecret     string
	AdminPasswordHash  string
	AdminTokenLifetime time.Duration
)

func init() {
	Load()
}

// Load (re)reads every setting from the environment. It runs once at init;
// tests call it again after changing the environment.
func Load() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	CORSOrigins = getEnvList("CORS_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	// Logging
	LogLevel = getEnvString("LOG_LEVEL", "INFO")
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogJSON = getEnvBool("LOG_JSON", true)

	// Cache Configuration
	ScoreCacheTTL = getEnvDuration("SCORE_CACHE_TTL", 15*time.Minute)
	ReportCacheTTL = getEnvDuration("REPORT_CACHE_TTL", 30*time.Minute)
	CacheCleanupInterval = getEnvDuration("CACHE_CLEANUP_INTERVAL", 10*time.Minute)
	CacheCleanupVerbose = getEnvBool("CACHE_CLEANUP_VERBOSE", false)

	// Upstream providers
	ProviderTimeout = getEnvDuration("PROVIDER_TIMEOUT", 20*time.Second)
	MetricsWindowDays = getEnvInt("METRICS_WINDOW_DAYS", 28)
	ContentPathPrefix = getEnvString("CONTENT_PATH_PREFIX", "/lab/")
	ConversionPaths = getEnvList("CONVERSION_PATHS", []string{"=/partner-marketing", "/casestudy/", "/knowledge/", "/seminar/"})
	GSCSiteURL = getEnvString("GSC_SITE_URL", "")
	GA4PropertyID = getEnvString("GA4_PROPERTY_ID", "")
	GoogleCredentialsJSON = getEnvString("GOOGLE_CREDENTIALS_JSON", "")
	GoogleCredentialsFile = getEnvString("GOOGLE_APPLICATION_CREDENTIALS", "")
	ProviderRowLimit = getEnvInt("PROVIDER_ROW_LIMIT", 500)

	// Content store
	ContentDBDriver = getEnvString("CONTENT_DB_DRIVER", "sqlite3")
	ContentDBDSN = getEnvString("CONTENT_DB_DSN", "file:content.db?_foreign_keys=on")
	ContentDBName = getEnvString("CONTENT_DB_NAME", "content")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 500*time.Millisecond)
	SeedDemoContent = getEnvBool("SEED_DEMO_CONTENT", false)

	VocabularyFile = getEnvString("SEO_VOCABULARY_FILE", "")

	// Admin API
	AdminJWTSecret = getEnvString("ADMIN_JWT_SECRET", "")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	AdminTokenLifetime = getEnvDuration("ADMIN_TOKEN_LIFETIME", 12*time.Hour)
}
