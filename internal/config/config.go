// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/usestring/filterkit/internal/filter"
	"github.com/usestring/filterkit/pkg/jsoncompact"
)

// Result cache defaults
const (
	DefaultResultCacheMaxItems = 256
	DefaultSearchTimeoutMs     = 5000
)

// Config holds all configuration for the filter server.
type Config struct {
	FiltersFile   string        // FILTERS_FILE, TOML or JSON filter definitions
	Documents     []string      // DOCUMENTS, comma-separated JSON/NDJSON files
	SearchTimeout time.Duration // SEARCH_TIMEOUT_MS, default 5000ms (5s)

	// Pager defaults for filters that leave them out
	DefaultCountPerPage int // DEFAULT_COUNT_PER_PAGE, default 10
	DefaultPageRange    int // DEFAULT_PAGE_RANGE, default 3

	ResultCacheMaxItems int // RESULT_CACHE_MAX_ITEMS, default 256; 0 disables

	SortLanguage string // SORT_LANGUAGE, BCP 47 tag for string sort collation, default "und"

	// Compaction of document sources in tool output
	CompactMaxArrayItems int // COMPACT_MAX_ARRAY_ITEMS
	CompactMaxStringLen  int // COMPACT_MAX_STRING_LEN

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, text or json, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		FiltersFile:   getEnvString("FILTERS_FILE", ""),
		Documents:     getEnvList("DOCUMENTS"),
		SearchTimeout: getEnvDurationMs("SEARCH_TIMEOUT_MS", DefaultSearchTimeoutMs),

		DefaultCountPerPage: getEnvInt("DEFAULT_COUNT_PER_PAGE", filter.DefaultCountPerPage),
		DefaultPageRange:    getEnvInt("DEFAULT_PAGE_RANGE", filter.DefaultRangeSize),

		ResultCacheMaxItems: getEnvInt("RESULT_CACHE_MAX_ITEMS", DefaultResultCacheMaxItems),

		SortLanguage: getEnvString("SORT_LANGUAGE", "und"),

		CompactMaxArrayItems: getEnvInt("COMPACT_MAX_ARRAY_ITEMS", jsoncompact.DefaultMaxArrayItems),
		CompactMaxStringLen:  getEnvInt("COMPACT_MAX_STRING_LEN", jsoncompact.DefaultMaxStringLen),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}

// getEnvList splits a comma-separated value, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
