package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/erraggy/oasgen/openapi"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// CacheSize is the number of parsed documents and description files
	// kept per cache.
	CacheSize int

	// Dialect is the default output dialect of generate_document.
	Dialect openapi.Dialect
	// AddMissingPathParameters is the generate_document default.
	AddMissingPathParameters bool

	// MaxInlineSize caps the size of inline content inputs in bytes.
	MaxInlineSize int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASGEN_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheSize:                envInt("OASGEN_CACHE_SIZE", 16),
		Dialect:                  envDialect("OASGEN_DIALECT", openapi.OpenAPI3),
		AddMissingPathParameters: envBool("OASGEN_ADD_MISSING_PATH_PARAMETERS", false),
		MaxInlineSize:            envInt64("OASGEN_MAX_INLINE_SIZE", 10*1024*1024),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDialect(key string, fallback openapi.Dialect) openapi.Dialect {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := openapi.ParseDialect(v)
	if err != nil {
		slog.Warn("invalid dialect env var, using default", "key", key, "value", v, "default", fallback.String()) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
