// Package config loads the server settings from the environment. A .env file
// in the working directory is read first; variables already set in the
// process environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/janisto/htmx-playground/internal/htmx"
)

// Environment variable names.
const (
	EnvPort                = "PORT"
	EnvGuardRedirectTarget = "GUARD_REDIRECT_TARGET"
	EnvStrictHeaders       = "HTMX_STRICT_HEADERS"
	EnvLogLevel            = "LOG_LEVEL"
	EnvCORSAllowedOrigins  = "CORS_ALLOWED_ORIGINS"
	EnvCounterDB           = "COUNTER_DB"
)

// Config holds the server settings.
type Config struct {
	Port               string
	Guard              htmx.GuardConfig
	HeaderMode         htmx.Mode
	LogLevel           string
	CORSAllowedOrigins []string
	// CounterDB is the SQLite DSN of the counter store. Empty keeps the
	// counter in memory.
	CounterDB string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:       "8080",
		Guard:      htmx.DefaultGuardConfig(),
		HeaderMode: htmx.Lenient,
		LogLevel:   "info",
	}
}

// Load reads the given .env files (".env" when none are named) and then the
// process environment. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which has the signature of
// os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvPort); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 65535 {
			return Config{}, fmt.Errorf("config: invalid %s %q", EnvPort, v)
		}
		cfg.Port = v
	}
	if v, ok := get(EnvGuardRedirectTarget); ok {
		cfg.Guard.RedirectTarget = v
	}
	if v, ok := get(EnvStrictHeaders); ok {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid %s %q: %w", EnvStrictHeaders, v, err)
		}
		if strict {
			cfg.HeaderMode = htmx.Strict
		}
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get(EnvCORSAllowedOrigins); ok {
		for origin := range strings.SplitSeq(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	}
	if v, ok := get(EnvCounterDB); ok {
		cfg.CounterDB = v
	}

	if err := cfg.Guard.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", EnvGuardRedirectTarget, err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
