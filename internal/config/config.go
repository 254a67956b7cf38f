// Package config reads the front end's settings from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"library-web/internal/apiclient"
	"library-web/internal/ui"
)

// Config holds the front end's runtime settings.
type Config struct {
	Env            string
	Port           string
	APIBase        string
	APIOrigin      string
	APITimeout     time.Duration
	SessionKey     []byte
	CSRFKey        []byte
	AllowedOrigins []string
	TrustedProxies []string
	ToastTimeout   time.Duration
	AuthRatePerSec float64
	AuthBurst      int
	StateTTL       time.Duration
}

func (c Config) Production() bool { return c.Env == "production" }

// Load reads .env.local and .env when present, then the environment.
// Existing environment variables win over file values.
func Load() (Config, error) {
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err == nil {
			log.Printf("[INFO] Loaded %s", f)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, applying defaults.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Env:        get("ENV", "development"),
		Port:       get("PORT", "8080"),
		APIBase:    get("API_BASE", apiclient.DefaultBase),
		APIOrigin:  get("API_ORIGIN", apiclient.DefaultOrigin),
		SessionKey: []byte(get("SESSION_KEY", "")),
		CSRFKey:    []byte(get("CSRF_KEY", "")),
	}

	var err error
	if cfg.APITimeout, err = duration(get("API_TIMEOUT", apiclient.DefaultTimeout.String())); err != nil {
		return Config{}, fmt.Errorf("API_TIMEOUT: %w", err)
	}
	if cfg.ToastTimeout, err = duration(get("TOAST_TIMEOUT", ui.DefaultToastTimeout.String())); err != nil {
		return Config{}, fmt.Errorf("TOAST_TIMEOUT: %w", err)
	}
	if cfg.StateTTL, err = duration(get("STATE_TTL", ui.DefaultStateTTL.String())); err != nil {
		return Config{}, fmt.Errorf("STATE_TTL: %w", err)
	}
	if cfg.AuthRatePerSec, err = strconv.ParseFloat(get("AUTH_RATE_PER_SEC", "1"), 64); err != nil || cfg.AuthRatePerSec <= 0 {
		return Config{}, fmt.Errorf("AUTH_RATE_PER_SEC must be a positive number")
	}
	if cfg.AuthBurst, err = strconv.Atoi(get("AUTH_BURST", "5")); err != nil || cfg.AuthBurst < 1 {
		return Config{}, fmt.Errorf("AUTH_BURST must be a positive integer")
	}

	cfg.AllowedOrigins = splitList(get("ALLOWED_ORIGINS", ""))
	cfg.TrustedProxies = splitList(get("TRUSTED_PROXIES", ""))
	if len(cfg.CSRFKey) != 0 && len(cfg.CSRFKey) != 32 {
		return Config{}, fmt.Errorf("CSRF_KEY must be 32 bytes, got %d", len(cfg.CSRFKey))
	}
	return cfg, nil
}

func duration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

// splitList splits a comma list, dropping blanks. An empty input is nil.
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
