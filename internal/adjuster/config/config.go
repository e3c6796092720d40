// Package config assembles the process configuration once at startup.
// Everything is read from the environment; the resulting struct is passed
// down explicitly — no package-level mutable state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every knob the service reads from the environment.
type Config struct {
	// ListenAddr is the inbound HTTP bind address.
	ListenAddr string

	// StoreDomain is the myshopify host, e.g. "acme.myshopify.com".
	StoreDomain string

	// AdminToken is the Admin API access token sent on every upstream call.
	AdminToken string

	// LocationID is the fixed warehouse location gid. When empty, the
	// store's first location is resolved once at startup and pinned.
	LocationID string

	// LedgerDocumentURI is the optional audit-trail pointer attached to
	// every adjustment change.
	LedgerDocumentURI string

	// ResolveVariants switches component identifiers from inventory item
	// ids (the default) to product variant ids that must be resolved
	// upstream before submission.
	ResolveVariants bool

	// RedisAddr enables the variant resolution cache when non-empty.
	// Only consulted when ResolveVariants is set.
	RedisAddr string

	// AdjustLogPath is the SQLite file for the adjustment audit log.
	// Empty disables audit logging.
	AdjustLogPath string

	// UpstreamTimeout bounds each individual call to the platform.
	UpstreamTimeout time.Duration
}

// FromEnv builds the Config, failing fast on missing required values so a
// misconfigured deploy dies at startup rather than on the first webhook.
func FromEnv() (Config, error) {
	cfg := Config{
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		StoreDomain:       os.Getenv("SHOPIFY_STORE_DOMAIN"),
		AdminToken:        os.Getenv("SHOPIFY_ADMIN_TOKEN"),
		LocationID:        os.Getenv("SHOPIFY_LOCATION_ID"),
		LedgerDocumentURI: getEnv("LEDGER_DOCUMENT_URI", ""),
		ResolveVariants:   getEnvBool("SHOPIFY_RESOLVE_VARIANTS", false),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		AdjustLogPath:     os.Getenv("ADJUST_LOG_PATH"),
		UpstreamTimeout:   getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
	}
	if cfg.StoreDomain == "" {
		return Config{}, fmt.Errorf("config: SHOPIFY_STORE_DOMAIN is required")
	}
	if cfg.AdminToken == "" {
		return Config{}, fmt.Errorf("config: SHOPIFY_ADMIN_TOKEN is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
