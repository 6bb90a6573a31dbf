package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
	// AllowedOrigin is the storefront origin permitted to POST build captures.
	AllowedOrigin string
	// CronSecret gates the scheduled-task trigger endpoint.
	CronSecret string
}

// Shopify captures Admin API access for the catalog source.
type Shopify struct {
	// StoreDomain is the myshopify host, without scheme.
	StoreDomain string
	AdminToken  string
	APIVersion  string
	PageSize    int
}

// AdminURL returns the GraphQL Admin API endpoint for the store.
func (s Shopify) AdminURL() string {
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", s.StoreDomain, s.APIVersion)
}

// Redis captures connection settings for the abandoned-build queue.
type Redis struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Mail captures outbound report delivery settings.
type Mail struct {
	ResendAPIKey string
	AuditFrom    string
	AuditTo      string
	BuildsFrom   string
	BuildsTo     string
}

// Config is the full process configuration, built once in main and passed
// down by parameter so pipelines stay testable with fakes.
type Config struct {
	Server  Server
	Shopify Shopify
	Redis   Redis
	Mail    Mail
}

// FromEnv builds a Config from environment variables so main stays lean.
// Defaults are development-safe; production overrides everything via env.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          getenv("WHEELHOUSE_ADDR", ":8080"),
			AllowedOrigin: getenv("STOREFRONT_ORIGIN", "https://loamlabsusa.com"),
			CronSecret:    os.Getenv("CRON_SECRET"),
		},
		Shopify: Shopify{
			StoreDomain: stripScheme(os.Getenv("SHOPIFY_STORE_DOMAIN")),
			AdminToken:  os.Getenv("SHOPIFY_ADMIN_API_TOKEN"),
			APIVersion:  getenv("SHOPIFY_API_VERSION", "2025-07"),
			PageSize:    50,
		},
		Redis: Redis{
			URL:          getenv("REDIS_URL", "redis://localhost:6379/0"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Mail: Mail{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			AuditFrom:    getenv("AUDIT_EMAIL_FROM", "LoamLabs Audit <alerts@loamlabsusa.com>"),
			AuditTo:      os.Getenv("REPORT_EMAIL_TO"),
			BuildsFrom:   getenv("BUILDS_EMAIL_FROM", "Builder Reports <reports@loamlabsusa.com>"),
			BuildsTo:     os.Getenv("BUILDER_EMAIL_ADDRESS"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func stripScheme(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	return strings.TrimPrefix(domain, "http://")
}
