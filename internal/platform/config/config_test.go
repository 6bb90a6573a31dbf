package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults are development safe", func(t *testing.T) {
		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, 50, cfg.Shopify.PageSize)
	})

	t.Run("store domain loses its scheme", func(t *testing.T) {
		t.Setenv("SHOPIFY_STORE_DOMAIN", "https://test-store.myshopify.com")
		cfg := FromEnv()
		assert.Equal(t, "test-store.myshopify.com", cfg.Shopify.StoreDomain)
		assert.Equal(t,
			"https://test-store.myshopify.com/admin/api/2025-07/graphql.json",
			cfg.Shopify.AdminURL(),
		)
	})
}
