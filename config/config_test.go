package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_FILE", "CATALOG_SOURCE", "SESSION_STORE",
		"SESSION_TTL_MINUTES", "SESSION_SWEEP_SECONDS", "SESSION_COOKIE",
		"KAFKA_BROKERS", "JAEGER_ENDPOINT", "FEATURED_PRODUCTS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, CatalogSourceStatic, cfg.Catalog.Source)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 120*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, "storefront_session", cfg.Session.CookieName)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Empty(t, cfg.Observ.JaegerEndpoint)
	assert.Equal(t, 3, cfg.Business.FeaturedProducts)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CATALOG_SOURCE", "Postgres")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("FEATURED_PRODUCTS", "4")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, CatalogSourcePostgres, cfg.Catalog.Source)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 4, cfg.Business.FeaturedProducts)
}
