package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Support:  SupportConfig{ChatID: -1001234567890, AdminIDs: []int64{7}},
		Store:    StoreConfig{Backend: StoreMemory},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = ""
	cfg.Store.Redis.Addr = "localhost:6379"

	require.NoError(t, Normalize(cfg))
	require.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	require.Equal(t, StoreRedis, cfg.Store.Backend)
}

func TestNormalizeRequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	require.Error(t, Normalize(cfg))

	cfg = validConfig()
	cfg.Support.ChatID = 0
	require.Error(t, Normalize(cfg))

	cfg = validConfig()
	cfg.Support.ChatID = 42 // private chats cannot host ticket threads
	require.Error(t, Normalize(cfg))
}

func TestNormalizeWebhookMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	require.Error(t, Normalize(cfg), "webhook mode needs a listener")

	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8080
	require.NoError(t, Normalize(cfg))
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	require.NoError(t, Normalize(cfg))
	require.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)

	cfg = validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	require.Error(t, Normalize(cfg))
}

func TestNormalizeStoreBackends(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = StoreRedis
	require.Error(t, Normalize(cfg), "redis backend needs an address")

	cfg = validConfig()
	cfg.Store.Backend = StorePostgres
	cfg.Store.Postgres.Host = "localhost"
	cfg.Store.Postgres.Name = "support"
	require.NoError(t, Normalize(cfg))
	require.Equal(t, "5432", cfg.Store.Postgres.Port)
	require.Equal(t, "disable", cfg.Store.Postgres.SSLMode)
	require.Equal(t, 4, cfg.Store.Postgres.MaxConnections)
}

func TestIsAdminListed(t *testing.T) {
	s := SupportConfig{AdminIDs: []int64{1, 2, 3}}
	require.True(t, s.IsAdminListed(2))
	require.False(t, s.IsAdminListed(4))
	require.False(t, SupportConfig{}.IsAdminListed(1))
}
