package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "Asia/Kolkata", cfg.App.Timezone)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, "postgres", cfg.Realtime.Driver)
	assert.Equal(t, "order_changes", cfg.Realtime.PGChannel)
	assert.Equal(t, 10, cfg.Scheduler.LowStockThreshold)
	assert.Equal(t, 5, cfg.Auth.OTPTTLMinutes)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("DB_MIGRATE_ON_START", "true")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.True(t, cfg.DB.MigrateOnStart)
	assert.Equal(t, "https://abc.supabase.co", cfg.Supabase.URL, "se recorta la barra final")
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("REALTIME_DRIVER", "kafka")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SupabaseStorageSinCredenciales(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "supabase")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "kirana", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/kirana?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://x"
	assert.Equal(t, "postgresql://x", c.ConnectionString())
}

func TestAppConfig_Location(t *testing.T) {
	assert.Equal(t, "Asia/Kolkata", AppConfig{Timezone: "Asia/Kolkata"}.Location().String())
	assert.Equal(t, "UTC", AppConfig{Timezone: "Nowhere/City"}.Location().String())
}
