package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, SinkDatabase, cfg.TicketHistorySink)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, 8*time.Hour, cfg.JWTConfig.TTL)
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=ticketmachine sslmode=disable",
		cfg.DBConfig.DSN())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVICE_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cr3t-for-prod")
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("ORIGIN_STATION", "York")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, 30*time.Minute, cfg.JWTConfig.TTL)
	assert.Equal(t, "York", cfg.OriginStation)
	assert.Equal(t, "s3cr3t-for-prod", cfg.JWTConfig.Secret)
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"unset falls back to default", ""},
		{"default", DevJWTSecret},
		{"blank", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "production")
			t.Setenv("JWT_SECRET", tt.secret)
			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "JWT_SECRET")
		})
	}
}

func TestLoad_DevelopmentAllowsDefaultJWTSecret(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DevJWTSecret, cfg.JWTConfig.Secret)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "sqlite"}},
		{"unknown sink", map[string]string{"TICKET_HISTORY_SINK": "file"}},
		{"kafka sink without postgres", map[string]string{"STORAGE_BACKEND": "memory", "TICKET_HISTORY_SINK": "kafka"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
