package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Store.Driver, cfg.Store.Driver)
	assert.True(t, cfg.Orders.StrictTransitions)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
http:
  addr: ":9000"
store:
  driver: memory
orders:
  strict_transitions: false
  event_workers: 2
  idempotency_ttl: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.False(t, cfg.Orders.StrictTransitions)
	assert.Equal(t, 2, cfg.Orders.EventWorkers)
	assert.Equal(t, time.Hour, cfg.Orders.IdempotencyTTL)
	assert.Equal(t, "primo:", cfg.Store.KeyPrefix, "unset fields keep defaults")
}

func TestLoad_InvalidDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: etcd\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PIZZERIA_STORE_DRIVER":       "mysql",
		"PIZZERIA_MYSQL_DSN":          "u:p@tcp(db:3306)/x",
		"PIZZERIA_RABBITMQ_ENABLED":   "true",
		"PIZZERIA_STRICT_TRANSITIONS": "false",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))

	assert.Equal(t, "mysql", cfg.Store.Driver)
	assert.Equal(t, "u:p@tcp(db:3306)/x", cfg.Store.MySQL.DSN)
	assert.True(t, cfg.RabbitMQ.Enabled)
	assert.False(t, cfg.Orders.StrictTransitions)
}

func TestApplyEnv_BadBool(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "PIZZERIA_RABBITMQ_ENABLED" {
			return "maybe", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestValidate_Workers(t *testing.T) {
	cfg := Default()
	cfg.Orders.EventWorkers = 0
	assert.Error(t, cfg.Validate())
}
