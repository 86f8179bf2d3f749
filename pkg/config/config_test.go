package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fooddash/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReadsFileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  name: fooddash
  port: 9090
mysql:
  host: db.internal
  port: 3306
  username: app
  password: pw
  database: fooddash
checkout:
  delivery_fee: 2.50
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fooddash", cfg.Server.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Unset keys fall back to defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 720*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.InDelta(t, 2.5, cfg.Checkout.DeliveryFee, 1e-9)
	assert.Zero(t, cfg.Checkout.CookedSurcharge)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	c := config.MySQLConfig{
		Host:     "db.internal",
		Port:     3306,
		Username: "app",
		Password: "pw",
		Database: "fooddash",
	}
	assert.Equal(t, "app:pw@tcp(db.internal:3306)/fooddash?charset=utf8mb4&parseTime=True&loc=Local", c.DSN())
}
