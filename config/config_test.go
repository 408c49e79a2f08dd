package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_SECRET_TOKEN", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "s3cret", cfg.APISecretToken)
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "lumos", cfg.Mongo.Database)
	assert.Equal(t, 5*time.Second, cfg.Mongo.Timeout)
	assert.True(t, cfg.Mongo.EnsureIndexes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
port: "9090"
api_secret_token: from-file
storage:
  driver: memory
mongo:
  database: lumos_test
log:
  level: debug
`)
	t.Setenv("API_SECRET_TOKEN", "from-env")
	t.Setenv("MONGO_DATABASE", "lumos_env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "from-env", cfg.APISecretToken)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "lumos_env", cfg.Mongo.Database)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("API_SECRET_TOKEN", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Port:           "8080",
			APISecretToken: "x",
			Storage:        StorageConfig{Driver: DriverMongo},
			Mongo:          MongoConfig{URI: "mongodb://localhost", Database: "lumos"},
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.APISecretToken = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Storage.Driver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Storage.Driver = DriverMemory
	cfg.Mongo = MongoConfig{}
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Mongo.URI = ""
	assert.Error(t, cfg.Validate())
}
