package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
server:
  address: ":9090"
warehouse:
  driver: duckdb
  dsn: ""
completion:
  backend: anthropic
  model: claude-sonnet-4-5
  anthropic_api_key: from-file
events:
  sink: none
`)
	t.Setenv("COMPLETION_MODEL", "claude-haiku-4-5")
	t.Setenv("S3_BUCKET_NAME", "transcripts-bucket")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 3*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, DriverDuckDB, cfg.Warehouse.Driver)
	assert.Equal(t, "claude-haiku-4-5", cfg.Completion.Model)
	assert.Equal(t, "from-file", cfg.Completion.AnthropicAPIKey)
	assert.Equal(t, "transcripts-bucket", cfg.S3.BucketName)
	assert.Equal(t, 15*time.Minute, cfg.S3.PresignTTL)
	assert.Equal(t, SinkNone, cfg.Events.Sink)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "WAREHOUSE_ACCOUNT=org-acct\nWAREHOUSE_USER=trainer\n")
	t.Cleanup(func() {
		os.Unsetenv("WAREHOUSE_ACCOUNT")
		os.Unsetenv("WAREHOUSE_USER")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DriverSnowflake, cfg.Warehouse.Driver)
	assert.Equal(t, "org-acct", cfg.Warehouse.Account)
	assert.Equal(t, "TRAINING_WH", cfg.Warehouse.Warehouse)
	assert.Equal(t, BackendCortex, cfg.Completion.Backend)
	assert.Equal(t, "mistral-7b", cfg.Completion.Model)
}

func TestValidate(t *testing.T) {
	base := Config{
		Warehouse:  WarehouseConfig{Driver: DriverSnowflake, Account: "a", User: "u"},
		Completion: CompletionConfig{Backend: BackendCortex, Model: "mistral-7b"},
		Events:     EventsConfig{Sink: SinkWarehouse},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Warehouse.Driver = "oracle" }},
		{"snowflake without account", func(c *Config) { c.Warehouse.Account = "" }},
		{"cortex off snowflake", func(c *Config) { c.Warehouse.Driver = DriverDuckDB }},
		{"anthropic without key", func(c *Config) { c.Completion.Backend = BackendAnthropic }},
		{"empty model", func(c *Config) { c.Completion.Model = "" }},
		{"mongo without uri", func(c *Config) { c.Events.Sink = SinkMongo }},
		{"unknown sink", func(c *Config) { c.Events.Sink = "kafka" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
