package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
		},
		Db: DbConfig{
			Address: "mongodb://localhost:27017",
		},
	}
}

func TestConfigValidateAppliesDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "DeFi Reputation Scoring Server", cfg.Service.Name)
	assert.Equal(t, "1.0.0", cfg.Service.Version)
	assert.Equal(t, "wallet-transactions", cfg.Kafka.InputTopic)
	assert.Equal(t, "wallet-scores-success", cfg.Kafka.SuccessTopic)
	assert.Equal(t, "wallet-scores-failure", cfg.Kafka.FailureTopic)
	assert.Equal(t, "ai-scoring-service", cfg.Kafka.ConsumerGroup)
	assert.Equal(t, "ai_scoring", cfg.Db.DbName)
	assert.Equal(t, 8000, cfg.Api.Port)
	assert.Equal(t, 2112, cfg.Metrics.Port)
	assert.Equal(t, 5, cfg.Supervisor.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Supervisor.BaseBackoff)
	assert.Equal(t, 15*time.Second, cfg.Supervisor.StatsPollInterval)
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{
			name:   "empty kafka brokers",
			mutate: func(cfg *Config) { cfg.Kafka.Brokers = nil },
		},
		{
			name: "success and failure topics collide",
			mutate: func(cfg *Config) {
				cfg.Kafka.SuccessTopic = "scores"
				cfg.Kafka.FailureTopic = "scores"
			},
		},
		{
			name: "input topic collides with an output topic",
			mutate: func(cfg *Config) {
				cfg.Kafka.InputTopic = "scores"
				cfg.Kafka.SuccessTopic = "scores"
			},
		},
		{
			name:   "empty db address",
			mutate: func(cfg *Config) { cfg.Db.Address = "" },
		},
		{
			name:   "db address with a non-mongodb scheme",
			mutate: func(cfg *Config) { cfg.Db.Address = "postgres://localhost:5432" },
		},
		{
			name:   "api port out of range",
			mutate: func(cfg *Config) { cfg.Api.Port = 70000 },
		},
		{
			name:   "metrics port below the allowed range",
			mutate: func(cfg *Config) { cfg.Metrics.Port = 80 },
		},
		{
			name:   "negative max retries",
			mutate: func(cfg *Config) { cfg.Supervisor.MaxRetries = -1 },
		},
		{
			name:   "negative base backoff",
			mutate: func(cfg *Config) { cfg.Supervisor.BaseBackoff = -time.Second },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLoadsConfigFile(t *testing.T) {
	const content = `
service:
  name: test-scoring
kafka:
  brokers:
    - localhost:9092
  input-topic: txs-in
db:
  address: mongodb://localhost:27017
  db-name: scoring_test
supervisor:
  max-retries: 3
  base-backoff: 2s
`
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := New(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "test-scoring", cfg.Service.Name)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "txs-in", cfg.Kafka.InputTopic)
	assert.Equal(t, "scoring_test", cfg.Db.DbName)
	assert.Equal(t, 3, cfg.Supervisor.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Supervisor.BaseBackoff)
	// untouched sections still pick up defaults
	assert.Equal(t, "wallet-scores-success", cfg.Kafka.SuccessTopic)
}

func TestNewMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
