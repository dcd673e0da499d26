package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Service    ServiceConfig    `mapstructure:"service"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Db         DbConfig         `mapstructure:"db"`
	Api        ApiConfig        `mapstructure:"api"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Supervisor SupervisorConfig `mapstructure:"supervisor"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Service.Validate(); err != nil {
		return err
	}
	if err := cfg.Kafka.Validate(); err != nil {
		return err
	}
	if err := cfg.Db.Validate(); err != nil {
		return err
	}
	if err := cfg.Api.Validate(); err != nil {
		return err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}
	return cfg.Supervisor.Validate()
}

// New loads the config file at cfgPath. Every key can be overridden
// through the environment, e.g. KAFKA_BROKERS or SUPERVISOR_MAX_RETRIES.
func New(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgPath, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

type ServiceConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

func (cfg *ServiceConfig) Validate() error {
	if cfg.Name == "" {
		cfg.Name = "DeFi Reputation Scoring Server"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	return nil
}
