package config

import (
	"errors"
	"time"
)

const (
	defaultMaxRetries        = 5
	defaultBaseBackoff       = 5 * time.Second
	defaultStatsPollInterval = 15 * time.Second
)

type SupervisorConfig struct {
	MaxRetries        int           `mapstructure:"max-retries"`
	BaseBackoff       time.Duration `mapstructure:"base-backoff"`
	StatsPollInterval time.Duration `mapstructure:"stats-poll-interval"`
}

func (cfg *SupervisorConfig) Validate() error {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MaxRetries < 0 {
		return errors.New("supervisor max-retries must not be negative")
	}
	if cfg.BaseBackoff == 0 {
		cfg.BaseBackoff = defaultBaseBackoff
	}
	if cfg.BaseBackoff < 0 {
		return errors.New("supervisor base-backoff must not be negative")
	}
	if cfg.StatsPollInterval <= 0 {
		cfg.StatsPollInterval = defaultStatsPollInterval
	}
	return nil
}
