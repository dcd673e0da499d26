package config

import "fmt"

const (
	defaultMetricsPort  = 2112
	maxPortNumber       = 65535
	minValidMetricsPort = 1024
)

type MetricsConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (cfg *MetricsConfig) Validate() error {
	if cfg.Port == 0 {
		cfg.Port = defaultMetricsPort
	}
	if cfg.Port < minValidMetricsPort || cfg.Port > maxPortNumber {
		return fmt.Errorf("invalid metrics port: %d", cfg.Port)
	}
	return nil
}

func (cfg *MetricsConfig) GetMetricsPort() int {
	return cfg.Port
}
