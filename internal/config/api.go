package config

import "fmt"

const defaultApiPort = 8000

type ApiConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (cfg *ApiConfig) Validate() error {
	if cfg.Port == 0 {
		cfg.Port = defaultApiPort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid api port: %d", cfg.Port)
	}
	return nil
}

func (cfg *ApiConfig) Address() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}
