package config

import "errors"

const (
	defaultInputTopic    = "wallet-transactions"
	defaultSuccessTopic  = "wallet-scores-success"
	defaultFailureTopic  = "wallet-scores-failure"
	defaultConsumerGroup = "ai-scoring-service"
)

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	InputTopic    string   `mapstructure:"input-topic"`
	SuccessTopic  string   `mapstructure:"success-topic"`
	FailureTopic  string   `mapstructure:"failure-topic"`
	ConsumerGroup string   `mapstructure:"consumer-group"`
}

func (cfg *KafkaConfig) Validate() error {
	if len(cfg.Brokers) == 0 {
		return errors.New("kafka brokers must not be empty")
	}
	if cfg.InputTopic == "" {
		cfg.InputTopic = defaultInputTopic
	}
	if cfg.SuccessTopic == "" {
		cfg.SuccessTopic = defaultSuccessTopic
	}
	if cfg.FailureTopic == "" {
		cfg.FailureTopic = defaultFailureTopic
	}
	if cfg.SuccessTopic == cfg.FailureTopic {
		return errors.New("kafka success and failure topics must differ")
	}
	if cfg.InputTopic == cfg.SuccessTopic || cfg.InputTopic == cfg.FailureTopic {
		return errors.New("kafka input topic must differ from output topics")
	}
	if cfg.ConsumerGroup == "" {
		cfg.ConsumerGroup = defaultConsumerGroup
	}
	return nil
}
