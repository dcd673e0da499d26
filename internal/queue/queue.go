package queue

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/defilabs-io/wallet-scoring-service/internal/config"
	"github.com/defilabs-io/wallet-scoring-service/internal/types"
)

const (
	minFetchBytes = 10e3 // 10KB
	maxFetchBytes = 10e6 // 10MB
	dialTimeout   = 10 * time.Second
)

// Client bundles the inbound reader and the two outbound writers. The
// supervisor opens and closes them as a pair; offsets are committed
// manually, strictly after the corresponding output record was written.
type Client struct {
	cfg config.KafkaConfig

	reader        *kafka.Reader
	successWriter *kafka.Writer
	failureWriter *kafka.Writer

	connected atomic.Bool
}

func NewClient(cfg config.KafkaConfig) *Client {
	return &Client{cfg: cfg}
}

// Connect opens the consumer and both producers. Either side failing
// aborts the whole attempt; a partially opened pair is closed again.
func (c *Client) Connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	// Readers and writers dial lazily, so probe the broker up front to
	// fail the attempt here instead of mid-loop.
	conn, err := kafka.DialContext(dialCtx, "tcp", c.cfg.Brokers[0])
	if err != nil {
		return types.NewTransportError("connect", err)
	}
	if err := conn.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close kafka probe connection")
	}

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		Topic:    c.cfg.InputTopic,
		GroupID:  c.cfg.ConsumerGroup,
		MinBytes: minFetchBytes,
		MaxBytes: maxFetchBytes,
		// Manual commits only: the supervisor acknowledges a record
		// after its result was emitted downstream.
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
	c.successWriter = c.newWriter(c.cfg.SuccessTopic)
	c.failureWriter = c.newWriter(c.cfg.FailureTopic)
	c.connected.Store(true)

	log.Info().
		Str("inputTopic", c.cfg.InputTopic).
		Str("successTopic", c.cfg.SuccessTopic).
		Str("failureTopic", c.cfg.FailureTopic).
		Str("consumerGroup", c.cfg.ConsumerGroup).
		Msg("kafka client connected")

	return nil
}

func (c *Client) newWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // wallet address keys map to stable partitions
		RequiredAcks: kafka.RequireAll,
	}
}

// Fetch blocks until the next inbound record is available.
func (c *Client) Fetch(ctx context.Context) (kafka.Message, error) {
	if c.reader == nil {
		return kafka.Message{}, types.NewTransportError("fetch", fmt.Errorf("client is not connected"))
	}
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return kafka.Message{}, ctx.Err()
		}
		c.connected.Store(false)
		return kafka.Message{}, types.NewTransportError("fetch", err)
	}
	return msg, nil
}

// Commit acknowledges a fully processed record.
func (c *Client) Commit(ctx context.Context, msg kafka.Message) error {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.connected.Store(false)
		return types.NewTransportError("commit", err)
	}
	return nil
}

// PublishSuccess writes one record to the success topic, keyed by wallet
// address so all results for a wallet land on the same partition.
func (c *Client) PublishSuccess(ctx context.Context, key, value []byte) error {
	return c.publish(ctx, c.successWriter, key, value)
}

// PublishFailure writes one record to the failure topic.
func (c *Client) PublishFailure(ctx context.Context, key, value []byte) error {
	return c.publish(ctx, c.failureWriter, key, value)
}

func (c *Client) publish(ctx context.Context, writer *kafka.Writer, key, value []byte) error {
	if writer == nil {
		return types.NewTransportError("publish", fmt.Errorf("client is not connected"))
	}
	err := writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.connected.Store(false)
		return types.NewTransportError("publish", err)
	}
	return nil
}

// Connected reports whether the pair is currently believed healthy. It
// flips to false on the first transport error and back on reconnect.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Close closes both sides. Safe to call on a never-connected client.
func (c *Client) Close() error {
	c.connected.Store(false)

	var firstErr error
	if c.reader != nil {
		if err := c.reader.Close(); err != nil {
			firstErr = err
		}
		c.reader = nil
	}
	for _, writer := range []*kafka.Writer{c.successWriter, c.failureWriter} {
		if writer == nil {
			continue
		}
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.successWriter = nil
	c.failureWriter = nil

	if firstErr != nil {
		return types.NewTransportError("close", firstErr)
	}
	return nil
}
