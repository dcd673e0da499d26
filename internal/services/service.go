package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/defilabs-io/wallet-scoring-service/internal/config"
	"github.com/defilabs-io/wallet-scoring-service/internal/db"
	"github.com/defilabs-io/wallet-scoring-service/internal/scoring"
	"github.com/defilabs-io/wallet-scoring-service/internal/types"
	"github.com/defilabs-io/wallet-scoring-service/internal/utils/poller"
)

// StreamClient is the consumer/producer pair the supervisor drives.
type StreamClient interface {
	Connect(ctx context.Context) error
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msg kafka.Message) error
	PublishSuccess(ctx context.Context, key, value []byte) error
	PublishFailure(ctx context.Context, key, value []byte) error
	Connected() bool
	Close() error
}

// Service is the stream supervisor. It owns the stream connections,
// drives the per-record pipeline in a single worker goroutine and
// retries connection-level failures with exponential backoff.
type Service struct {
	cfg    *config.Config
	db     db.DbInterface
	stream StreamClient
	model  *scoring.Model
	stats  *Stats

	mu     sync.Mutex
	state  types.SupervisorState
	cancel context.CancelFunc
	done   chan struct{}

	statsPoller *poller.Poller

	// sleep is replaced in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewService(cfg *config.Config, database db.DbInterface, stream StreamClient) *Service {
	return &Service{
		cfg:    cfg,
		db:     database,
		stream: stream,
		model:  scoring.NewModel(),
		stats:  NewStats(),
		state:  types.StateStopped,
		sleep:  sleepWithContext,
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// State returns the current supervisor state.
func (s *Service) State() types.SupervisorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) setState(state types.SupervisorState) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.mu.Unlock()

	if prev != state {
		log.Info().
			Str("from", prev.String()).
			Str("to", state.String()).
			Msg("supervisor state changed")
	}
}

// Stats returns a point-in-time copy of the worker's counters.
func (s *Service) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// Start launches the supervisor worker. Starting an already running
// service is an error.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return fmt.Errorf("supervisor is already running")
	}
	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.stats.MarkStarted(time.Now())
	go s.runLoop(workerCtx, done)

	log.Info().Msg("supervisor worker started")
	return nil
}

// Stop requests cooperative cancellation: the in-flight record finishes
// or aborts, both connections are closed and the state lands in STOPPED
// regardless of prior retry state.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	s.setState(types.StateStopping)
	cancel()
	<-done
	s.setState(types.StateStopped)

	log.Info().Msg("supervisor worker stopped")
}

// Restart stops the worker if it is running and starts a fresh one.
// This is the only way out of the terminal FAILED state.
func (s *Service) Restart(ctx context.Context) error {
	s.Stop()
	return s.Start(ctx)
}

// StartStatsPoller launches the background observability sync: it mirrors
// the supervisor state into the metrics gauge and pings the score archive.
func (s *Service) StartStatsPoller(ctx context.Context) {
	s.statsPoller = poller.NewPoller(s.cfg.Supervisor.StatsPollInterval, s.syncObservability)
	go s.statsPoller.Start(ctx)
}

func (s *Service) StopStatsPoller() {
	if s.statsPoller != nil {
		s.statsPoller.Stop()
		s.statsPoller = nil
	}
}
