package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/defilabs-io/wallet-scoring-service/internal/observability/metrics"
	"github.com/defilabs-io/wallet-scoring-service/internal/types"
)

// runLoop is the supervisor state machine. It opens the stream pair,
// consumes until a transport error, then backs off exponentially:
// delay = base * 2^(attempt-1). A healthy run resets the attempt
// counter; exceeding the retry budget is terminal.
func (s *Service) runLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	attempt := 0
	for {
		s.setState(types.StateStarting)

		err := s.stream.Connect(ctx)
		if err == nil {
			s.setState(types.StateRunning)
			err = s.consumeLoop(ctx, func() { attempt = 0 })
		}

		if closeErr := s.stream.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close stream client")
		}

		if ctx.Err() != nil || err == nil {
			s.setState(types.StateStopped)
			return
		}

		attempt++
		if attempt > s.cfg.Supervisor.MaxRetries {
			log.Error().
				Err(err).
				Int("maxRetries", s.cfg.Supervisor.MaxRetries).
				Msg("retry budget exhausted, supervisor entering terminal state")
			s.setState(types.StateFailed)
			return
		}

		delay := s.cfg.Supervisor.BaseBackoff << (attempt - 1)
		log.Error().
			Err(err).
			Int("attempt", attempt).
			Int("maxRetries", s.cfg.Supervisor.MaxRetries).
			Dur("delay", delay).
			Msg("stream failure, retrying after backoff")

		s.setState(types.StateRetrying)
		metrics.RecordReconnectAttempt()
		if !s.sleep(ctx, delay) {
			s.setState(types.StateStopped)
			return
		}
	}
}

// consumeLoop processes one record at a time: fetch, run the pipeline,
// commit. Only transport errors escape; per-record errors were already
// routed to the failure topic inside processMessage. The commit follows
// the emit so a crash can only replay, never drop (at-least-once).
func (s *Service) consumeLoop(ctx context.Context, onRecordDone func()) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		msg, err := s.stream.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := s.processMessage(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := s.stream.Commit(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		onRecordDone()
	}
}
