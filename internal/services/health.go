package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/defilabs-io/wallet-scoring-service/internal/observability/metrics"
	"github.com/defilabs-io/wallet-scoring-service/internal/types"
)

const healthPingTimeout = 2 * time.Second

// HealthStatus is the readiness report exposed over the admin API.
type HealthStatus struct {
	Status          string                `json:"status"`
	SupervisorState types.SupervisorState `json:"supervisor_state"`
	StreamConnected bool                  `json:"stream_connected"`
	DbConnected     bool                  `json:"db_connected"`
	Stats           StatsSnapshot         `json:"stats"`
}

// Health reports whether the service is able to do useful work. The
// score archive is best-effort, so its reachability is reported but
// does not flip the overall status.
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		SupervisorState: s.State(),
		StreamConnected: s.stream.Connected(),
		Stats:           s.stats.Snapshot(),
	}

	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
		status.DbConnected = s.db.Ping(pingCtx) == nil
		cancel()
	}

	if s.Healthy() {
		status.Status = "healthy"
	} else {
		status.Status = "unhealthy"
	}
	return status
}

// Healthy is the liveness condition: the worker is running or between
// retries, not stopped or failed.
func (s *Service) Healthy() bool {
	switch s.State() {
	case types.StateRunning, types.StateStarting, types.StateRetrying:
		return true
	default:
		return false
	}
}

// syncObservability is the stats poller body. It mirrors the supervisor
// state into the metrics gauge and probes the score archive.
func (s *Service) syncObservability(ctx context.Context) error {
	metrics.SetSupervisorState(s.State().String(), types.AllSupervisorStates())

	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
		defer cancel()
		if err := s.db.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Msg("score archive is unreachable")
		}
	}
	return nil
}
