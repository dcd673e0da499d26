package services

import (
	"sync/atomic"
	"time"
)

// StatsSnapshot is a point-in-time copy of the worker's counters.
type StatsSnapshot struct {
	MessagesProcessed   uint64  `json:"messages_processed"`
	MessagesFailed      uint64  `json:"messages_failed"`
	LastProcessedAt     int64   `json:"last_processed_at"`
	ServiceStartedAt    int64   `json:"service_started_at"`
	AverageProcessingMs float64 `json:"average_processing_ms"`
}

// Stats counts processed and failed records. Only the supervisor worker
// writes, after a record fully completed; health and stats readers take
// snapshots and tolerate being stale by one in-flight record.
type Stats struct {
	messagesProcessed atomic.Uint64
	messagesFailed    atomic.Uint64
	totalProcessingMs atomic.Int64
	lastProcessedAt   atomic.Int64
	serviceStartedAt  atomic.Int64
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) MarkStarted(t time.Time) {
	s.serviceStartedAt.Store(t.Unix())
}

func (s *Stats) RecordProcessed(elapsed time.Duration) {
	s.messagesProcessed.Add(1)
	s.totalProcessingMs.Add(elapsed.Milliseconds())
	s.lastProcessedAt.Store(time.Now().Unix())
}

func (s *Stats) RecordFailed(elapsed time.Duration) {
	s.messagesFailed.Add(1)
	s.totalProcessingMs.Add(elapsed.Milliseconds())
	s.lastProcessedAt.Store(time.Now().Unix())
}

func (s *Stats) Snapshot() StatsSnapshot {
	snapshot := StatsSnapshot{
		MessagesProcessed: s.messagesProcessed.Load(),
		MessagesFailed:    s.messagesFailed.Load(),
		LastProcessedAt:   s.lastProcessedAt.Load(),
		ServiceStartedAt:  s.serviceStartedAt.Load(),
	}
	total := snapshot.MessagesProcessed + snapshot.MessagesFailed
	if total > 0 {
		snapshot.AverageProcessingMs = float64(s.totalProcessingMs.Load()) / float64(total)
	}
	return snapshot
}
