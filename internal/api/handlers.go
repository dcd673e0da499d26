package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/defilabs-io/wallet-scoring-service/internal/db"
)

const defaultScoresLimit = 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to write response body")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": s.cfg.Service.Name,
		"version": s.cfg.Service.Version,
		"state":   s.service.State().String(),
	})
}

// handleHealth reports readiness: 200 while the worker is running or
// retrying, 503 once it is stopped or failed.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.service.Health(r.Context())
	status := http.StatusOK
	if !s.service.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Stats())
}

// handleConfig exposes the effective runtime configuration with
// credentials masked.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": map[string]string{
			"name":    s.cfg.Service.Name,
			"version": s.cfg.Service.Version,
		},
		"kafka": map[string]any{
			"brokers":        s.cfg.Kafka.Brokers,
			"input_topic":    s.cfg.Kafka.InputTopic,
			"success_topic":  s.cfg.Kafka.SuccessTopic,
			"failure_topic":  s.cfg.Kafka.FailureTopic,
			"consumer_group": s.cfg.Kafka.ConsumerGroup,
		},
		"db": map[string]string{
			"address":  s.cfg.Db.Address,
			"db_name":  s.cfg.Db.DbName,
			"username": maskCredential(s.cfg.Db.Username),
			"password": maskCredential(s.cfg.Db.Password),
		},
		"supervisor": map[string]any{
			"max_retries":  s.cfg.Supervisor.MaxRetries,
			"base_backoff": s.cfg.Supervisor.BaseBackoff.String(),
		},
	})
}

func maskCredential(value string) string {
	if value == "" {
		return ""
	}
	return "********"
}

// handleRestart tears the worker down and starts a fresh one. This is
// the operator's way out of the terminal failed state.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Restart(s.runCtx); err != nil {
		log.Error().Err(err).Msg("failed to restart supervisor worker")
		writeError(w, http.StatusInternalServerError, "failed to restart worker")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "restarted",
		"state":  s.service.State().String(),
	})
}

func (s *Server) handleWalletScore(w http.ResponseWriter, r *http.Request) {
	walletAddress := chi.URLParam(r, "walletAddress")
	if walletAddress == "" {
		writeError(w, http.StatusBadRequest, "wallet address is required")
		return
	}
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "score archive is not configured")
		return
	}

	doc, err := s.db.GetWalletScore(r.Context(), walletAddress)
	if err != nil {
		if db.IsNotFoundError(err) {
			writeError(w, http.StatusNotFound, "no score recorded for wallet")
			return
		}
		log.Error().Err(err).Str("wallet", walletAddress).Msg("failed to load wallet score")
		writeError(w, http.StatusInternalServerError, "failed to load wallet score")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleLatestScores(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "score archive is not configured")
		return
	}

	limit := int64(defaultScoresLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	docs, err := s.db.GetLatestScores(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load latest scores")
		writeError(w, http.StatusInternalServerError, "failed to load latest scores")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}
