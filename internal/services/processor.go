package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/defilabs-io/wallet-scoring-service/internal/db/model"
	"github.com/defilabs-io/wallet-scoring-service/internal/observability/metrics"
	"github.com/defilabs-io/wallet-scoring-service/internal/observability/tracing"
	"github.com/defilabs-io/wallet-scoring-service/internal/scoring"
	"github.com/defilabs-io/wallet-scoring-service/internal/types"
)

const archiveTimeout = 5 * time.Second

// processMessage runs the decode→extract→score→encode pipeline for one
// record and emits the outcome. Validation and compute errors are
// converted to a failure record and never escape; only transport errors
// are returned.
func (s *Service) processMessage(ctx context.Context, msg kafka.Message) error {
	ctx = tracing.InjectTraceID(ctx)
	logger := log.Ctx(ctx)
	start := time.Now()

	batch, result, err := s.scoreRecord(msg.Value)
	if err != nil {
		elapsed := time.Since(start)
		failure := encodeFailure(msg.Value, err, elapsed)
		payload, marshalErr := json.Marshal(failure)
		if marshalErr != nil {
			return types.NewTransportError("encode failure record", marshalErr)
		}
		if pubErr := s.stream.PublishFailure(ctx, []byte(failure.WalletAddress), payload); pubErr != nil {
			metrics.RecordPublishError()
			return pubErr
		}

		s.stats.RecordFailed(elapsed)
		metrics.RecordMessageProcessed(metrics.Error, elapsed)
		logger.Warn().
			Err(err).
			Str("wallet", failure.WalletAddress).
			Msg("record failed, routed to failure topic")
		return nil
	}

	elapsed := time.Since(start)
	success := encodeSuccess(result, batch, elapsed)
	payload, marshalErr := json.Marshal(success)
	if marshalErr != nil {
		return types.NewTransportError("encode success record", marshalErr)
	}
	if pubErr := s.stream.PublishSuccess(ctx, []byte(success.WalletAddress), payload); pubErr != nil {
		metrics.RecordPublishError()
		return pubErr
	}

	s.archiveScore(ctx, success, result)
	s.stats.RecordProcessed(elapsed)
	metrics.RecordMessageProcessed(metrics.Success, elapsed)
	logger.Info().
		Str("wallet", success.WalletAddress).
		Str("zscore", success.ZScore).
		Int64("processingTimeMs", success.ProcessingTimeMs).
		Msg("wallet processed")
	return nil
}

// scoreRecord decodes and scores one raw record. Scoring is pure over
// validated input, but a panic there is still downgraded to a
// ComputeError so a poisoned record cannot take the worker down.
func (s *Service) scoreRecord(raw []byte) (batch *types.WalletBatch, result scoring.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewComputeError("scoring", fmt.Sprintf("%v", r))
		}
	}()

	batch, err = types.DecodeWalletBatch(raw)
	if err != nil {
		return nil, scoring.Result{}, err
	}
	result = s.model.ScoreWallet(batch.WalletAddress, batch)
	return batch, result, nil
}

// archiveScore stores the published result in the score archive. Purely
// best-effort: an archive failure logs and counts, the record stays
// successful.
func (s *Service) archiveScore(ctx context.Context, success *types.ScoreSuccessMessage, result scoring.Result) {
	if s.db == nil {
		return
	}
	archiveCtx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	tags := map[string][]string{
		types.CategoryLiquidityProvision: result.LP.Tags,
		types.CategoryTrading:            result.Swap.Tags,
	}
	doc := model.FromSuccessMessage(success, tags)
	if err := s.db.SaveWalletScore(archiveCtx, doc); err != nil {
		metrics.RecordScoreArchiveError()
		log.Ctx(ctx).Warn().
			Err(err).
			Str("wallet", success.WalletAddress).
			Msg("failed to archive wallet score")
	}
}

// encodeSuccess composes the success record. The zscore travels as a
// decimal string; category transaction counts are taken from the
// original dexes transaction list, not from the features.
func encodeSuccess(result scoring.Result, batch *types.WalletBatch, elapsed time.Duration) *types.ScoreSuccessMessage {
	var lpCount, swapCount int
	for _, tx := range batch.DexTransactions() {
		switch {
		case tx.IsLP():
			lpCount++
		case tx.IsSwap():
			swapCount++
		}
	}

	return &types.ScoreSuccessMessage{
		WalletAddress:    batch.WalletAddress,
		ZScore:           formatZScore(result.ZScore),
		Timestamp:        time.Now().Unix(),
		ProcessingTimeMs: elapsed.Milliseconds(),
		Categories: []types.CategoryResult{
			{
				Category:         types.CategoryLiquidityProvision,
				Score:            result.LP.Score,
				TransactionCount: lpCount,
				Features:         result.LP.Features.ScoreFeatures(),
			},
			{
				Category:         types.CategoryTrading,
				Score:            result.Swap.Score,
				TransactionCount: swapCount,
				Features:         result.Swap.Features.ScoreFeatures(),
			},
		},
	}
}

// encodeFailure composes the failure record, recovering the wallet
// address from the raw payload on a best-effort basis.
func encodeFailure(raw []byte, cause error, elapsed time.Duration) *types.ScoreFailureMessage {
	return &types.ScoreFailureMessage{
		WalletAddress:    walletAddressFromRaw(raw),
		Error:            cause.Error(),
		Timestamp:        time.Now().Unix(),
		ProcessingTimeMs: elapsed.Milliseconds(),
		Categories:       []types.CategoryResult{},
	}
}

func walletAddressFromRaw(raw []byte) string {
	var probe struct {
		WalletAddress string `json:"wallet_address"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && probe.WalletAddress != "" {
		return probe.WalletAddress
	}
	return "unknown"
}

func formatZScore(z float64) string {
	return strconv.FormatFloat(z, 'f', -1, 64)
}
