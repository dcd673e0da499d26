package db

import (
	"context"
	"time"

	"github.com/defilabs-io/wallet-scoring-service/internal/db/model"
	"github.com/defilabs-io/wallet-scoring-service/internal/observability/metrics"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) SaveWalletScore(ctx context.Context, doc *model.WalletScoreDocument) error {
	return d.run("SaveWalletScore", func() error {
		return d.db.SaveWalletScore(ctx, doc)
	})
}

func (d *DbWithMetrics) GetWalletScore(ctx context.Context, walletAddress string) (result *model.WalletScoreDocument, err error) {
	//nolint:errcheck
	d.run("GetWalletScore", func() error {
		result, err = d.db.GetWalletScore(ctx, walletAddress)
		return err
	})

	return
}

func (d *DbWithMetrics) GetLatestScores(ctx context.Context, limit int64) (result []model.WalletScoreDocument, err error) {
	//nolint:errcheck
	d.run("GetLatestScores", func() error {
		result, err = d.db.GetLatestScores(ctx, limit)
		return err
	})

	return
}

func (d *DbWithMetrics) run(method string, f func() error) error {
	start := time.Now()
	err := f()
	outcome := metrics.Success
	if err != nil {
		outcome = metrics.Error
	}
	metrics.ObserveDbLatency(method, outcome, time.Since(start))

	return err
}
