package db

import (
	"context"

	"github.com/defilabs-io/wallet-scoring-service/internal/db/model"
)

type DbInterface interface {
	Ping(ctx context.Context) error
	SaveWalletScore(ctx context.Context, doc *model.WalletScoreDocument) error
	GetWalletScore(ctx context.Context, walletAddress string) (*model.WalletScoreDocument, error)
	GetLatestScores(ctx context.Context, limit int64) ([]model.WalletScoreDocument, error)
}
