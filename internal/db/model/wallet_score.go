package model

import "github.com/defilabs-io/wallet-scoring-service/internal/types"

const WalletScoreCollection = "wallet_scores"

// WalletScoreDocument is the archived latest published score of a wallet.
// The wallet address is the document id, so re-scoring a wallet replaces
// its previous entry.
type WalletScoreDocument struct {
	WalletAddress    string                 `bson:"_id"`
	ZScore           string                 `bson:"zscore"`
	Timestamp        int64                  `bson:"timestamp"`
	ProcessingTimeMs int64                  `bson:"processing_time_ms"`
	Categories       []WalletScoreCategory `bson:"categories"`
	UpdatedAt        int64                  `bson:"updated_at"`
}

type WalletScoreCategory struct {
	Category         string              `bson:"category"`
	Score            float64             `bson:"score"`
	TransactionCount int                 `bson:"transaction_count"`
	Tags             []string            `bson:"tags,omitempty"`
	Features         types.ScoreFeatures `bson:"features"`
}

// FromSuccessMessage converts a published success record into its archive
// document.
func FromSuccessMessage(msg *types.ScoreSuccessMessage, tags map[string][]string) *WalletScoreDocument {
	categories := make([]WalletScoreCategory, 0, len(msg.Categories))
	for _, cat := range msg.Categories {
		categories = append(categories, WalletScoreCategory{
			Category:         cat.Category,
			Score:            cat.Score,
			TransactionCount: cat.TransactionCount,
			Tags:             tags[cat.Category],
			Features:         cat.Features,
		})
	}
	return &WalletScoreDocument{
		WalletAddress:    msg.WalletAddress,
		ZScore:           msg.ZScore,
		Timestamp:        msg.Timestamp,
		ProcessingTimeMs: msg.ProcessingTimeMs,
		Categories:       categories,
		UpdatedAt:        msg.Timestamp,
	}
}
