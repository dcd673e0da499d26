package scoring

import (
	"github.com/rs/zerolog/log"

	"github.com/defilabs-io/wallet-scoring-service/internal/types"
)

// LPCategory is the liquidity-provision half of a scoring result.
type LPCategory struct {
	Score    float64
	Features LPFeatures
	Tags     []string
}

// SwapCategory is the trading half of a scoring result.
type SwapCategory struct {
	Score    float64
	Features SwapFeatures
	Tags     []string
}

// Result is the complete scoring outcome for one wallet.
type Result struct {
	ZScore float64
	LP     LPCategory
	Swap   SwapCategory
}

// Model is the fixed heuristic reputation model for DEX activity.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// ScoreWallet runs the full scoring pipeline for one wallet batch. An
// empty batch is a valid, scorable state and yields a zero-valued result.
func (m *Model) ScoreWallet(walletAddress string, batch *types.WalletBatch) Result {
	txs := batch.DexTransactions()
	if len(txs) == 0 {
		log.Debug().Str("wallet", walletAddress).Msg("no dex transactions, returning zero result")
		return Result{
			LP:   LPCategory{Tags: []string{}},
			Swap: SwapCategory{Tags: []string{}},
		}
	}

	lpFeatures := ExtractLPFeatures(txs)
	lpScore, _ := LPScore(lpFeatures)

	swapFeatures := ExtractSwapFeatures(txs)
	swapScore, _ := SwapScore(swapFeatures)

	finalScore := CombineScores(lpScore, swapScore)
	zscore := ZScore(finalScore)

	tags := GenerateTags(lpFeatures, swapFeatures)

	log.Debug().
		Str("wallet", walletAddress).
		Float64("lpScore", lpScore).
		Float64("swapScore", swapScore).
		Float64("zscore", zscore).
		Msg("wallet scored")

	return Result{
		ZScore: zscore,
		LP: LPCategory{
			Score:    roundTo(lpScore, 2),
			Features: lpFeatures,
			Tags:     LPTags(tags),
		},
		Swap: SwapCategory{
			Score:    roundTo(swapScore, 2),
			Features: swapFeatures,
			Tags:     TraderTags(tags),
		},
	}
}
