package scoring

import "github.com/defilabs-io/wallet-scoring-service/internal/types"

// ScoreFeatures maps the LP features onto the shared wire shape. Swap
// fields stay zero.
func (f LPFeatures) ScoreFeatures() types.ScoreFeatures {
	return types.ScoreFeatures{
		TotalDepositUSD:  f.TotalDepositUSD,
		TotalWithdrawUSD: f.TotalWithdrawUSD,
		NumDeposits:      f.NumDeposits,
		NumWithdraws:     f.NumWithdraws,
		WithdrawRatio:    f.WithdrawRatio,
		AvgHoldTimeDays:  f.AvgHoldTimeDays,
		AccountAgeDays:   f.AccountAgeDays,
		UniquePools:      f.UniquePools,
	}
}

// ScoreFeatures maps the swap features onto the shared wire shape. LP
// fields stay zero.
func (f SwapFeatures) ScoreFeatures() types.ScoreFeatures {
	return types.ScoreFeatures{
		TotalSwapVolume:    f.TotalSwapVolume,
		NumSwaps:           f.NumSwaps,
		UniquePoolsSwapped: f.UniquePoolsSwapped,
		AvgSwapSize:        f.AvgSwapSize,
		TokenDiversity:     f.TokenDiversity,
		SwapFrequency:      f.SwapFrequency,
	}
}
