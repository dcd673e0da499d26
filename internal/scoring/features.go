package scoring

import (
	"sort"
	"strings"

	"github.com/defilabs-io/wallet-scoring-service/internal/types"
)

const secondsPerDay = 86400

// stableTokens is the fixed set of fiat-pegged tokens, matched
// case-insensitively. Stables count for less in diversity scoring.
var stableTokens = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"DAI":  {},
	"LUSD": {},
	"USDP": {},
	"TUSD": {},
	"FRAX": {},
}

func isStableToken(symbol string) bool {
	_, ok := stableTokens[strings.ToUpper(symbol)]
	return ok
}

// LPFeatures are the liquidity-provision features of one wallet.
type LPFeatures struct {
	TotalDepositUSD  float64
	TotalWithdrawUSD float64
	NumDeposits      int
	NumWithdraws     int
	WithdrawRatio    float64
	AvgHoldTimeDays  float64
	AccountAgeDays   float64
	UniquePools      int
}

// SwapFeatures are the trading features of one wallet.
type SwapFeatures struct {
	TotalSwapVolume    float64
	NumSwaps           int
	UniqueTokens       int
	UniquePoolsSwapped int
	AvgSwapSize        float64
	TokenDiversity     int
	SwapFrequency      float64
}

// ExtractLPFeatures computes the liquidity-provision features over the
// deposit and withdraw transactions in txs.
func ExtractLPFeatures(txs []types.Transaction) LPFeatures {
	var (
		lpTxs     []types.Transaction
		deposits  []types.Transaction
		withdraws []types.Transaction
	)
	for _, tx := range txs {
		if !tx.IsLP() {
			continue
		}
		lpTxs = append(lpTxs, tx)
		if tx.Action == types.ActionDeposit {
			deposits = append(deposits, tx)
		} else {
			withdraws = append(withdraws, tx)
		}
	}

	var features LPFeatures
	features.NumDeposits = len(deposits)
	features.NumWithdraws = len(withdraws)
	for _, tx := range deposits {
		features.TotalDepositUSD += tx.AmountUSD()
	}
	for _, tx := range withdraws {
		features.TotalWithdrawUSD += tx.AmountUSD()
	}
	if features.TotalDepositUSD > 0 {
		features.WithdrawRatio = features.TotalWithdrawUSD / features.TotalDepositUSD
	}

	features.AccountAgeDays = accountAgeDays(lpTxs)
	features.AvgHoldTimeDays = holdingTimeDays(deposits, withdraws)
	features.UniquePools = uniquePools(lpTxs)

	return features
}

// accountAgeDays is the span between the oldest and newest parsable LP
// timestamps. Fewer than two parsable timestamps yield zero.
func accountAgeDays(lpTxs []types.Transaction) float64 {
	var stamps []float64
	for _, tx := range lpTxs {
		if ts, ok := tx.Timestamp.Epoch(); ok {
			stamps = append(stamps, ts)
		}
	}
	if len(stamps) < 2 {
		return 0
	}
	minTs, maxTs := stamps[0], stamps[0]
	for _, ts := range stamps[1:] {
		if ts < minTs {
			minTs = ts
		}
		if ts > maxTs {
			maxTs = ts
		}
	}
	return (maxTs - minTs) / secondsPerDay
}

// holdingTimeDays matches each deposit to the earliest withdraw strictly
// after it. Withdraws are not consumed once matched, so a single withdraw
// may satisfy several deposits; deposits with no later withdraw are left
// out of the average entirely.
func holdingTimeDays(deposits, withdraws []types.Transaction) float64 {
	if len(deposits) == 0 {
		return 0
	}

	var withdrawTimes []float64
	for _, w := range withdraws {
		if ts, ok := w.Timestamp.Epoch(); ok {
			withdrawTimes = append(withdrawTimes, ts)
		}
	}

	var holdingTimes []float64
	for _, d := range deposits {
		depositTime, ok := d.Timestamp.Epoch()
		if !ok {
			continue
		}
		earliest, matched := 0.0, false
		for _, wt := range withdrawTimes {
			if wt <= depositTime {
				continue
			}
			if !matched || wt < earliest {
				earliest = wt
				matched = true
			}
		}
		if matched {
			holdingTimes = append(holdingTimes, (earliest-depositTime)/secondsPerDay)
		}
	}

	if len(holdingTimes) == 0 {
		return 0
	}
	var sum float64
	for _, h := range holdingTimes {
		sum += h
	}
	return sum / float64(len(holdingTimes))
}

// ExtractSwapFeatures computes the trading features over the swap
// transactions in txs.
func ExtractSwapFeatures(txs []types.Transaction) SwapFeatures {
	var swaps []types.Transaction
	for _, tx := range txs {
		if tx.IsSwap() {
			swaps = append(swaps, tx)
		}
	}

	var features SwapFeatures
	if len(swaps) == 0 {
		return features
	}

	features.NumSwaps = len(swaps)
	for _, tx := range swaps {
		features.TotalSwapVolume += tx.AmountUSD()
	}
	features.AvgSwapSize = features.TotalSwapVolume / float64(features.NumSwaps)

	features.UniqueTokens = len(uniqueTokenSymbols(swaps))
	features.UniquePoolsSwapped = uniquePools(swaps)
	features.TokenDiversity = tokenDiversity(swaps)
	features.SwapFrequency = swapFrequency(swaps)

	return features
}

func uniquePools(txs []types.Transaction) int {
	pools := make(map[string]struct{})
	for _, tx := range txs {
		if tx.PoolID != "" {
			pools[tx.PoolID] = struct{}{}
		}
	}
	return len(pools)
}

func uniqueTokenSymbols(swaps []types.Transaction) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tx := range swaps {
		if tx.TokenIn != nil && tx.TokenIn.Symbol != "" {
			tokens[tx.TokenIn.Symbol] = struct{}{}
		}
		if tx.TokenOut != nil && tx.TokenOut.Symbol != "" {
			tokens[tx.TokenOut.Symbol] = struct{}{}
		}
	}
	return tokens
}

// tokenDiversity weighs volatile tokens above stables: stable*10 +
// volatile*15, capped at 150.
func tokenDiversity(swaps []types.Transaction) int {
	tokens := uniqueTokenSymbols(swaps)
	if len(tokens) == 0 {
		return 0
	}
	var stableCount int
	for symbol := range tokens {
		if isStableToken(symbol) {
			stableCount++
		}
	}
	volatileCount := len(tokens) - stableCount

	score := stableCount*10 + volatileCount*15
	if score > 150 {
		score = 150
	}
	return score
}

// swapFrequency buckets the mean gap between consecutive swaps into a
// discrete score. It needs at least two swaps with parsable timestamps.
func swapFrequency(swaps []types.Transaction) float64 {
	var stamps []float64
	for _, tx := range swaps {
		if ts, ok := tx.Timestamp.Epoch(); ok {
			stamps = append(stamps, ts)
		}
	}
	if len(stamps) < 2 {
		return 0
	}
	sort.Float64s(stamps)

	var totalGapHours float64
	for i := 1; i < len(stamps); i++ {
		totalGapHours += (stamps[i] - stamps[i-1]) / 3600
	}
	avgGapHours := totalGapHours / float64(len(stamps)-1)

	switch {
	case avgGapHours <= 1:
		return 100
	case avgGapHours <= 24:
		return 80
	case avgGapHours <= 168:
		return 60
	case avgGapHours <= 720:
		return 40
	default:
		return 20
	}
}
