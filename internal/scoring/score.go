package scoring

import "math"

// Reference distribution for z-score normalization. Fixed by the model,
// never derived from an observed population.
const (
	referenceMean   = 50.0
	referenceStdDev = 25.0
)

// Category weights for the combined score.
const (
	lpWeight   = 0.6
	swapWeight = 0.4
)

// ScoreBreakdown is the immutable per-term breakdown of an LP score.
type ScoreBreakdown struct {
	VolumeScore    float64
	FrequencyScore float64
	RetentionScore float64
	HoldingScore   float64
	DiversityScore float64
	TotalScore     float64
}

// SwapBreakdown is the immutable per-term breakdown of a swap score.
type SwapBreakdown struct {
	VolumeScore        float64
	FrequencyScore     float64
	DiversityScore     float64
	ActivityScore      float64
	PoolDiversityScore float64
	TotalScore         float64
}

// LPScore computes the liquidity-provision score from LP features as five
// additive terms, each capped on its own: volume 300, frequency 200,
// retention 250, holding 150, pool diversity 100.
func LPScore(features LPFeatures) (float64, ScoreBreakdown) {
	volumeScore := math.Min(features.TotalDepositUSD/10000*300, 300)
	frequencyScore := math.Min(float64(features.NumDeposits)*20, 200)
	retentionScore := math.Max(0, (1-features.WithdrawRatio)*250)
	holdingScore := math.Min(features.AvgHoldTimeDays/30*150, 150)
	diversityScore := math.Min(float64(features.UniquePools)*20, 100)

	total := volumeScore + frequencyScore + retentionScore + holdingScore + diversityScore

	return total, ScoreBreakdown{
		VolumeScore:    volumeScore,
		FrequencyScore: frequencyScore,
		RetentionScore: retentionScore,
		HoldingScore:   holdingScore,
		DiversityScore: diversityScore,
		TotalScore:     total,
	}
}

// SwapScore computes the trading score from swap features: five sub-scores
// normalized to 0-100, combined with weights 0.3/0.2/0.2/0.15/0.15.
func SwapScore(features SwapFeatures) (float64, SwapBreakdown) {
	volumeScore := math.Min(features.TotalSwapVolume/10000*100, 100)
	frequencyScore := math.Min(float64(features.NumSwaps)/50*100, 100)
	diversityScore := math.Min(float64(features.TokenDiversity)/20*100, 100)
	activityScore := math.Min(features.SwapFrequency/50*100, 100)
	poolDiversityScore := math.Min(float64(features.UniquePoolsSwapped)/10*100, 100)

	total := volumeScore*0.3 +
		frequencyScore*0.2 +
		diversityScore*0.2 +
		activityScore*0.15 +
		poolDiversityScore*0.15

	return total, SwapBreakdown{
		VolumeScore:        volumeScore,
		FrequencyScore:     frequencyScore,
		DiversityScore:     diversityScore,
		ActivityScore:      activityScore,
		PoolDiversityScore: poolDiversityScore,
		TotalScore:         total,
	}
}

// CombineScores folds the category scores into the final reputation score:
// 60% LP, 40% swap.
func CombineScores(lpScore, swapScore float64) float64 {
	return lpScore*lpWeight + swapScore*swapWeight
}

// ZScore normalizes the final score against the fixed reference
// distribution, clamps to [-3, 3] and rounds to 3 decimal places.
func ZScore(finalScore float64) float64 {
	z := (finalScore - referenceMean) / referenceStdDev
	z = math.Max(-3, math.Min(3, z))
	return roundTo(z, 3)
}

func roundTo(value float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(value*shift) / shift
}
