package scoring

import "strings"

// Behavior tags. Threshold groups are checked high to low, so at most one
// tag from each group applies; groups are independent of each other.
const (
	TagWhaleLP  = "Whale LP"
	TagLargeLP  = "Large LP"
	TagMediumLP = "Medium LP"
	TagSmallLP  = "Small LP"

	TagLongTermHolder   = "Long-term Holder"
	TagMediumTermHolder = "Medium-term Holder"

	TagWhaleTrader = "Whale Trader"
	TagLargeTrader = "Large Trader"

	TagHighFrequencyTrader = "High Frequency Trader"
	TagActiveTrader        = "Active Trader"

	TagDiversifiedTrader = "Diversified Trader"
)

// GenerateTags derives the wallet's behavior tags from its LP and swap
// features. A wallet may carry several tags at once.
func GenerateTags(lp LPFeatures, swap SwapFeatures) []string {
	tags := []string{}

	switch {
	case lp.TotalDepositUSD >= 100000:
		tags = append(tags, TagWhaleLP)
	case lp.TotalDepositUSD >= 50000:
		tags = append(tags, TagLargeLP)
	case lp.TotalDepositUSD >= 10000:
		tags = append(tags, TagMediumLP)
	case lp.TotalDepositUSD >= 1000:
		tags = append(tags, TagSmallLP)
	}

	switch {
	case lp.AvgHoldTimeDays >= 90:
		tags = append(tags, TagLongTermHolder)
	case lp.AvgHoldTimeDays >= 30:
		tags = append(tags, TagMediumTermHolder)
	}

	switch {
	case swap.TotalSwapVolume >= 500000:
		tags = append(tags, TagWhaleTrader)
	case swap.TotalSwapVolume >= 100000:
		tags = append(tags, TagLargeTrader)
	}

	switch {
	case swap.NumSwaps >= 100:
		tags = append(tags, TagHighFrequencyTrader)
	case swap.NumSwaps >= 50:
		tags = append(tags, TagActiveTrader)
	}

	if swap.TokenDiversity >= 15 {
		tags = append(tags, TagDiversifiedTrader)
	}

	return tags
}

// LPTags filters the LP-category view of the tag list.
func LPTags(tags []string) []string {
	filtered := []string{}
	for _, tag := range tags {
		if strings.Contains(tag, "LP") || strings.Contains(tag, "Holder") {
			filtered = append(filtered, tag)
		}
	}
	return filtered
}

// TraderTags filters the swap-category view of the tag list.
func TraderTags(tags []string) []string {
	filtered := []string{}
	for _, tag := range tags {
		if strings.Contains(tag, "Trader") {
			filtered = append(filtered, tag)
		}
	}
	return filtered
}
