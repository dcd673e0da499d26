package types

// Category names used in outbound records.
const (
	CategoryLiquidityProvision = "liquidity_provision"
	CategoryTrading            = "trading"
)

// ScoreFeatures is the wire representation of the features behind a
// category score. LP and swap categories share the shape; fields that do
// not apply to a category stay at zero.
type ScoreFeatures struct {
	TotalDepositUSD    float64 `json:"total_deposit_usd"`
	TotalSwapVolume    float64 `json:"total_swap_volume"`
	NumDeposits        int     `json:"num_deposits"`
	NumSwaps           int     `json:"num_swaps"`
	AvgHoldTimeDays    float64 `json:"avg_hold_time_days"`
	UniquePools        int     `json:"unique_pools"`
	TotalWithdrawUSD   float64 `json:"total_withdraw_usd"`
	NumWithdraws       int     `json:"num_withdraws"`
	WithdrawRatio      float64 `json:"withdraw_ratio"`
	AccountAgeDays     float64 `json:"account_age_days"`
	UniquePoolsSwapped int     `json:"unique_pools_swapped"`
	AvgSwapSize        float64 `json:"avg_swap_size"`
	TokenDiversity     int     `json:"token_diversity_score"`
	SwapFrequency      float64 `json:"swap_frequency_score"`
}

// CategoryResult is one scored category in a success record.
type CategoryResult struct {
	Category         string        `json:"category"`
	Score            float64       `json:"score"`
	TransactionCount int           `json:"transaction_count"`
	Features         ScoreFeatures `json:"features"`
}

// ScoreSuccessMessage is the record published to the success topic.
// The zscore travels as a decimal string, never a binary float.
type ScoreSuccessMessage struct {
	WalletAddress    string           `json:"wallet_address"`
	ZScore           string           `json:"zscore"`
	Timestamp        int64            `json:"timestamp"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	Categories       []CategoryResult `json:"categories"`
}

// ScoreFailureMessage is the record published to the failure topic.
// Categories is always empty.
type ScoreFailureMessage struct {
	WalletAddress    string           `json:"wallet_address"`
	Error            string           `json:"error"`
	Timestamp        int64            `json:"timestamp"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	Categories       []CategoryResult `json:"categories"`
}
