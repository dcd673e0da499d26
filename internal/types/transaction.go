package types

import (
	"encoding/json"
	"strconv"
	"time"
)

// Enum values for transaction actions
type Action string

const (
	ActionSwap     Action = "swap"
	ActionDeposit  Action = "deposit"
	ActionWithdraw Action = "withdraw"
)

func (a Action) String() string {
	return string(a)
}

func (a Action) Valid() bool {
	switch a {
	case ActionSwap, ActionDeposit, ActionWithdraw:
		return true
	}
	return false
}

// DexProtocolType is the only protocol group consumed from inbound batches.
const DexProtocolType = "dexes"

// Timestamp accepts either a numeric epoch (seconds) or an ISO-8601
// string. An unparsable value is kept as invalid rather than failing the
// decode; downstream computations drop it.
type Timestamp struct {
	epoch float64
	valid bool
}

// isoFormats holds the accepted string layouts, tried in order.
var isoFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func NewTimestamp(epoch float64) Timestamp {
	return Timestamp{epoch: epoch, valid: true}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if num, err := strconv.ParseFloat(string(data), 64); err == nil {
		t.epoch = num
		t.valid = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Neither a number nor a string. Treated as missing.
		return nil
	}
	for _, layout := range isoFormats {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.epoch = float64(parsed.UTC().Unix())
			t.valid = true
			return nil
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.epoch)
}

// Epoch returns the parsed epoch seconds and whether the value was parsable.
func (t Timestamp) Epoch() (float64, bool) {
	return t.epoch, t.valid
}

// TokenData is one leg of a transaction.
type TokenData struct {
	Amount    int64   `json:"amount"`
	AmountUSD float64 `json:"amountUSD"`
	Address   string  `json:"address"`
	Symbol    string  `json:"symbol"`
}

// Transaction is a single on-chain action. Swaps carry tokenIn/tokenOut,
// deposits and withdraws carry token0/token1. Immutable once decoded.
type Transaction struct {
	DocumentID string    `json:"document_id"`
	Action     Action    `json:"action"`
	Timestamp  Timestamp `json:"timestamp"`
	Caller     string    `json:"caller"`
	Protocol   string    `json:"protocol"`
	PoolID     string    `json:"poolId"`
	PoolName   string    `json:"poolName"`

	TokenIn  *TokenData `json:"tokenIn,omitempty"`
	TokenOut *TokenData `json:"tokenOut,omitempty"`
	Token0   *TokenData `json:"token0,omitempty"`
	Token1   *TokenData `json:"token1,omitempty"`
}

func (tx *Transaction) IsSwap() bool {
	return tx.Action == ActionSwap
}

func (tx *Transaction) IsLP() bool {
	return tx.Action == ActionDeposit || tx.Action == ActionWithdraw
}

// AmountUSD is the usd-denominated size of the transaction: the input leg
// for swaps, both pool legs combined for deposits and withdraws.
func (tx *Transaction) AmountUSD() float64 {
	switch tx.Action {
	case ActionSwap:
		if tx.TokenIn != nil {
			return tx.TokenIn.AmountUSD
		}
	case ActionDeposit, ActionWithdraw:
		var total float64
		if tx.Token0 != nil {
			total += tx.Token0.AmountUSD
		}
		if tx.Token1 != nil {
			total += tx.Token1.AmountUSD
		}
		return total
	}
	return 0
}

// Validate checks the structural invariant for the transaction's action.
func (tx *Transaction) Validate() error {
	if !tx.Action.Valid() {
		return NewValidationError("action", "must be one of swap, deposit, withdraw")
	}
	switch tx.Action {
	case ActionSwap:
		if tx.TokenIn == nil || tx.TokenOut == nil {
			return NewValidationError("tokenIn/tokenOut", "swap transactions must have tokenIn and tokenOut")
		}
	case ActionDeposit, ActionWithdraw:
		if tx.Token0 == nil || tx.Token1 == nil {
			return NewValidationError("token0/token1", "LP transactions must have token0 and token1")
		}
	}
	return nil
}

// ProtocolData groups the transactions of one protocol type.
type ProtocolData struct {
	ProtocolType string        `json:"protocolType"`
	Transactions []Transaction `json:"transactions"`
}

// WalletBatch is the decoded inbound record: a wallet address with its
// per-protocol transaction groups.
type WalletBatch struct {
	WalletAddress string         `json:"wallet_address"`
	Data          []ProtocolData `json:"data"`
}

// DexTransactions returns the transactions of the first "dexes" group.
// Other protocol groups are ignored.
func (b *WalletBatch) DexTransactions() []Transaction {
	for _, protocol := range b.Data {
		if protocol.ProtocolType == DexProtocolType {
			return protocol.Transactions
		}
	}
	return nil
}

// DecodeWalletBatch decodes and validates an inbound wire record. One
// structurally invalid transaction fails the whole batch; nothing is
// partially accepted.
func DecodeWalletBatch(raw []byte) (*WalletBatch, error) {
	var batch WalletBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, NewValidationError("", "malformed JSON: "+err.Error())
	}
	if batch.WalletAddress == "" {
		return nil, NewValidationError("wallet_address", "missing wallet address")
	}
	for _, protocol := range batch.Data {
		if protocol.ProtocolType != DexProtocolType {
			continue
		}
		for i := range protocol.Transactions {
			if err := protocol.Transactions[i].Validate(); err != nil {
				return nil, err
			}
		}
	}
	return &batch, nil
}
