package testutil

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/defilabs-io/wallet-scoring-service/internal/types"
)

// RandomWalletAddress generates a hex wallet address in the 0x form.
func RandomWalletAddress() string {
	return gofakeit.Regex("0x[a-f0-9]{40}")
}

// Token builds a token leg with the given symbol and USD amount.
func Token(symbol string, amountUSD float64) *types.TokenData {
	return &types.TokenData{
		Amount:    int64(amountUSD * 1e6),
		AmountUSD: amountUSD,
		Address:   gofakeit.Regex("0x[a-f0-9]{40}"),
		Symbol:    symbol,
	}
}

// Swap builds a swap transaction at the given epoch timestamp.
func Swap(epoch float64, tokenIn, tokenOut *types.TokenData) types.Transaction {
	return types.Transaction{
		DocumentID: gofakeit.UUID(),
		Action:     types.ActionSwap,
		Timestamp:  types.NewTimestamp(epoch),
		Caller:     RandomWalletAddress(),
		Protocol:   "uniswap_v3",
		PoolID:     fmt.Sprintf("pool-%d", gofakeit.Number(1, 9999)),
		PoolName:   gofakeit.Word(),
		TokenIn:    tokenIn,
		TokenOut:   tokenOut,
	}
}

// Deposit builds a liquidity deposit at the given epoch timestamp.
func Deposit(epoch float64, token0, token1 *types.TokenData) types.Transaction {
	return types.Transaction{
		DocumentID: gofakeit.UUID(),
		Action:     types.ActionDeposit,
		Timestamp:  types.NewTimestamp(epoch),
		Caller:     RandomWalletAddress(),
		Protocol:   "uniswap_v3",
		PoolID:     fmt.Sprintf("pool-%d", gofakeit.Number(1, 9999)),
		PoolName:   gofakeit.Word(),
		Token0:     token0,
		Token1:     token1,
	}
}

// Withdraw builds a liquidity withdraw at the given epoch timestamp.
func Withdraw(epoch float64, token0, token1 *types.TokenData) types.Transaction {
	tx := Deposit(epoch, token0, token1)
	tx.Action = types.ActionWithdraw
	return tx
}

// Batch wraps transactions into a wallet batch with a single dexes group.
func Batch(walletAddress string, txs ...types.Transaction) *types.WalletBatch {
	return &types.WalletBatch{
		WalletAddress: walletAddress,
		Data: []types.ProtocolData{
			{ProtocolType: types.DexProtocolType, Transactions: txs},
		},
	}
}

// BatchJSON renders a wallet batch as its wire payload.
func BatchJSON(t *testing.T, batch *types.WalletBatch) []byte {
	t.Helper()
	raw, err := json.Marshal(batch)
	require.NoError(t, err)
	return raw
}
