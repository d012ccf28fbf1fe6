package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeiToEth(t *testing.T) {
	oneEth := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	assert.Equal(t, "0", WeiToEth(nil))
	assert.Equal(t, "0", WeiToEth(big.NewInt(0)))
	assert.Equal(t, "1", WeiToEth(oneEth))
	assert.Equal(t, "0.000000000000000001", WeiToEth(big.NewInt(1)))
	assert.Equal(t, "1.5", WeiToEth(big.NewInt(1_500_000_000_000_000_000)))

	// No precision loss on amounts beyond float64 range.
	huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	assert.Equal(t, "123456789012.34567890123456789", WeiToEth(huge))
}

func TestWeiToGwei(t *testing.T) {
	assert.Equal(t, "1", WeiToGwei(big.NewInt(1_000_000_000)))
	assert.Equal(t, "25.5", WeiToGwei(big.NewInt(25_500_000_000)))
	assert.Equal(t, "0.000000001", WeiToGwei(big.NewInt(1)))
}

func TestSummarize(t *testing.T) {
	r := &Receipt{
		Hash:              "0xabc",
		Status:            1,
		GasUsed:           53000,
		EffectiveGasPrice: big.NewInt(2_000_000_000), // 2 gwei
		Raw:               []byte(`{"status":"0x1"}`),
	}

	s, err := Summarize(r)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", s.Hash)
	assert.Equal(t, "2", s.GasPriceGwei)
	assert.Equal(t, "53000", s.GasUsed)
	// 53000 * 2e9 wei = 0.000106 ETH
	assert.Equal(t, "0.000106", s.FeeEth)
	assert.Equal(t, `{"status":"0x1"}`, s.ReceiptJSON)
}

func TestSummarizeNilReceipt(t *testing.T) {
	_, err := Summarize(nil)
	require.ErrorIs(t, err, ErrNoReceipt)
}

func TestSummarizeMissingGasPrice(t *testing.T) {
	s, err := Summarize(&Receipt{Hash: "0xabc", GasUsed: 21000})
	require.NoError(t, err)
	assert.Equal(t, "0", s.GasPriceGwei)
	assert.Equal(t, "0", s.FeeEth)
}
