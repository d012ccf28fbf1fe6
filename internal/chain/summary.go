package chain

import (
	"errors"
	"math/big"
	"strings"
)

// ErrNoReceipt is returned when a summary is requested for a nil receipt.
var ErrNoReceipt = errors.New("no receipt available")

// TxSummary is the fee and gas accounting of one mined transaction,
// formatted the way the ledger records it.
type TxSummary struct {
	Hash         string
	GasPriceGwei string // effective gas price in gwei
	GasUsed      string // decimal
	FeeEth       string // gasUsed * effectiveGasPrice, in ETH
	ReceiptJSON  string
}

// Summarize converts a mined receipt into its ledger accounting form.
func Summarize(r *Receipt) (*TxSummary, error) {
	if r == nil {
		return nil, ErrNoReceipt
	}

	gasPrice := r.EffectiveGasPrice
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	gasUsed := new(big.Int).SetUint64(r.GasUsed)
	feeWei := new(big.Int).Mul(gasUsed, gasPrice)

	return &TxSummary{
		Hash:         r.Hash,
		GasPriceGwei: WeiToGwei(gasPrice),
		GasUsed:      gasUsed.String(),
		FeeEth:       WeiToEth(feeWei),
		ReceiptJSON:  string(r.Raw),
	}, nil
}

var (
	weiPerEth  = big.NewInt(1_000_000_000_000_000_000)
	weiPerGwei = big.NewInt(1_000_000_000)
)

// WeiToEth converts a wei amount to a decimal ETH string with no
// precision loss and no trailing zeros.
func WeiToEth(wei *big.Int) string {
	return divToDecimal(wei, weiPerEth, 18)
}

// WeiToGwei converts a wei amount to a decimal gwei string.
func WeiToGwei(wei *big.Int) string {
	return divToDecimal(wei, weiPerGwei, 9)
}

// divToDecimal renders num/den as a decimal string with at most scale
// fractional digits. The division is exact for any den of the form 10^scale.
func divToDecimal(num, den *big.Int, scale int) string {
	if num == nil || num.Sign() == 0 {
		return "0"
	}
	r := new(big.Rat).SetFrac(num, den)
	s := r.FloatString(scale)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
