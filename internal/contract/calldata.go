package contract

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnsupportedFunction is returned for function names outside the
// PURSE-404 surface, or for supported names with the wrong calldata arity.
var ErrUnsupportedFunction = errors.New("unsupported function")

// ArgumentError reports a calldata element that failed to parse.
type ArgumentError struct {
	Position int    // zero-based index into the calldata list
	Raw      string // the offending value
	Want     string // expected form, e.g. "address", "unsigned 256-bit integer"
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("malformed argument at position %d: %q is not a valid %s", e.Position, e.Raw, e.Want)
}

// Validate checks that a function name and calldata combination is
// well-formed. A nil calldata slice means the flag was absent; a non-nil
// empty slice means it was present with zero values, which does NOT
// satisfy a zero-arity function. Pure, no side effects.
func Validate(function string, calldata []string) error {
	switch function {
	// View functions take no calldata, so the flag must be absent.
	case "address", "minted", "mintingCost":
		if calldata == nil {
			return nil
		}

	// Single value calldata functions.
	case "balanceOf", "owned", "mintERC721":
		if calldata != nil && len(calldata) == 1 {
			return nil
		}

	// Two value calldata functions.
	case "transfer", "mint":
		if calldata != nil && len(calldata) == 2 {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedFunction, function)
}

// RecipientAndAmount extracts the secondary recipient/amount pair used
// for transfer and mint accounting. For mintERC721 there is no on-chain
// recipient argument, so the recipient is the zero address and the
// amount is calldata[0]. Functions outside the transfer/mint family
// yield the zero address and a zero amount.
//
// Calldata must already have passed Validate for the function.
func RecipientAndAmount(function string, calldata []string) (common.Address, *big.Int, error) {
	switch function {
	case "mintERC721":
		amount, err := parseAmount(0, calldata[0])
		if err != nil {
			return common.Address{}, nil, err
		}
		return common.Address{}, amount, nil

	case "transfer", "mint":
		recipient, err := parseAddress(0, calldata[0])
		if err != nil {
			return common.Address{}, nil, err
		}
		amount, err := parseAmount(1, calldata[1])
		if err != nil {
			return common.Address{}, nil, err
		}
		return recipient, amount, nil

	default:
		return common.Address{}, new(big.Int), nil
	}
}

// parseAddress parses a calldata element as a hex address.
func parseAddress(pos int, raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, &ArgumentError{Position: pos, Raw: raw, Want: "address"}
	}
	return common.HexToAddress(raw), nil
}

// parseAmount parses a calldata element as an unsigned 256-bit decimal.
func parseAmount(pos int, raw string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok || n.Sign() < 0 || n.BitLen() > 256 {
		return nil, &ArgumentError{Position: pos, Raw: raw, Want: "unsigned 256-bit integer"}
	}
	return n, nil
}
