package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/malm0d/contract-interfacer/internal/chain"
	"github.com/malm0d/contract-interfacer/internal/wallet"
)

// Token is the contract surface the executor dispatches against.
// *Purse404 is the production implementation; tests substitute fakes.
type Token interface {
	Address() common.Address
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Minted(ctx context.Context) (*big.Int, error)
	MintingCost(ctx context.Context) (*big.Int, error)
	Owned(ctx context.Context, owner common.Address) ([]*big.Int, error)
	Transfer(ctx context.Context, from *wallet.Wallet, to common.Address, amount *big.Int) (*chain.TxSummary, error)
	MintERC721(ctx context.Context, from *wallet.Wallet, units, value *big.Int) (*chain.TxSummary, error)
	Mint(ctx context.Context, from *wallet.Wallet, to common.Address, amount *big.Int) (*chain.TxSummary, error)
}

// Result is a closed set of invocation outcomes mirroring the contract
// return shapes. StateChangeResult is the only variant that triggers a
// ledger append.
type Result interface {
	isResult()
}

// AddressResult carries an address return value.
type AddressResult struct {
	Value common.Address
}

// UintResult carries a single unsigned 256-bit return value.
type UintResult struct {
	Value *big.Int
}

// UintListResult carries a list of unsigned 256-bit return values.
type UintListResult struct {
	Values []*big.Int
}

// StateChangeResult carries the accounting summary of a mined
// transaction.
type StateChangeResult struct {
	Summary *chain.TxSummary
}

func (AddressResult) isResult()     {}
func (UintResult) isResult()        {}
func (UintListResult) isResult()    {}
func (StateChangeResult) isResult() {}

// Execute dispatches one invocation against the token. Read variants
// map the typed return directly; write variants block until inclusion
// (bounded by ctx) and yield a StateChangeResult.
func Execute(ctx context.Context, token Token, call Call) (Result, error) {
	switch c := call.(type) {
	case AddressCall:
		return AddressResult{Value: token.Address()}, nil

	case BalanceOfCall:
		v, err := token.BalanceOf(ctx, c.Holder)
		if err != nil {
			return nil, err
		}
		return UintResult{Value: v}, nil

	case MintedCall:
		v, err := token.Minted(ctx)
		if err != nil {
			return nil, err
		}
		return UintResult{Value: v}, nil

	case MintingCostCall:
		v, err := token.MintingCost(ctx)
		if err != nil {
			return nil, err
		}
		return UintResult{Value: v}, nil

	case OwnedCall:
		vs, err := token.Owned(ctx, c.Owner)
		if err != nil {
			return nil, err
		}
		return UintListResult{Values: vs}, nil

	case TransferCall:
		s, err := token.Transfer(ctx, c.From, c.To, c.Amount)
		if err != nil {
			return nil, err
		}
		return StateChangeResult{Summary: s}, nil

	case MintERC721Call:
		s, err := token.MintERC721(ctx, c.From, c.Units, c.Value)
		if err != nil {
			return nil, err
		}
		return StateChangeResult{Summary: s}, nil

	case MintCall:
		s, err := token.Mint(ctx, c.From, c.To, c.Amount)
		if err != nil {
			return nil, err
		}
		return StateChangeResult{Summary: s}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFunction, call)
	}
}

// IsWrite reports whether a call mutates chain state (and therefore
// requires balance snapshots and a ledger append).
func IsWrite(call Call) bool {
	switch call.(type) {
	case TransferCall, MintERC721Call, MintCall:
		return true
	}
	return false
}
