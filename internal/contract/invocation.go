package contract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/malm0d/contract-interfacer/internal/wallet"
)

// Call is a closed set of PURSE-404 invocations. Exactly one variant
// exists per supported contract function; the acting wallet is attached
// only to the state-changing variants. The unexported marker keeps the
// set closed so the executor can match exhaustively.
type Call interface {
	isCall()
}

// AddressCall reads the deployment address.
type AddressCall struct{}

// BalanceOfCall reads the ERC-20 balance of Holder.
type BalanceOfCall struct {
	Holder common.Address
}

// MintedCall reads the current minted NFT count.
type MintedCall struct{}

// MintingCostCall reads the current cost to mint one NFT.
type MintingCostCall struct{}

// OwnedCall reads the NFT token IDs owned by Owner.
type OwnedCall struct {
	Owner common.Address
}

// TransferCall transfers Amount (base units) from the acting wallet to To.
type TransferCall struct {
	From   *wallet.Wallet
	To     common.Address
	Amount *big.Int
}

// MintERC721Call mints Units NFTs to the acting wallet, attaching
// Value wei as the message value.
type MintERC721Call struct {
	From  *wallet.Wallet
	Units *big.Int
	Value *big.Int
}

// MintCall mints Amount base units to To; the acting wallet must be
// authorized by the contract.
type MintCall struct {
	From   *wallet.Wallet
	To     common.Address
	Amount *big.Int
}

func (AddressCall) isCall()     {}
func (BalanceOfCall) isCall()   {}
func (MintedCall) isCall()      {}
func (MintingCostCall) isCall() {}
func (OwnedCall) isCall()       {}
func (TransferCall) isCall()    {}
func (MintERC721Call) isCall()  {}
func (MintCall) isCall()        {}

// BuildCall converts a validated function name, message value and
// calldata into the matching Call variant. Argument parse failures
// surface as *ArgumentError with the position preserved; unknown names
// fail with ErrUnsupportedFunction.
func BuildCall(function string, msgValue *big.Int, calldata []string, w *wallet.Wallet) (Call, error) {
	switch function {
	case "address":
		return AddressCall{}, nil

	case "balanceOf":
		addr, err := parseAddress(0, calldata[0])
		if err != nil {
			return nil, err
		}
		return BalanceOfCall{Holder: addr}, nil

	case "minted":
		return MintedCall{}, nil

	case "mintingCost":
		return MintingCostCall{}, nil

	case "owned":
		addr, err := parseAddress(0, calldata[0])
		if err != nil {
			return nil, err
		}
		return OwnedCall{Owner: addr}, nil

	case "transfer":
		to, err := parseAddress(0, calldata[0])
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount(1, calldata[1])
		if err != nil {
			return nil, err
		}
		return TransferCall{From: w, To: to, Amount: amount}, nil

	case "mintERC721":
		units, err := parseAmount(0, calldata[0])
		if err != nil {
			return nil, err
		}
		return MintERC721Call{From: w, Units: units, Value: msgValue}, nil

	case "mint":
		to, err := parseAddress(0, calldata[0])
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount(1, calldata[1])
		if err != nil {
			return nil, err
		}
		return MintCall{From: w, To: to, Amount: amount}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFunction, function)
	}
}
