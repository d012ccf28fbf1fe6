// Package contract binds the PURSE-404 deployment: ABI codec, typed
// method wrappers, calldata validation and the invocation executor.
package contract

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/malm0d/contract-interfacer/internal/chain"
	"github.com/malm0d/contract-interfacer/internal/wallet"
)

// ErrChainRejected is returned when the node refuses a submitted
// transaction (revert, insufficient funds, nonce conflict).
var ErrChainRejected = errors.New("transaction rejected by chain")

// fallbackGasLimit is used when gas estimation fails; estimation
// commonly reverts for transactions that would revert on-chain, and the
// node gives the real reason at submission time.
const fallbackGasLimit = 100_000

// Purse404 wraps the fixed PURSE-404 deployment. The wrapper is
// stateless beyond its address and client and is safe for concurrent use.
type Purse404 struct {
	address common.Address
	client  *chain.EVMClient
}

// NewPurse404 binds the deployment at address through the given client.
func NewPurse404(address common.Address, client *chain.EVMClient) *Purse404 {
	return &Purse404{address: address, client: client}
}

// Address returns the deployment address.
func (p *Purse404) Address() common.Address {
	return p.address
}

// BalanceOf returns the ERC-20 balance of owner in base units.
func (p *Purse404) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	raw, err := p.read(ctx, "balanceOf", owner.Hex())
	if err != nil {
		return nil, err
	}
	return decodeUint256(raw)
}

// Minted returns the number of NFTs minted so far.
func (p *Purse404) Minted(ctx context.Context) (*big.Int, error) {
	raw, err := p.read(ctx, "minted")
	if err != nil {
		return nil, err
	}
	return decodeUint256(raw)
}

// MintingCost returns the current cost in wei to mint one NFT.
func (p *Purse404) MintingCost(ctx context.Context) (*big.Int, error) {
	raw, err := p.read(ctx, "mintingCost")
	if err != nil {
		return nil, err
	}
	return decodeUint256(raw)
}

// Owned returns all NFT token IDs owned by owner.
func (p *Purse404) Owned(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	raw, err := p.read(ctx, "owned", owner.Hex())
	if err != nil {
		return nil, err
	}
	return decodeUint256Array(raw)
}

// Transfer moves amount base units from the acting wallet to to.
func (p *Purse404) Transfer(ctx context.Context, from *wallet.Wallet, to common.Address, amount *big.Int) (*chain.TxSummary, error) {
	return p.send(ctx, from, nil, "transfer", to.Hex(), amount.String())
}

// MintERC721 mints units NFTs to the acting wallet, attaching value wei.
func (p *Purse404) MintERC721(ctx context.Context, from *wallet.Wallet, units, value *big.Int) (*chain.TxSummary, error) {
	return p.send(ctx, from, value, "mintERC721", units.String())
}

// Mint mints amount base units to to. The acting wallet must be
// authorized by the contract or the transaction reverts.
func (p *Purse404) Mint(ctx context.Context, from *wallet.Wallet, to common.Address, amount *big.Int) (*chain.TxSummary, error) {
	return p.send(ctx, from, nil, "mint", to.Hex(), amount.String())
}

func (p *Purse404) read(ctx context.Context, function string, args ...string) (string, error) {
	fn := findFunction(function)
	if fn == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFunction, function)
	}
	calldata, err := encodeCall(fn, args)
	if err != nil {
		return "", fmt.Errorf("encoding call: %w", err)
	}
	raw, err := p.client.CallContract(ctx, p.address.Hex(), calldata)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", function, err)
	}
	return raw, nil
}

// send signs, broadcasts and awaits inclusion of one write transaction.
// The signing wallet is borrowed for the lifetime of the call and never
// mutated.
func (p *Purse404) send(ctx context.Context, from *wallet.Wallet, value *big.Int, function string, args ...string) (*chain.TxSummary, error) {
	fn := findFunction(function)
	if fn == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFunction, function)
	}
	if !fn.IsWriteFunction() {
		return nil, fmt.Errorf("function %q is not a write function", function)
	}

	calldata, err := encodeCall(fn, args)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	sender := from.Address().Hex()
	if value == nil {
		value = new(big.Int)
	}

	gas, err := p.client.EstimateGas(ctx, sender, p.address.Hex(), calldata, value)
	if err != nil {
		gas = fallbackGasLimit
	}

	gasPrice, err := p.client.GasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := p.client.GetPendingNonce(ctx, sender)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	toAddr := p.address
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   new(big.Int).SetUint64(from.ChainID()),
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &toAddr,
		Value:     value,
		Data:      hexToBytes(calldata),
	})

	raw, err := from.SignTx(tx)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := p.client.SendRawTransaction(ctx, "0x"+hex.EncodeToString(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrChainRejected, DecodeRevert(err.Error()))
	}

	receipt, err := p.client.WaitForReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}

	return chain.Summarize(receipt)
}

func hexToBytes(s string) []byte {
	b, _ := hex.DecodeString(stripHexPrefix(s))
	return b
}

func stripHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// --- revert signature mapping ---

// revertNames maps known PURSE-404 custom error selectors to their
// human-readable names.
var revertNames = map[string]string{
	"0x65c62bb3": "InsufficientInactiveBalance()",
	"0xab0a033b": "IncorrectEthValue()",
	"0x303b682f": "MintLimitReached()",
}

var errorSigPattern = regexp.MustCompile(`0x[0-9a-fA-F]{8}`)

// MapRevert translates a 4-byte custom error selector into its known
// name. Unrecognized selectors pass through verbatim. Pure lookup.
func MapRevert(sig string) string {
	if name, ok := revertNames[sig]; ok {
		return name
	}
	return sig
}

// DecodeRevert rewrites any known error selectors embedded in a node
// error message into their human-readable names.
func DecodeRevert(msg string) string {
	return errorSigPattern.ReplaceAllStringFunc(msg, MapRevert)
}
