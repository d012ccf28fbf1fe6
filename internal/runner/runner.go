// Package runner sequences one tool invocation: derivation resolution,
// wallet construction, calldata validation, execution, and ledger
// accounting. The pipeline is linear; any stage failure aborts the
// remainder and no partial ledger row is ever written.
package runner

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/malm0d/contract-interfacer/internal/chain"
	"github.com/malm0d/contract-interfacer/internal/config"
	"github.com/malm0d/contract-interfacer/internal/contract"
	"github.com/malm0d/contract-interfacer/internal/ledger"
	"github.com/malm0d/contract-interfacer/internal/ui"
	"github.com/malm0d/contract-interfacer/internal/wallet"
)

// BalanceReader reads native balances from the chain.
type BalanceReader interface {
	GetBalance(ctx context.Context, address string) (*big.Int, error)
}

// Ledger is the audit-trail surface the runner drives.
type Ledger interface {
	ResolveDerivation() (next uint32, history []uint32, err error)
	Append(rec ledger.Record) error
}

// DeriveFunc builds one signing wallet from a mnemonic and index.
type DeriveFunc func(phrase string, index uint32, chainID uint64) (*wallet.Wallet, error)

// Runner executes the command pipeline against its collaborators.
type Runner struct {
	Log      *logrus.Logger
	Client   BalanceReader
	Token    contract.Token
	Ledger   Ledger
	Derive   DeriveFunc
	Mnemonic string
	Out      io.Writer
}

// Run executes one invocation end to end. Read-only calls print their
// decoded result and touch neither balances nor the ledger.
func (r *Runner) Run(ctx context.Context, opts config.Options) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	// Resolve the derivation index before any wallet construction. An
	// explicit nonzero argument overrides the ledger's suggestion; the
	// index is not reserved until a row is actually appended.
	next, history, err := r.Ledger.ResolveDerivation()
	if err != nil {
		return err
	}
	index := opts.DerivationNumber
	if index == 0 {
		index = next
	}
	if len(history) > 0 {
		r.Log.WithFields(logrus.Fields{
			"recorded": history,
			"chosen":   index,
		}).Info("resolved derivation index from ledger history")
	} else {
		r.Log.WithField("chosen", index).Info("no ledger history, starting fresh")
	}

	w, err := r.Derive(r.Mnemonic, index, opts.ChainID)
	if err != nil {
		return fmt.Errorf("deriving wallet %d: %w", index, err)
	}
	sender := w.Address()
	r.Log.WithFields(logrus.Fields{
		"sender":     sender.Hex(),
		"derivation": index,
		"function":   opts.Function,
	}).Info("wallet ready")

	if err := contract.Validate(opts.Function, opts.Calldata); err != nil {
		return err
	}

	recipient, calldataValue, err := contract.RecipientAndAmount(opts.Function, opts.Calldata)
	if err != nil {
		return err
	}

	call, err := contract.BuildCall(opts.Function, opts.MsgValue, opts.Calldata, w)
	if err != nil {
		return err
	}

	if !contract.IsWrite(call) {
		res, err := contract.Execute(ctx, r.Token, call)
		if err != nil {
			return err
		}
		r.reportRead(out, opts, res)
		return nil
	}

	before, err := r.snapshot(ctx, sender.Hex(), recipient.Hex())
	if err != nil {
		return fmt.Errorf("snapshotting balances: %w", err)
	}

	res, err := contract.Execute(ctx, r.Token, call)
	if err != nil {
		return err
	}
	state, ok := res.(contract.StateChangeResult)
	if !ok {
		return fmt.Errorf("write call yielded unexpected result %T", res)
	}

	after, err := r.snapshot(ctx, sender.Hex(), recipient.Hex())
	if err != nil {
		return fmt.Errorf("snapshotting balances: %w", err)
	}
	owned, err := r.Token.Owned(ctx, sender)
	if err != nil {
		return fmt.Errorf("fetching owned token ids: %w", err)
	}

	rec := ledger.Record{
		TxHash:            state.Summary.Hash,
		Derivation:        index,
		Sender:            sender,
		SenderEthBefore:   before.senderEth,
		SenderEthAfter:    after.senderEth,
		SenderErc20Before: before.senderErc20,
		SenderErc20After:  after.senderErc20,
		Recipient:         recipient,
		RecipEthBefore:    before.recipientEth,
		RecipEthAfter:     after.recipientEth,
		RecipErc20Before:  before.recipientErc20,
		RecipErc20After:   after.recipientErc20,
		Function:          opts.Function,
		MsgValue:          opts.MsgValue,
		CalldataValue:     calldataValue,
		OwnedTokenIDs:     owned,
		TxFee:             state.Summary.FeeEth,
		GasPriceGwei:      state.Summary.GasPriceGwei,
		GasUsed:           state.Summary.GasUsed,
		ReceiptJSON:       state.Summary.ReceiptJSON,
	}
	if err := r.Ledger.Append(rec); err != nil {
		return err
	}

	r.Log.WithFields(logrus.Fields{
		"tx_hash": state.Summary.Hash,
		"file":    opts.FilePath,
	}).Info("ledger row appended")
	r.reportWrite(out, opts, state.Summary, sender.Hex())
	return nil
}

type balances struct {
	senderEth      *big.Int
	senderErc20    *big.Int
	recipientEth   *big.Int
	recipientErc20 *big.Int
}

// snapshot captures sender and recipient native + token balances. The
// round trips are best-effort with respect to concurrent on-chain
// activity; absent accounts read as zero.
func (r *Runner) snapshot(ctx context.Context, sender, recipient string) (*balances, error) {
	var b balances
	var err error

	if b.senderEth, err = r.Client.GetBalance(ctx, sender); err != nil {
		return nil, err
	}
	if b.senderErc20, err = r.Token.BalanceOf(ctx, common.HexToAddress(sender)); err != nil {
		return nil, err
	}
	if b.recipientEth, err = r.Client.GetBalance(ctx, recipient); err != nil {
		return nil, err
	}
	if b.recipientErc20, err = r.Token.BalanceOf(ctx, common.HexToAddress(recipient)); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Runner) reportRead(out io.Writer, opts config.Options, res contract.Result) {
	header := opts.Function
	if len(opts.Calldata) > 0 {
		header += "(" + strings.Join(opts.Calldata, ", ") + ")"
	}

	switch v := res.(type) {
	case contract.AddressResult:
		fmt.Fprintln(out, ui.Meta(header))
		fmt.Fprintln(out, ui.Addr(v.Value.Hex()))
	case contract.UintResult:
		fmt.Fprintln(out, ui.Meta(header))
		fmt.Fprintln(out, ui.Val(v.Value.String()))
	case contract.UintListResult:
		parts := make([]string, len(v.Values))
		for i, n := range v.Values {
			parts[i] = n.String()
		}
		fmt.Fprintln(out, ui.Meta(header))
		fmt.Fprintln(out, ui.Val("["+strings.Join(parts, ", ")+"]"))
	}
}

func (r *Runner) reportWrite(out io.Writer, opts config.Options, s *chain.TxSummary, sender string) {
	fmt.Fprintln(out, ui.KeyValueBlock("Transaction confirmed", [][2]string{
		{"Hash", ui.Addr(s.Hash)},
		{"From", ui.Addr(sender)},
		{"Function", opts.Function},
		{"Gas Price", s.GasPriceGwei + " gwei"},
		{"Gas Used", s.GasUsed},
		{"Tx Fee", s.FeeEth + " ETH"},
	}))
	fmt.Fprintln(out, ui.Success("Recorded in "+opts.FilePath))
}
