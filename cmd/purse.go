package cmd

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/malm0d/contract-interfacer/internal/chain"
	"github.com/malm0d/contract-interfacer/internal/config"
	"github.com/malm0d/contract-interfacer/internal/contract"
	"github.com/malm0d/contract-interfacer/internal/ledger"
	"github.com/malm0d/contract-interfacer/internal/runner"
	"github.com/malm0d/contract-interfacer/internal/wallet"
)

var (
	purseFunction   string
	purseCalldata   []string
	purseMsgValue   string
	purseFilePath   string
	purseDerivation uint32
	purseChainID    uint64
	purseTimeout    time.Duration
)

var purseCmd = &cobra.Command{
	Use:   "purse",
	Short: "Call a PURSE-404 contract function",
	Long: `Call one function on the PURSE-404 deployment.

Read calls (address, balanceOf, minted, mintingCost, owned) print the
decoded result. Write calls (transfer, mintERC721, mint) sign with the
derived wallet, wait for inclusion, and append a row to the CSV ledger.

With --derivation-number 0 (the default) the signing index is resolved
from the ledger: a fresh ledger starts at 0, otherwise the highest
recorded index plus one. Any nonzero value is used as given.`,
	Example: `  contract-interfacer purse --function minted --file-path ledger.csv --chain-id 1
  contract-interfacer purse --function balanceOf --calldata 0xf39F...2266 --file-path ledger.csv --chain-id 1
  contract-interfacer purse --function transfer --calldata 0xdF7e...6527 --calldata 1000000000000000000 \
      --file-path ledger.csv --chain-id 11155111
  contract-interfacer purse --function mintERC721 --calldata 2 --msg-value 2000000000000000000 \
      --file-path ledger.csv --chain-id 11155111`,
	RunE: func(cmd *cobra.Command, args []string) error {
		msgValue, ok := new(big.Int).SetString(purseMsgValue, 10)
		if !ok || msgValue.Sign() < 0 {
			return fmt.Errorf("invalid --msg-value %q: want a non-negative decimal wei amount", purseMsgValue)
		}

		// nil means the flag was never given; an explicit empty flag
		// yields a non-nil empty slice. Zero-argument functions require
		// the flag to be absent.
		var calldata []string
		if cmd.Flags().Changed("calldata") {
			calldata = purseCalldata
			if calldata == nil {
				calldata = []string{}
			}
		}

		cfg, err := config.Load(wallet.DefaultKeystore())
		if err != nil {
			return err
		}
		mnemonic, err := cfg.Mnemonic()
		if err != nil {
			return err
		}
		rpcURL, err := cfg.RPCURL(purseChainID)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), purseTimeout)
		defer cancel()

		client := chain.NewEVMClient(rpcURL)
		if nodeChainID, err := client.ChainID(ctx); err != nil {
			log.WithError(err).Warn("could not verify endpoint chain id")
		} else if nodeChainID != purseChainID {
			return fmt.Errorf("endpoint %s reports chain id %d, want %d", rpcURL, nodeChainID, purseChainID)
		}

		token := contract.NewPurse404(common.HexToAddress(config.PurseEthAddress), client)

		r := &runner.Runner{
			Log:      log,
			Client:   client,
			Token:    token,
			Ledger:   ledger.NewStore(purseFilePath),
			Derive:   wallet.FromPhrase,
			Mnemonic: mnemonic,
			Out:      cmd.OutOrStdout(),
		}

		return r.Run(ctx, config.Options{
			Function:         purseFunction,
			Calldata:         calldata,
			MsgValue:         msgValue,
			FilePath:         purseFilePath,
			DerivationNumber: purseDerivation,
			ChainID:          purseChainID,
		})
	},
}

func init() {
	purseCmd.Flags().StringVar(&purseFunction, "function", "", "contract function to call (required)")
	purseCmd.Flags().StringArrayVar(&purseCalldata, "calldata", nil, "function argument, repeat per argument")
	purseCmd.Flags().StringVar(&purseMsgValue, "msg-value", "0", "ETH to attach in wei (payable functions)")
	purseCmd.Flags().StringVar(&purseFilePath, "file-path", "", "CSV ledger path (required)")
	purseCmd.Flags().Uint32Var(&purseDerivation, "derivation-number", 0, "wallet derivation index, 0 = resolve from ledger")
	purseCmd.Flags().Uint64Var(&purseChainID, "chain-id", 0, "EVM chain id (required)")
	purseCmd.Flags().DurationVar(&purseTimeout, "timeout", 5*time.Minute, "overall deadline incl. receipt wait")

	purseCmd.MarkFlagRequired("function")
	purseCmd.MarkFlagRequired("file-path")
	purseCmd.MarkFlagRequired("chain-id")
}
