package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/malm0d/contract-interfacer/internal/config"
	"github.com/malm0d/contract-interfacer/internal/ui"
	"github.com/malm0d/contract-interfacer/internal/wallet"
)

var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Manage the signing mnemonic in the OS keychain",
	Long: `Store or remove the signing mnemonic in the OS keychain. A stored
phrase is used whenever the MNEMONIC environment variable is unset.`,
}

var mnemonicStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Read a mnemonic from stdin and store it in the keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), "Mnemonic phrase: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		phrase, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading phrase: %w", err)
		}
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			return fmt.Errorf("empty phrase")
		}
		if _, err := wallet.FromPhrase(phrase, 0, config.ChainIDMainnet); err != nil {
			return err
		}

		ks := wallet.DefaultKeystore()
		ref, err := ks.Store("mnemonic", phrase)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("stored as "+ref))
		return nil
	},
}

var mnemonicDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored mnemonic from the keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		ks := wallet.DefaultKeystore()
		if err := ks.Delete(config.MnemonicKeyRef); err != nil {
			fmt.Fprintln(os.Stderr, ui.Warn("nothing stored, or keychain unavailable"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("mnemonic removed"))
		return nil
	},
}

func init() {
	mnemonicCmd.AddCommand(mnemonicStoreCmd, mnemonicDeleteCmd)
}
