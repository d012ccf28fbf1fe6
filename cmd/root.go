package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/malm0d/contract-interfacer/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	verbose bool
	log     = logrus.New()
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "contract-interfacer",
	Short: "Drive the PURSE-404 token contract from the terminal",
	Long: `contract-interfacer — execute read and write calls against the
PURSE-404 deployment, signing with wallets derived from a mnemonic
(path m/44'/60'/0'/0/{index}) and recording every state-changing
transaction in a CSV ledger.`,
	Version:       Version,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.WarnLevel)
		if verbose {
			log.SetLevel(logrus.InfoLevel)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		purseCmd,
		mnemonicCmd,
	)
}
