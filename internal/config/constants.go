package config

// PurseEthAddress is the fixed PURSE-404 deployment this tool talks to.
const PurseEthAddress = "0x95987b0cdC7F65d989A30B3B7132a38388c548Eb"

// Recognized chain IDs.
const (
	ChainIDMainnet uint64 = 1
	ChainIDSepolia uint64 = 11155111
)

var chainNames = map[uint64]string{
	ChainIDMainnet: "ethereum",
	ChainIDSepolia: "sepolia",
}

// ChainName returns the registry name for a chain ID, or "" if unknown.
func ChainName(chainID uint64) string {
	return chainNames[chainID]
}
