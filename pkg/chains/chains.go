package chains

// ChainList contains the list of supported chain IDs
var ChainList = []int{
	1,        // Ethereum
	137,      // Polygon
	42161,    // Arbitrum
	8453,     // Base
	11155111, // Sepolia
	84532,    // Base Sepolia
}

// DefaultSettlementChainID is the network where recipients receive USDC
// unless configured otherwise.
const DefaultSettlementChainID = 8453

// chainNames maps chain IDs to their names
var chainNames = map[int]string{
	1:        "ETHEREUM",
	137:      "POLYGON",
	42161:    "ARBITRUM",
	8453:     "BASE",
	11155111: "SEPOLIA",
	84532:    "BASE_SEPOLIA",
}

// testnets contains the chain IDs of supported test networks.
// The cross-chain aggregator does not route on these.
var testnets = map[int]bool{
	11155111: true,
	84532:    true,
}

// usdcAddresses maps chain IDs to the canonical USDC contract address
var usdcAddresses = map[int]string{
	1:        "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
	137:      "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
	42161:    "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
	8453:     "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	11155111: "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238",
	84532:    "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
}

// explorerURLs maps chain IDs to block explorer base URLs
var explorerURLs = map[int]string{
	1:        "https://etherscan.io",
	137:      "https://polygonscan.com",
	42161:    "https://arbiscan.io",
	8453:     "https://basescan.org",
	11155111: "https://sepolia.etherscan.io",
	84532:    "https://sepolia.basescan.org",
}

// GetChainName returns the name of the chain for a given chain ID
func GetChainName(chainID int) string {
	name, exists := chainNames[chainID]
	if !exists {
		return ""
	}
	return name
}

// IsTestnet reports whether the given chain ID is a known test network
func IsTestnet(chainID int) bool {
	return testnets[chainID]
}

// IsSupported reports whether the given chain ID is in the supported set
func IsSupported(chainID int) bool {
	_, exists := chainNames[chainID]
	return exists
}

// GetUSDCAddress returns the USDC contract address for a given chain ID
func GetUSDCAddress(chainID int) string {
	addr, exists := usdcAddresses[chainID]
	if !exists {
		return ""
	}
	return addr
}

// ExplorerTxURL returns a block explorer link for a transaction hash.
// The chain ID must be the one captured at submission time, not a live
// re-read, since the wallet may have switched networks since.
func ExplorerTxURL(chainID int, txHash string) string {
	base, exists := explorerURLs[chainID]
	if !exists {
		return ""
	}
	return base + "/tx/" + txHash
}
