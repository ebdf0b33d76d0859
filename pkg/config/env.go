package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/paylink-hq/paylink/pkg/chains"
	"github.com/paylink-hq/paylink/pkg/logger"
)

const (
	// DefaultLedgerPort defines the default port for the ledger API server
	DefaultLedgerPort = "8080"

	// DefaultLedgerDataFile defines where the ledger persists intents
	DefaultLedgerDataFile = "data/ledger.json"

	// DefaultSettlementChainID defines the chain where recipients receive USDC
	DefaultSettlementChainID = chains.DefaultSettlementChainID

	// DefaultSlippageBps defines the default slippage tolerance in basis points
	DefaultSlippageBps = 50

	// DefaultConfirmTimeoutSeconds bounds the receipt wait before the
	// transaction-lookup fallback kicks in
	DefaultConfirmTimeoutSeconds = 60

	// DefaultSwapAPIEndpoint defines the same-chain swap routing API
	DefaultSwapAPIEndpoint = "https://api.uniswap.org"

	// DefaultBridgeAPIEndpoint defines the cross-chain aggregator API
	DefaultBridgeAPIEndpoint = "https://api.rango.exchange"

	// DefaultResolverEndpoint defines the ENS gateway used for name resolution
	DefaultResolverEndpoint = "https://api.ensideas.com/ens"

	// DefaultBreakerEnabled defines whether provider circuit breakers are enabled
	DefaultBreakerEnabled = true

	// DefaultBreakerThreshold defines the number of provider failures before the circuit trips
	DefaultBreakerThreshold = 5

	// DefaultBreakerWindowSeconds defines the failure window for the circuit breaker
	DefaultBreakerWindowSeconds = 60

	// DefaultBreakerResetSeconds defines the reset timeout for the circuit breaker
	DefaultBreakerResetSeconds = 30

	// Default RPC URLs per supported chain, overridable per chain via
	// CHAIN_<id>_RPC_URL

	DefaultEthereumRPCURL    = "https://eth.llamarpc.com"
	DefaultPolygonRPCURL     = "https://polygon-rpc.com"
	DefaultArbitrumRPCURL    = "https://arb1.arbitrum.io/rpc"
	DefaultBaseRPCURL        = "https://mainnet.base.org"
	DefaultSepoliaRPCURL     = "https://ethereum-sepolia-rpc.publicnode.com"
	DefaultBaseSepoliaRPCURL = "https://sepolia.base.org"
)

var defaultRPCURLs = map[int]string{
	1:        DefaultEthereumRPCURL,
	137:      DefaultPolygonRPCURL,
	42161:    DefaultArbitrumRPCURL,
	8453:     DefaultBaseRPCURL,
	11155111: DefaultSepoliaRPCURL,
	84532:    DefaultBaseSepoliaRPCURL,
}

// GetEnvLedgerPort returns the ledger server port from environment variables
func GetEnvLedgerPort() (string, error) {
	port := os.Getenv("LEDGER_PORT")
	if port == "" {
		return DefaultLedgerPort, nil
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("invalid LEDGER_PORT value: %s, must be a valid integer", port)
	}
	return port, nil
}

// GetEnvLedgerDataFile returns the ledger persistence path
func GetEnvLedgerDataFile() string {
	path := os.Getenv("LEDGER_DATA_FILE")
	if path == "" {
		return DefaultLedgerDataFile
	}
	return path
}

// GetEnvSettlementChain returns the settlement chain id from environment variables
func GetEnvSettlementChain() (int, error) {
	value := os.Getenv("SETTLEMENT_CHAIN_ID")
	if value == "" {
		return DefaultSettlementChainID, nil
	}
	chainID, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid SETTLEMENT_CHAIN_ID value: %s, must be an integer", value)
	}
	if !chains.IsSupported(chainID) {
		return 0, fmt.Errorf("unsupported SETTLEMENT_CHAIN_ID: %d", chainID)
	}
	return chainID, nil
}

// GetEnvSlippageBps returns the slippage tolerance in basis points
func GetEnvSlippageBps() (int, error) {
	value := os.Getenv("SLIPPAGE_BPS")
	if value == "" {
		return DefaultSlippageBps, nil
	}
	bps, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid SLIPPAGE_BPS value: %s, must be an integer", value)
	}
	if bps < 0 || bps > 5000 {
		return 0, fmt.Errorf("SLIPPAGE_BPS must be between 0 and 5000")
	}
	return bps, nil
}

// GetEnvConfirmTimeout returns the confirmation wait timeout
func GetEnvConfirmTimeout() (time.Duration, error) {
	value := os.Getenv("CONFIRM_TIMEOUT")
	if value == "" {
		return time.Duration(DefaultConfirmTimeoutSeconds) * time.Second, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid CONFIRM_TIMEOUT value: %s, must be an integer", value)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("CONFIRM_TIMEOUT must be greater than 0")
	}
	return time.Duration(seconds) * time.Second, nil
}

// GetEnvSwapAPIEndpoint returns the swap routing API endpoint
func GetEnvSwapAPIEndpoint() string {
	endpoint := os.Getenv("SWAP_API_ENDPOINT")
	if endpoint == "" {
		return DefaultSwapAPIEndpoint
	}
	return endpoint
}

// GetEnvBridgeAPIEndpoint returns the cross-chain aggregator API endpoint
func GetEnvBridgeAPIEndpoint() string {
	endpoint := os.Getenv("BRIDGE_API_ENDPOINT")
	if endpoint == "" {
		return DefaultBridgeAPIEndpoint
	}
	return endpoint
}

// GetEnvResolverEndpoint returns the name resolver gateway endpoint
func GetEnvResolverEndpoint() string {
	endpoint := os.Getenv("RESOLVER_ENDPOINT")
	if endpoint == "" {
		return DefaultResolverEndpoint
	}
	return endpoint
}

// GetEnvBreakerEnabled returns whether provider circuit breakers are enabled
func GetEnvBreakerEnabled() (bool, error) {
	value := os.Getenv("BREAKER_ENABLED")
	if value == "" {
		return DefaultBreakerEnabled, nil
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid BREAKER_ENABLED value: %s, must be a boolean", value)
	}
	return enabled, nil
}

// GetEnvBreakerThreshold returns the circuit breaker failure threshold
func GetEnvBreakerThreshold() (int, error) {
	value := os.Getenv("BREAKER_THRESHOLD")
	if value == "" {
		return DefaultBreakerThreshold, nil
	}
	threshold, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid BREAKER_THRESHOLD value: %s, must be an integer", value)
	}
	if threshold <= 0 {
		return 0, fmt.Errorf("BREAKER_THRESHOLD must be greater than 0")
	}
	return threshold, nil
}

// GetEnvBreakerWindow returns the circuit breaker failure window
func GetEnvBreakerWindow() (time.Duration, error) {
	value := os.Getenv("BREAKER_WINDOW")
	if value == "" {
		return time.Duration(DefaultBreakerWindowSeconds) * time.Second, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid BREAKER_WINDOW value: %s, must be an integer", value)
	}
	return time.Duration(seconds) * time.Second, nil
}

// GetEnvBreakerReset returns the circuit breaker reset timeout
func GetEnvBreakerReset() (time.Duration, error) {
	value := os.Getenv("BREAKER_RESET")
	if value == "" {
		return time.Duration(DefaultBreakerResetSeconds) * time.Second, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid BREAKER_RESET value: %s, must be an integer", value)
	}
	return time.Duration(seconds) * time.Second, nil
}

// GetEnvLogLevel returns the log level from environment variables
func GetEnvLogLevel() (logger.Level, error) {
	value := os.Getenv("LOG_LEVEL")
	if value == "" {
		return logger.InfoLevel, nil
	}
	switch value {
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "notice":
		return logger.NoticeLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL value: %s, must be debug, info, notice or error", value)
}

// GetEnvLogColoring returns whether log coloring is enabled
func GetEnvLogColoring() (bool, error) {
	value := os.Getenv("LOG_COLORING")
	if value == "" {
		return true, nil
	}
	coloring, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid LOG_COLORING value: %s, must be a boolean", value)
	}
	return coloring, nil
}

// GetEnvChainRPCs returns the RPC URL for every supported chain,
// applying CHAIN_<id>_RPC_URL overrides on top of the defaults
func GetEnvChainRPCs() map[int]string {
	rpcs := make(map[int]string, len(defaultRPCURLs))
	for chainID, url := range defaultRPCURLs {
		if override := os.Getenv(fmt.Sprintf("CHAIN_%d_RPC_URL", chainID)); override != "" {
			rpcs[chainID] = override
			continue
		}
		rpcs[chainID] = url
	}
	return rpcs
}
