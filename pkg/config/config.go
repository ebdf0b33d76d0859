package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/paylink-hq/paylink/pkg/logger"
)

// Config holds the configuration for the paylink services
type Config struct {
	LedgerPort        string
	LedgerDataFile    string
	SettlementChainID int
	SlippageBps       int
	ConfirmTimeout    time.Duration
	SwapAPIEndpoint   string
	BridgeAPIEndpoint string
	ResolverEndpoint  string
	ChainRPCs         map[int]string
	Breaker           BreakerConfig
	LoggerConfig      LoggerConfig
}

// BreakerConfig holds circuit breaker configuration for quote providers
type BreakerConfig struct {
	Enabled        bool
	Threshold      int
	WindowDuration time.Duration
	ResetTimeout   time.Duration
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	ledgerPort, err := GetEnvLedgerPort()
	if err != nil {
		return nil, err
	}

	settlementChain, err := GetEnvSettlementChain()
	if err != nil {
		return nil, err
	}

	slippageBps, err := GetEnvSlippageBps()
	if err != nil {
		return nil, err
	}

	confirmTimeout, err := GetEnvConfirmTimeout()
	if err != nil {
		return nil, err
	}

	breakerEnabled, err := GetEnvBreakerEnabled()
	if err != nil {
		return nil, err
	}

	breakerThreshold, err := GetEnvBreakerThreshold()
	if err != nil {
		return nil, err
	}

	breakerWindow, err := GetEnvBreakerWindow()
	if err != nil {
		return nil, err
	}

	breakerReset, err := GetEnvBreakerReset()
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LedgerPort:        ledgerPort,
		LedgerDataFile:    GetEnvLedgerDataFile(),
		SettlementChainID: settlementChain,
		SlippageBps:       slippageBps,
		ConfirmTimeout:    confirmTimeout,
		SwapAPIEndpoint:   GetEnvSwapAPIEndpoint(),
		BridgeAPIEndpoint: GetEnvBridgeAPIEndpoint(),
		ResolverEndpoint:  GetEnvResolverEndpoint(),
		ChainRPCs:         GetEnvChainRPCs(),
		Breaker: BreakerConfig{
			Enabled:        breakerEnabled,
			Threshold:      breakerThreshold,
			WindowDuration: breakerWindow,
			ResetTimeout:   breakerReset,
		},
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.SwapAPIEndpoint == "" {
		return fmt.Errorf("SWAP_API_ENDPOINT is required")
	}
	if cfg.BridgeAPIEndpoint == "" {
		return fmt.Errorf("BRIDGE_API_ENDPOINT is required")
	}
	if len(cfg.ChainRPCs) == 0 {
		return fmt.Errorf("at least one chain RPC URL is required")
	}
	if _, ok := cfg.ChainRPCs[cfg.SettlementChainID]; !ok {
		return fmt.Errorf("no RPC URL configured for settlement chain %d", cfg.SettlementChainID)
	}
	return nil
}
