package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paylink-hq/paylink/pkg/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultLedgerPort, cfg.LedgerPort)
	assert.Equal(t, DefaultLedgerDataFile, cfg.LedgerDataFile)
	assert.Equal(t, DefaultSettlementChainID, cfg.SettlementChainID)
	assert.Equal(t, DefaultSlippageBps, cfg.SlippageBps)
	assert.Equal(t, 60*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, DefaultSwapAPIEndpoint, cfg.SwapAPIEndpoint)
	assert.Equal(t, DefaultBridgeAPIEndpoint, cfg.BridgeAPIEndpoint)
	assert.True(t, cfg.Breaker.Enabled)
	assert.Equal(t, DefaultBreakerThreshold, cfg.Breaker.Threshold)
	assert.Equal(t, logger.InfoLevel, cfg.LoggerConfig.Level)
	assert.Len(t, cfg.ChainRPCs, 6)
	assert.NotEmpty(t, cfg.ChainRPCs[cfg.SettlementChainID])
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LEDGER_PORT", "9090")
	t.Setenv("SETTLEMENT_CHAIN_ID", "42161")
	t.Setenv("SLIPPAGE_BPS", "100")
	t.Setenv("CONFIRM_TIMEOUT", "30")
	t.Setenv("SWAP_API_ENDPOINT", "http://localhost:3001")
	t.Setenv("CHAIN_42161_RPC_URL", "http://localhost:8545")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.LedgerPort)
	assert.Equal(t, 42161, cfg.SettlementChainID)
	assert.Equal(t, 100, cfg.SlippageBps)
	assert.Equal(t, 30*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, "http://localhost:3001", cfg.SwapAPIEndpoint)
	assert.Equal(t, "http://localhost:8545", cfg.ChainRPCs[42161])
	assert.Equal(t, logger.DebugLevel, cfg.LoggerConfig.Level)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric port", key: "LEDGER_PORT", value: "abc"},
		{name: "unsupported settlement chain", key: "SETTLEMENT_CHAIN_ID", value: "999999"},
		{name: "non-numeric settlement chain", key: "SETTLEMENT_CHAIN_ID", value: "base"},
		{name: "negative slippage", key: "SLIPPAGE_BPS", value: "-1"},
		{name: "excessive slippage", key: "SLIPPAGE_BPS", value: "9999"},
		{name: "zero confirm timeout", key: "CONFIRM_TIMEOUT", value: "0"},
		{name: "bad breaker flag", key: "BREAKER_ENABLED", value: "maybe"},
		{name: "zero breaker threshold", key: "BREAKER_THRESHOLD", value: "0"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvChainRPCsOverride(t *testing.T) {
	t.Setenv("CHAIN_1_RPC_URL", "http://localhost:8545")

	rpcs := GetEnvChainRPCs()
	assert.Equal(t, "http://localhost:8545", rpcs[1])
	assert.Equal(t, DefaultBaseRPCURL, rpcs[8453])
}
