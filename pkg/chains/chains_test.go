package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainRegistry(t *testing.T) {
	for _, chainID := range ChainList {
		assert.True(t, IsSupported(chainID), "chain %d", chainID)
		assert.NotEmpty(t, GetChainName(chainID), "chain %d", chainID)
		assert.NotEmpty(t, GetUSDCAddress(chainID), "chain %d", chainID)
	}

	assert.False(t, IsSupported(999999))
	assert.Empty(t, GetChainName(999999))
	assert.Empty(t, GetUSDCAddress(999999))
}

func TestIsTestnet(t *testing.T) {
	assert.True(t, IsTestnet(11155111))
	assert.True(t, IsTestnet(84532))
	assert.False(t, IsTestnet(1))
	assert.False(t, IsTestnet(8453))
}

func TestExplorerTxURL(t *testing.T) {
	assert.Equal(t, "https://basescan.org/tx/0xabc", ExplorerTxURL(8453, "0xabc"))
	assert.Empty(t, ExplorerTxURL(999999, "0xabc"))
}
