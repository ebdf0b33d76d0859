package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paylink-hq/paylink/pkg/models"
)

const settlementChain = 8453

func TestSelectTestnetForcesSameChain(t *testing.T) {
	// The aggregator cannot route on test networks, so the testnet
	// rule beats every override.
	testnets := []int{11155111, 84532}
	overrides := []Override{OverrideAuto, OverrideSameChain, OverrideCrossChain}

	for _, chainID := range testnets {
		for _, override := range overrides {
			decision := Select(chainID, settlementChain, override)
			assert.Equal(t, models.StrategySameChain, decision.Strategy,
				"chain %d with override %s should force same-chain", chainID, override)
			assert.Equal(t, "Testnet — cross-chain unsupported.", decision.Reason)
		}
	}
}

func TestSelectExplicitOverrides(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		override Override
		want     models.Strategy
		reason   string
	}{
		{
			name:     "force cross-chain on the settlement chain itself",
			current:  settlementChain,
			override: OverrideCrossChain,
			want:     models.StrategyCrossChain,
			reason:   "User selected cross-chain.",
		},
		{
			name:     "force cross-chain from another chain",
			current:  1,
			override: OverrideCrossChain,
			want:     models.StrategyCrossChain,
			reason:   "User selected cross-chain.",
		},
		{
			name:     "force same-chain from another chain",
			current:  1,
			override: OverrideSameChain,
			want:     models.StrategySameChain,
			reason:   "User selected same-chain.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Select(tt.current, settlementChain, tt.override)
			assert.Equal(t, tt.want, decision.Strategy)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestSelectAuto(t *testing.T) {
	t.Run("same chain as settlement", func(t *testing.T) {
		decision := Select(settlementChain, settlementChain, OverrideAuto)
		assert.Equal(t, models.StrategySameChain, decision.Strategy)
		assert.Equal(t, "Same-chain swap (faster & cheaper)", decision.Reason)
	})

	t.Run("different chain", func(t *testing.T) {
		decision := Select(42161, settlementChain, OverrideAuto)
		assert.Equal(t, models.StrategyCrossChain, decision.Strategy)
		assert.Equal(t, "Cross-chain route required.", decision.Reason)
	})
}
