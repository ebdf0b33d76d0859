// Package routing decides how a payment should be executed: a direct
// swap on the current chain, or a bridge-plus-swap route into the
// settlement chain.
package routing

import (
	"github.com/paylink-hq/paylink/pkg/chains"
	"github.com/paylink-hq/paylink/pkg/models"
)

// Override is an explicit user preference for the execution strategy
type Override string

const (
	// OverrideAuto lets the selector decide from the chain context
	OverrideAuto Override = "auto"
	// OverrideSameChain forces a direct swap on the current chain
	OverrideSameChain Override = "forceSameChain"
	// OverrideCrossChain forces a bridge-plus-swap route
	OverrideCrossChain Override = "forceCrossChain"
)

// Decision is the selected strategy plus a display justification
type Decision struct {
	Strategy models.Strategy
	Reason   string
}

// Select chooses the execution strategy for a payment context. Pure
// function, no I/O. Priority order: testnet beats any override because
// the cross-chain aggregator does not route on test networks, then
// explicit overrides, then the chain comparison.
func Select(currentChain, settlementChain int, override Override) Decision {
	if chains.IsTestnet(currentChain) {
		return Decision{
			Strategy: models.StrategySameChain,
			Reason:   "Testnet — cross-chain unsupported.",
		}
	}

	switch override {
	case OverrideCrossChain:
		return Decision{
			Strategy: models.StrategyCrossChain,
			Reason:   "User selected cross-chain.",
		}
	case OverrideSameChain:
		return Decision{
			Strategy: models.StrategySameChain,
			Reason:   "User selected same-chain.",
		}
	}

	if currentChain == settlementChain {
		return Decision{
			Strategy: models.StrategySameChain,
			Reason:   "Same-chain swap (faster & cheaper)",
		}
	}
	return Decision{
		Strategy: models.StrategyCrossChain,
		Reason:   "Cross-chain route required.",
	}
}
