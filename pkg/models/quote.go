package models

import (
	"encoding/json"
	"math/big"
)

// Strategy is the execution strategy for a payment
type Strategy string

const (
	// StrategySameChain is a direct DEX swap with no bridging
	StrategySameChain Strategy = "same-chain"
	// StrategyCrossChain is a bridge-plus-swap route spanning two networks
	StrategyCrossChain Strategy = "cross-chain"
)

// Quote is an ephemeral execution plan produced by a quote provider
// for one payment attempt. It is consumed at most once and never
// persisted; any chain or amount change discards it.
type Quote struct {
	Strategy         Strategy
	SourceChain      int
	DestinationChain int
	// SourceAmount is the estimated input amount in the source token's
	// smallest unit. SourceAmountMax is the slippage-adjusted maximum.
	SourceAmount    *big.Int
	SourceAmountMax *big.Int
	// DestAmount is the exact USDC output in smallest units (6 decimals)
	DestAmount *big.Int
	Fee        *big.Int
	Recipient  string
	// Plan is the provider-specific route payload, passed through
	// opaque to the transaction submitter.
	Plan json.RawMessage
}
