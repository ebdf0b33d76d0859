// Package quoting fetches executable payment plans from the external
// swap and bridge routing services. A quote is ephemeral: it belongs
// to one payment attempt and is discarded on any chain or amount
// change.
package quoting

import (
	"context"
	"math/big"
	"net/http"
	"time"

	"github.com/paylink-hq/paylink/pkg/models"
)

// Request describes the payment a quote is needed for. Amount is the
// exact USDC output wanted at the destination, in smallest units.
type Request struct {
	SourceChain      int
	DestinationChain int
	Recipient        string // resolved 0x address
	Amount           *big.Int
	SlippageBps      int
}

// SwapQuoter produces a same-chain swap plan
type SwapQuoter interface {
	QuoteSwap(ctx context.Context, req Request) (*models.Quote, error)
}

// BridgeQuoter produces a cross-chain bridge-plus-swap plan
type BridgeQuoter interface {
	QuoteBridge(ctx context.Context, req Request) (*models.Quote, error)
}

// defaultRequestTimeout bounds a single quote fetch. The providers
// enforce their own timeouts server-side, but a hung connection must
// not stall the payment flow indefinitely.
const defaultRequestTimeout = 15 * time.Second

// Helper function to create an HTTP client with timeouts
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultRequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
