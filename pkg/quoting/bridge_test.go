package quoting

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paylink-hq/paylink/pkg/models"
)

func bridgeRequest(from, to int) Request {
	return Request{
		SourceChain:      from,
		DestinationChain: to,
		Recipient:        testRecipient,
		Amount:           big.NewInt(25_000000),
		SlippageBps:      50,
	}
}

func TestQuoteBridge(t *testing.T) {
	var received bridgeRouteRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/routes", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(bridgeRouteResponse{
			FromAmount:    "25100000",
			FromAmountMax: "25225500",
			ToAmount:      "25000000",
			BridgeFee:     "100000",
			Route:         json.RawMessage(`{"bridge":"across","steps":2}`),
		})
	}))
	defer server.Close()

	c := NewBridgeClient(server.URL, nil, nil)
	quote, err := c.QuoteBridge(context.Background(), bridgeRequest(1, 8453))
	require.NoError(t, err)

	assert.Equal(t, 1, received.FromChainID)
	assert.Equal(t, 8453, received.ToChainID)
	assert.Equal(t, "25000000", received.ToAmount)

	assert.Equal(t, models.StrategyCrossChain, quote.Strategy)
	assert.Equal(t, 1, quote.SourceChain)
	assert.Equal(t, 8453, quote.DestinationChain)
	assert.Equal(t, int64(25_100000), quote.SourceAmount.Int64())
	assert.Equal(t, int64(25_000000), quote.DestAmount.Int64())
	assert.Equal(t, int64(100000), quote.Fee.Int64())
	assert.NotEmpty(t, quote.Plan)
}

func TestQuoteBridgeRejectsTestnets(t *testing.T) {
	calls := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	c := NewBridgeClient(server.URL, nil, nil)

	for _, req := range []Request{
		bridgeRequest(11155111, 8453),
		bridgeRequest(84532, 8453),
		bridgeRequest(1, 84532),
	} {
		_, err := c.QuoteBridge(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not supported on test networks")
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "aggregator must not be contacted")
}

func TestQuoteBridgeNoLiquidity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// 200 with an explanatory message and no route
		_ = json.NewEncoder(w).Encode(bridgeRouteResponse{
			Message: "no route with sufficient liquidity for pair",
		})
	}))
	defer server.Close()

	c := NewBridgeClient(server.URL, nil, nil)
	_, err := c.QuoteBridge(context.Background(), bridgeRequest(1, 8453))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route with sufficient liquidity")
}

func TestQuoteBridgeUnreachableProvider(t *testing.T) {
	c := NewBridgeClient("http://127.0.0.1:1", nil, nil)
	_, err := c.QuoteBridge(context.Background(), bridgeRequest(1, 8453))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cross-chain quote failed")
}
