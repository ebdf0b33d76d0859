package quoting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/paylink-hq/paylink/pkg/chains"
	"github.com/paylink-hq/paylink/pkg/circuitbreaker"
	"github.com/paylink-hq/paylink/pkg/logger"
	"github.com/paylink-hq/paylink/pkg/metrics"
	"github.com/paylink-hq/paylink/pkg/models"
)

// BridgeClient fetches cross-chain routes from the multi-bridge
// aggregator. The aggregator picks the bridge and DEX legs itself;
// the returned plan is opaque and handed to the submitter as-is.
type BridgeClient struct {
	endpoint   string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     logger.Logger
}

var _ BridgeQuoter = (*BridgeClient)(nil)

// NewBridgeClient creates a new cross-chain route client
func NewBridgeClient(endpoint string, breaker *circuitbreaker.CircuitBreaker, log logger.Logger) *BridgeClient {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &BridgeClient{
		endpoint:   endpoint,
		httpClient: createHTTPClient(),
		breaker:    breaker,
		logger:     log,
	}
}

// bridgeRouteRequest is the wire format of the aggregator request
type bridgeRouteRequest struct {
	FromChainID int    `json:"fromChainId"`
	ToChainID   int    `json:"toChainId"`
	ToToken     string `json:"toToken"`
	ToAmount    string `json:"toAmount"`
	Recipient   string `json:"recipient"`
	SlippageBps int    `json:"slippageBps"`
}

// bridgeRouteResponse is the wire format of the aggregator response
type bridgeRouteResponse struct {
	FromAmount    string          `json:"fromAmount"`
	FromAmountMax string          `json:"fromAmountMax"`
	ToAmount      string          `json:"toAmount"`
	BridgeFee     string          `json:"bridgeFee"`
	Route         json.RawMessage `json:"route"`
	Message       string          `json:"message,omitempty"`
}

// QuoteBridge requests a cross-chain route delivering an exact USDC
// amount on the destination chain. Test networks are rejected before
// the provider is contacted; the aggregator does not support them.
func (c *BridgeClient) QuoteBridge(ctx context.Context, req Request) (*models.Quote, error) {
	if chains.IsTestnet(req.SourceChain) || chains.IsTestnet(req.DestinationChain) {
		return nil, fmt.Errorf("cross-chain routing is not supported on test networks")
	}
	if c.breaker != nil && c.breaker.IsOpen() {
		metrics.ProviderBreakerOpen.WithLabelValues("bridge").Set(1)
		return nil, fmt.Errorf("bridge provider temporarily unavailable (circuit open)")
	}

	usdc := chains.GetUSDCAddress(req.DestinationChain)
	if usdc == "" {
		return nil, fmt.Errorf("no USDC deployment known for chain %d", req.DestinationChain)
	}

	start := time.Now()
	resp, err := c.post(ctx, bridgeRouteRequest{
		FromChainID: req.SourceChain,
		ToChainID:   req.DestinationChain,
		ToToken:     usdc,
		ToAmount:    req.Amount.String(),
		Recipient:   req.Recipient,
		SlippageBps: req.SlippageBps,
	})
	metrics.QuoteFetchTime.WithLabelValues(string(models.StrategyCrossChain)).Observe(time.Since(start).Seconds())
	if err != nil {
		c.recordFailure()
		metrics.QuotesFetched.WithLabelValues(string(models.StrategyCrossChain), "failed").Inc()
		return nil, fmt.Errorf("cross-chain quote failed: %v", err)
	}
	c.recordSuccess()
	metrics.QuotesFetched.WithLabelValues(string(models.StrategyCrossChain), "success").Inc()

	quote, err := c.toQuote(req, resp)
	if err != nil {
		return nil, err
	}

	c.logger.DebugWithChain(req.SourceChain, "Bridge route: %s in (max %s) for %s USDC on chain %d",
		quote.SourceAmount.String(), quote.SourceAmountMax.String(), quote.DestAmount.String(), req.DestinationChain)
	return quote, nil
}

func (c *BridgeClient) post(ctx context.Context, body bridgeRouteRequest) (*bridgeRouteResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/routes", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("provider unreachable: %v", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Error("Failed to close response body: %v", err)
		}
	}(resp.Body)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	var decoded bridgeRouteResponse
	if err := json.Unmarshal(bodyBytes, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v, body: %s", err, string(bodyBytes))
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Message != "" {
			return nil, fmt.Errorf("%s", decoded.Message)
		}
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}
	if len(decoded.Route) == 0 {
		// The aggregator answers 200 with an explanatory message when
		// it cannot find liquidity for the pair.
		if decoded.Message != "" {
			return nil, fmt.Errorf("%s", decoded.Message)
		}
		return nil, fmt.Errorf("no route found for requested pair")
	}
	return &decoded, nil
}

func (c *BridgeClient) toQuote(req Request, resp *bridgeRouteResponse) (*models.Quote, error) {
	fromAmount, ok := new(big.Int).SetString(resp.FromAmount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid fromAmount in route: %s", resp.FromAmount)
	}
	fromAmountMax, ok := new(big.Int).SetString(resp.FromAmountMax, 10)
	if !ok {
		fromAmountMax = ApplySlippage(fromAmount, req.SlippageBps)
	}
	fee := big.NewInt(0)
	if resp.BridgeFee != "" {
		fee, ok = new(big.Int).SetString(resp.BridgeFee, 10)
		if !ok {
			return nil, fmt.Errorf("invalid bridgeFee in route: %s", resp.BridgeFee)
		}
	}

	return &models.Quote{
		Strategy:         models.StrategyCrossChain,
		SourceChain:      req.SourceChain,
		DestinationChain: req.DestinationChain,
		SourceAmount:     fromAmount,
		SourceAmountMax:  fromAmountMax,
		DestAmount:       new(big.Int).Set(req.Amount),
		Fee:              fee,
		Recipient:        req.Recipient,
		Plan:             resp.Route,
	}, nil
}

func (c *BridgeClient) recordFailure() {
	if c.breaker == nil {
		return
	}
	if c.breaker.RecordFailure() {
		metrics.ProviderBreakerOpen.WithLabelValues("bridge").Set(1)
	}
}

func (c *BridgeClient) recordSuccess() {
	if c.breaker == nil {
		return
	}
	c.breaker.RecordSuccess()
	metrics.ProviderBreakerOpen.WithLabelValues("bridge").Set(0)
}
