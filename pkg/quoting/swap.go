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

// SwapClient fetches same-chain swap quotes from a Uniswap V3 style
// routing API. The returned plan swaps the payer's input token into
// an exact USDC output at the recipient's address.
type SwapClient struct {
	endpoint   string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     logger.Logger
}

var _ SwapQuoter = (*SwapClient)(nil)

// NewSwapClient creates a new swap quote client
func NewSwapClient(endpoint string, breaker *circuitbreaker.CircuitBreaker, log logger.Logger) *SwapClient {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &SwapClient{
		endpoint:   endpoint,
		httpClient: createHTTPClient(),
		breaker:    breaker,
		logger:     log,
	}
}

// swapQuoteRequest is the wire format of the routing API request
type swapQuoteRequest struct {
	ChainID      int    `json:"chainId"`
	TokenOut     string `json:"tokenOut"`
	AmountOut    string `json:"amountOut"`
	Recipient    string `json:"recipient"`
	SlippageBps  int    `json:"slippageBps"`
	ExactOutput  bool   `json:"exactOutput"`
	QuoteOnly    bool   `json:"quoteOnly"`
	ProtocolTier string `json:"protocolTier,omitempty"`
}

// swapQuoteResponse is the wire format of the routing API response
type swapQuoteResponse struct {
	AmountIn    string          `json:"amountIn"`
	AmountInMax string          `json:"amountInMax"`
	AmountOut   string          `json:"amountOut"`
	FeeEstimate string          `json:"feeEstimate"`
	Route       json.RawMessage `json:"route"`
	Error       string          `json:"error,omitempty"`
}

// QuoteSwap requests a same-chain exact-output swap plan
func (c *SwapClient) QuoteSwap(ctx context.Context, req Request) (*models.Quote, error) {
	if c.breaker != nil && c.breaker.IsOpen() {
		metrics.ProviderBreakerOpen.WithLabelValues("swap").Set(1)
		return nil, fmt.Errorf("swap provider temporarily unavailable (circuit open)")
	}

	usdc := chains.GetUSDCAddress(req.SourceChain)
	if usdc == "" {
		return nil, fmt.Errorf("no USDC deployment known for chain %d", req.SourceChain)
	}

	start := time.Now()
	resp, err := c.post(ctx, swapQuoteRequest{
		ChainID:     req.SourceChain,
		TokenOut:    usdc,
		AmountOut:   req.Amount.String(),
		Recipient:   req.Recipient,
		SlippageBps: req.SlippageBps,
		ExactOutput: true,
	})
	metrics.QuoteFetchTime.WithLabelValues(string(models.StrategySameChain)).Observe(time.Since(start).Seconds())
	if err != nil {
		c.recordFailure()
		metrics.QuotesFetched.WithLabelValues(string(models.StrategySameChain), "failed").Inc()
		return nil, fmt.Errorf("swap quote failed: %v", err)
	}
	c.recordSuccess()
	metrics.QuotesFetched.WithLabelValues(string(models.StrategySameChain), "success").Inc()

	quote, err := c.toQuote(req, resp)
	if err != nil {
		return nil, err
	}

	c.logger.DebugWithChain(req.SourceChain, "Swap quote: %s in (max %s) for %s USDC out",
		quote.SourceAmount.String(), quote.SourceAmountMax.String(), quote.DestAmount.String())
	return quote, nil
}

func (c *SwapClient) post(ctx context.Context, body swapQuoteRequest) (*swapQuoteResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/quote", bytes.NewReader(payload))
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

	var decoded swapQuoteResponse
	if err := json.Unmarshal(bodyBytes, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v, body: %s", err, string(bodyBytes))
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != "" {
			return nil, fmt.Errorf("%s", decoded.Error)
		}
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("%s", decoded.Error)
	}
	return &decoded, nil
}

func (c *SwapClient) toQuote(req Request, resp *swapQuoteResponse) (*models.Quote, error) {
	amountIn, ok := new(big.Int).SetString(resp.AmountIn, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amountIn in quote: %s", resp.AmountIn)
	}
	amountInMax, ok := new(big.Int).SetString(resp.AmountInMax, 10)
	if !ok {
		// Some routes omit the maximum; derive it from the tolerance
		amountInMax = ApplySlippage(amountIn, req.SlippageBps)
	}
	fee := big.NewInt(0)
	if resp.FeeEstimate != "" {
		fee, ok = new(big.Int).SetString(resp.FeeEstimate, 10)
		if !ok {
			return nil, fmt.Errorf("invalid feeEstimate in quote: %s", resp.FeeEstimate)
		}
	}

	return &models.Quote{
		Strategy:         models.StrategySameChain,
		SourceChain:      req.SourceChain,
		DestinationChain: req.SourceChain,
		SourceAmount:     amountIn,
		SourceAmountMax:  amountInMax,
		DestAmount:       new(big.Int).Set(req.Amount),
		Fee:              fee,
		Recipient:        req.Recipient,
		Plan:             resp.Route,
	}, nil
}

func (c *SwapClient) recordFailure() {
	if c.breaker == nil {
		return
	}
	if c.breaker.RecordFailure() {
		metrics.ProviderBreakerOpen.WithLabelValues("swap").Set(1)
	}
}

func (c *SwapClient) recordSuccess() {
	if c.breaker == nil {
		return
	}
	c.breaker.RecordSuccess()
	metrics.ProviderBreakerOpen.WithLabelValues("swap").Set(0)
}
