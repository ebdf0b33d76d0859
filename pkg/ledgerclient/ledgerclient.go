// Package ledgerclient provides a client for the intent ledger API.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/paylink-hq/paylink/pkg/logger"
	"github.com/paylink-hq/paylink/pkg/models"
)

// Client represents an intent ledger API client
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a new ledger API client
func New(endpoint string, log logger.Logger) *Client {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: createHTTPClient(),
		logger:     log,
	}
}

// PayResult is the outcome of a split participant payment
type PayResult struct {
	PaidCount         int                 `json:"paidCount"`
	TotalParticipants int                 `json:"totalParticipants"`
	Status            models.IntentStatus `json:"status"`
}

// CreateIntent creates a single-payment intent and returns its id
func (c *Client) CreateIntent(ctx context.Context, amount, token, recipient, note string) (string, error) {
	var resp struct {
		IntentID string `json:"intentId"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/intents", map[string]string{
		"amount":    amount,
		"token":     token,
		"recipient": recipient,
		"note":      note,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to create intent: %v", err)
	}
	return resp.IntentID, nil
}

// CreateSplit creates a split intent and returns its id. Shares are
// validated client-side before this call; the ledger revalidates.
func (c *Client) CreateSplit(ctx context.Context, amount, token, recipient, note string, participants []models.Participant) (string, error) {
	var resp struct {
		SplitID string `json:"splitId"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/splits", map[string]interface{}{
		"amount":       amount,
		"token":        token,
		"recipient":    recipient,
		"note":         note,
		"participants": participants,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to create split: %v", err)
	}
	return resp.SplitID, nil
}

// GetIntent fetches one intent by id
func (c *Client) GetIntent(ctx context.Context, id string) (*models.Intent, error) {
	var intent models.Intent
	if err := c.do(ctx, http.MethodGet, "/api/v1/intents/"+url.PathEscape(id), nil, &intent); err != nil {
		return nil, fmt.Errorf("failed to fetch intent %s: %v", id, err)
	}
	return &intent, nil
}

// ListIntents fetches all intents
func (c *Client) ListIntents(ctx context.Context) ([]models.Intent, error) {
	var intents []models.Intent
	if err := c.do(ctx, http.MethodGet, "/api/v1/intents", nil, &intents); err != nil {
		return nil, fmt.Errorf("failed to fetch intents: %v", err)
	}
	return intents, nil
}

// CompleteIntent reports a single payment's transaction hash to the
// ledger. Safe to repeat with the same arguments.
func (c *Client) CompleteIntent(ctx context.Context, intentID, txHash string) error {
	var resp struct {
		OK bool `json:"ok"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/fusion/callback", map[string]string{
		"intentId": intentID,
		"txHash":   txHash,
	}, &resp)
	if err != nil {
		return fmt.Errorf("failed to complete intent %s: %v", intentID, err)
	}
	return nil
}

// PaySplitParticipant reports a participant's payment of a split.
// Safe to repeat with the same arguments.
func (c *Client) PaySplitParticipant(ctx context.Context, splitID, participantAddress, txHash string) (*PayResult, error) {
	var resp PayResult
	err := c.do(ctx, http.MethodPost, "/api/v1/splits/"+url.PathEscape(splitID)+"/pay", map[string]string{
		"participantAddress": participantAddress,
		"txHash":             txHash,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to record split payment for %s: %v", splitID, err)
	}
	return &resp, nil
}

// DeleteIntent closes (revokes) an intent
func (c *Client) DeleteIntent(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/intents/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete intent %s: %v", id, err)
	}
	return nil
}

// do performs one API round-trip with a JSON body and decodes the
// JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ledger unreachable: %v", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Error("Failed to close response body: %v", err)
		}
	}(resp.Body)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("unexpected status code: %d, error: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %v, body: %s", err, string(bodyBytes))
	}
	return nil
}

// Helper function to create an HTTP client with timeouts
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
