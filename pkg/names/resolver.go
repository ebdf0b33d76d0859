// Package names resolves human-readable recipient names to chain
// addresses. Resolution sits outside the payment flow proper: a
// recipient is normalized once, before any quote is requested.
package names

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNoBinding is returned when a name exists but has no address set,
// or the resolver knows nothing about it.
var ErrNoBinding = errors.New("name has no address binding")

// Resolver maps a human-readable name to a chain address
type Resolver interface {
	Resolve(ctx context.Context, name string) (common.Address, error)
}

// HTTPResolver resolves names through an ENS gateway API
type HTTPResolver struct {
	endpoint   string
	httpClient *http.Client
}

var _ Resolver = (*HTTPResolver)(nil)

// NewHTTPResolver creates a resolver backed by the given gateway
func NewHTTPResolver(endpoint string) *HTTPResolver {
	return &HTTPResolver{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type resolveResponse struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Error   string `json:"error,omitempty"`
}

// Resolve looks up the address bound to a name
func (r *HTTPResolver) Resolve(ctx context.Context, name string) (common.Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		r.endpoint+"/resolve/"+url.PathEscape(name), nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to build request: %v", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return common.Address{}, fmt.Errorf("resolver unreachable: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return common.Address{}, ErrNoBinding
	}
	if resp.StatusCode != http.StatusOK {
		return common.Address{}, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var decoded resolveResponse
	if err := json.Unmarshal(bodyBytes, &decoded); err != nil {
		return common.Address{}, fmt.Errorf("failed to decode response: %v", err)
	}
	if decoded.Address == "" || !common.IsHexAddress(decoded.Address) {
		return common.Address{}, ErrNoBinding
	}
	return common.HexToAddress(decoded.Address), nil
}

// IsName reports whether the recipient looks like a resolvable name
// rather than a hex address. Names carry at least one dot ("pay.eth").
func IsName(recipient string) bool {
	return strings.Contains(recipient, ".") && !common.IsHexAddress(recipient)
}

// NormalizeRecipient validates a recipient and returns its address.
// Hex addresses pass through; dotted names go through the resolver;
// anything else is a validation error surfaced before any network
// call to a quote provider.
func NormalizeRecipient(ctx context.Context, resolver Resolver, recipient string) (common.Address, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return common.Address{}, fmt.Errorf("recipient is required")
	}
	if common.IsHexAddress(recipient) {
		return common.HexToAddress(recipient), nil
	}
	if IsName(recipient) {
		if resolver == nil {
			return common.Address{}, fmt.Errorf("recipient %q is a name but no resolver is configured", recipient)
		}
		addr, err := resolver.Resolve(ctx, recipient)
		if err != nil {
			if errors.Is(err, ErrNoBinding) {
				return common.Address{}, fmt.Errorf("name %q does not resolve to an address", recipient)
			}
			return common.Address{}, fmt.Errorf("failed to resolve %q: %v", recipient, err)
		}
		return addr, nil
	}
	return common.Address{}, fmt.Errorf("invalid recipient: %q is neither an address nor a name", recipient)
}
