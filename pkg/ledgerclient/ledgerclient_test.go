package ledgerclient

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paylink-hq/paylink/pkg/ledger"
	"github.com/paylink-hq/paylink/pkg/models"
)

const (
	addrAlice = "0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa"
	addrBob   = "0xBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBb"
	addrCarol = "0xCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCc"
)

// newTestClient spins up a real ledger server on an httptest listener
// and returns a client pointed at it.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	store, err := ledger.NewStore("", nil)
	require.NoError(t, err)
	server := httptest.NewServer(ledger.NewServer("0", store, nil).Handler())
	t.Cleanup(server.Close)
	return New(server.URL, nil)
}

func TestIntentLifecycleOverHTTP(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	id, err := c.CreateIntent(ctx, "25.00", "USDC", addrAlice, "lunch")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	intent, err := c.GetIntent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnpaid, intent.Status)
	assert.Equal(t, "25.00", intent.Amount)

	require.NoError(t, c.CompleteIntent(ctx, id, "0xdead"))

	// Duplicate completion callback is accepted
	require.NoError(t, c.CompleteIntent(ctx, id, "0xdead"))

	intent, err = c.GetIntent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, intent.Status)
	assert.Equal(t, "0xdead", intent.TxHash)

	intents, err := c.ListIntents(ctx)
	require.NoError(t, err)
	assert.Len(t, intents, 1)

	require.NoError(t, c.DeleteIntent(ctx, id))
	_, err = c.GetIntent(ctx, id)
	assert.Error(t, err)
}

func TestSplitLifecycleOverHTTP(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	splitID, err := c.CreateSplit(ctx, "100.00", "USDC", addrCarol, "dinner", []models.Participant{
		{Address: addrAlice, Share: 60},
		{Address: addrBob, Share: 40},
	})
	require.NoError(t, err)
	require.NotEmpty(t, splitID)

	result, err := c.PaySplitParticipant(ctx, splitID, addrAlice, "0x01")
	require.NoError(t, err)
	assert.Equal(t, 1, result.PaidCount)
	assert.Equal(t, 2, result.TotalParticipants)
	assert.Equal(t, models.StatusPartial, result.Status)

	result, err = c.PaySplitParticipant(ctx, splitID, addrBob, "0x02")
	require.NoError(t, err)
	assert.Equal(t, 2, result.PaidCount)
	assert.Equal(t, models.StatusPaid, result.Status)
}

func TestServerRejectsInvalidRequests(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.CreateIntent(ctx, "0", "USDC", addrAlice, "")
	assert.Error(t, err, "zero amount")

	_, err = c.CreateSplit(ctx, "100.00", "USDC", addrCarol, "", []models.Participant{
		{Address: addrAlice, Share: 60},
		{Address: addrBob, Share: 30},
	})
	assert.Error(t, err, "shares not summing to 100")

	splitID, err := c.CreateSplit(ctx, "100.00", "USDC", addrCarol, "", []models.Participant{
		{Address: addrAlice, Share: 100},
	})
	require.NoError(t, err)

	_, err = c.PaySplitParticipant(ctx, splitID, addrBob, "0x01")
	assert.Error(t, err, "unknown participant")

	err = c.CompleteIntent(ctx, "missing", "0xdead")
	assert.Error(t, err, "unknown intent")
}

func TestClientAgainstUnreachableLedger(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)
	_, err := c.CreateIntent(context.Background(), "25.00", "USDC", addrAlice, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create intent")
}
