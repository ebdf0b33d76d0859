package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/paylink-hq/paylink/pkg/metrics"
)

// ErrMayNotHaveBroadcast marks the uncertainty case: the receipt wait
// timed out and the transaction was not visible on-chain either. The
// user must check their wallet or an explorer before retrying, to
// avoid paying twice.
var ErrMayNotHaveBroadcast = errors.New("transaction may not have broadcast, check your wallet before retrying")

// ChainReader is the subset of an RPC client needed to confirm a
// broadcast transaction. *ethclient.Client satisfies it.
type ChainReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, txHash common.Hash) (tx *types.Transaction, isPending bool, err error)
}

// ReaderFor returns the chain reader for a chain id, or nil if the
// chain has no configured RPC endpoint.
type ReaderFor func(chainID int) ChainReader

// confirm applies the confirmation policy: wait for a mined receipt
// up to the bounded timeout, then fall back to a plain transaction
// lookup. A transaction found pending counts as a positive signal and
// the attempt succeeds; success is never claimed without at least one
// such signal.
func (a *Attempt) confirm(ctx context.Context, chainID int, txHash common.Hash) error {
	if a.deps.Readers == nil {
		return fmt.Errorf("no chain reader configured for chain %d", chainID)
	}
	reader := a.deps.Readers(chainID)
	if reader == nil {
		return fmt.Errorf("no chain reader configured for chain %d", chainID)
	}

	chainLabel := strconv.Itoa(chainID)
	deadline := time.Now().Add(a.cfg.ConfirmTimeout)

	for {
		receipt, err := reader.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return fmt.Errorf("transaction %s reverted on chain %d", txHash.Hex(), chainID)
			}
			return nil
		}

		if time.Now().After(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.cfg.ReceiptPollInterval):
		}
	}

	a.deps.Logger.ErrorWithChain(chainID, "Receipt wait timed out for %s, falling back to transaction lookup", txHash.Hex())

	// The receipt never arrived inside the window. A transaction that
	// is at least visible on-chain (mined or in the pending pool) is
	// treated as success; the receipt is simply late.
	_, _, err := reader.TransactionByHash(ctx, txHash)
	if err == nil {
		metrics.ConfirmationFallbacks.WithLabelValues(chainLabel, "found").Inc()
		a.deps.Logger.NoticeWithChain(chainID, "Transaction %s visible on-chain after receipt timeout", txHash.Hex())
		return nil
	}

	metrics.ConfirmationFallbacks.WithLabelValues(chainLabel, "missing").Inc()
	return fmt.Errorf("%w: %s", ErrMayNotHaveBroadcast, txHash.Hex())
}
