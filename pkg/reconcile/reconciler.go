// Package reconcile writes on-chain payment outcomes back into the
// intent ledger. By the time it runs the user's funds have already
// moved, so a ledger failure here is bookkeeping drift to surface,
// never a reason to fail the payment.
package reconcile

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/paylink-hq/paylink/pkg/ledgerclient"
	"github.com/paylink-hq/paylink/pkg/logger"
	"github.com/paylink-hq/paylink/pkg/metrics"
	"github.com/paylink-hq/paylink/pkg/payment"
)

// Reconciler reports successful payments to the ledger. The ledger's
// completion endpoints are idempotent, so duplicate notifications
// (component re-renders, retried callbacks) are harmless.
type Reconciler struct {
	client *ledgerclient.Client
	logger logger.Logger
}

// New creates a reconciler over the given ledger client
func New(client *ledgerclient.Client, log logger.Logger) *Reconciler {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &Reconciler{client: client, logger: log}
}

// IntentPaid records the completion of a single-payment intent
func (r *Reconciler) IntentPaid(ctx context.Context, intentID string, txHash common.Hash) error {
	if err := r.client.CompleteIntent(ctx, intentID, txHash.Hex()); err != nil {
		metrics.ReconciliationFailures.WithLabelValues("payment").Inc()
		r.logger.Error("Reconciliation failed for intent %s (tx %s): %v", intentID, txHash.Hex(), err)
		return fmt.Errorf("payment succeeded but ledger update failed: %v", err)
	}
	r.logger.Info("Reconciled intent %s with tx %s", intentID, txHash.Hex())
	return nil
}

// ParticipantPaid records one participant's payment of a split
func (r *Reconciler) ParticipantPaid(ctx context.Context, splitID, participantAddress string, txHash common.Hash) error {
	result, err := r.client.PaySplitParticipant(ctx, splitID, participantAddress, txHash.Hex())
	if err != nil {
		metrics.ReconciliationFailures.WithLabelValues("split").Inc()
		r.logger.Error("Reconciliation failed for split %s participant %s (tx %s): %v",
			splitID, participantAddress, txHash.Hex(), err)
		return fmt.Errorf("payment succeeded but ledger update failed: %v", err)
	}
	r.logger.Info("Reconciled split %s participant %s: %d/%d paid, status %s",
		splitID, participantAddress, result.PaidCount, result.TotalParticipants, result.Status)
	return nil
}

// ForIntent binds a single-payment intent to a reconcile callback for
// the payment state machine.
func (r *Reconciler) ForIntent(intentID string) payment.ReconcileFunc {
	return func(ctx context.Context, txHash common.Hash) error {
		return r.IntentPaid(ctx, intentID, txHash)
	}
}

// ForParticipant binds a split participant to a reconcile callback
// for the payment state machine.
func (r *Reconciler) ForParticipant(splitID, participantAddress string) payment.ReconcileFunc {
	return func(ctx context.Context, txHash common.Hash) error {
		return r.ParticipantPaid(ctx, splitID, participantAddress, txHash)
	}
}
