// Package wallet defines the contract between the payment state
// machine and the external wallet that signs and broadcasts plans.
// The wallet itself (connection, key custody, signing UI) lives
// outside this module; nothing here ever holds value.
package wallet

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/paylink-hq/paylink/pkg/models"
)

// ErrRejected is returned when the user declines the signature
// request in the wallet UI. Callers surface it differently from other
// failures: nothing happened and it is safe to retry immediately.
var ErrRejected = errors.New("rejected by user")

// Stage identifies a point in the sign-and-broadcast flow
type Stage int

const (
	// StageSigned means the wallet produced a signature
	StageSigned Stage = iota
	// StageBroadcast means a transaction hash exists. Broadcast is not
	// finality: the transaction was only accepted by the wallet's node.
	StageBroadcast
)

// Progress is one event in the submission stream
type Progress struct {
	Stage  Stage
	TxHash common.Hash
	Err    error
}

// Submitter drives wallet signing and broadcast for an execution
// plan. Implementations send progress events on the returned channel
// and close it after the terminal event: StageBroadcast with a hash,
// or any event with Err set. The signature request blocks for as long
// as the user deliberates; cancelling ctx abandons the attempt.
type Submitter interface {
	Submit(ctx context.Context, quote *models.Quote) (<-chan Progress, error)
}
