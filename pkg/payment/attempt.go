// Package payment drives the quote, sign, submit, confirm lifecycle
// of one payment attempt. Both the single-payment and split flows use
// the same machine; they differ only in how the recipient is resolved
// and which ledger endpoint the reconcile callback targets.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/paylink-hq/paylink/pkg/logger"
	"github.com/paylink-hq/paylink/pkg/metrics"
	"github.com/paylink-hq/paylink/pkg/models"
	"github.com/paylink-hq/paylink/pkg/names"
	"github.com/paylink-hq/paylink/pkg/quoting"
	"github.com/paylink-hq/paylink/pkg/routing"
	"github.com/paylink-hq/paylink/pkg/wallet"
)

// State is the state of a payment attempt
type State int

const (
	// StateIdle accepts a quote request; with a quote cached it also
	// accepts the pay action
	StateIdle State = iota
	// StateFetchingQuote waits on a quote provider
	StateFetchingQuote
	// StateAwaitingSignature waits on the wallet UI
	StateAwaitingSignature
	// StateSubmitting waits on the broadcast
	StateSubmitting
	// StateConfirming waits for a confirmation signal
	StateConfirming
	// StateSuccess is terminal; reset starts a fresh attempt
	StateSuccess
	// StateError is terminal; reset is required before retrying
	StateError
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingQuote:
		return "fetching-quote"
	case StateAwaitingSignature:
		return "awaiting-signature"
	case StateSubmitting:
		return "submitting"
	case StateConfirming:
		return "confirming"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// inFlight reports whether a phase of the attempt is currently
// waiting on an external call; a second pay or quote action must be
// rejected while it is.
func (s State) inFlight() bool {
	switch s {
	case StateFetchingQuote, StateAwaitingSignature, StateSubmitting, StateConfirming:
		return true
	}
	return false
}

var (
	// ErrNoQuote is returned when pay is invoked without a cached quote
	ErrNoQuote = errors.New("no quote available, request a quote first")
	// ErrInFlight is returned when an action arrives while a prior
	// phase is still waiting on an external call
	ErrInFlight = errors.New("payment attempt already in flight")
	// ErrTerminal is returned when an action arrives in a terminal
	// state; reset is required first
	ErrTerminal = errors.New("attempt finished, reset before retrying")
)

// ReconcileFunc reports a successful payment to the intent ledger.
// The target intent or split participant is bound at construction.
type ReconcileFunc func(ctx context.Context, txHash common.Hash) error

// Deps are the external collaborators of one attempt
type Deps struct {
	Swap      quoting.SwapQuoter
	Bridge    quoting.BridgeQuoter
	Submitter wallet.Submitter
	Readers   ReaderFor
	Resolver  names.Resolver
	Reconcile ReconcileFunc
	Logger    logger.Logger
}

// Config tunes the attempt
type Config struct {
	SettlementChain int
	SlippageBps     int
	// ConfirmTimeout bounds the receipt wait before falling back to a
	// plain transaction lookup
	ConfirmTimeout time.Duration
	// ReceiptPollInterval is the delay between receipt polls
	ReceiptPollInterval time.Duration
	// OnTransition, when set, observes every state change
	OnTransition func(from, to State)
}

// QuoteParams are the inputs of the quote action
type QuoteParams struct {
	SourceChain int
	Recipient   string // 0x address or resolvable name
	Amount      string // face value in USD, decimal string
	Override    routing.Override
}

// Attempt is the transient run of the state machine for one quote.
// It is destroyed or reset on success acknowledgement, explicit
// reset, or navigation away; nothing in it is persisted.
type Attempt struct {
	mu             sync.Mutex
	state          State
	decision       routing.Decision
	quote          *models.Quote
	submittedChain int
	txHash         common.Hash
	lastErr        error
	reconciled     bool

	deps Deps
	cfg  Config
}

// NewAttempt creates an idle attempt
func NewAttempt(deps Deps, cfg Config) *Attempt {
	if deps.Logger == nil {
		deps.Logger = &logger.EmptyLogger{}
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 60 * time.Second
	}
	if cfg.ReceiptPollInterval <= 0 {
		cfg.ReceiptPollInterval = 2 * time.Second
	}
	return &Attempt{deps: deps, cfg: cfg}
}

// RequestQuote validates the inputs, selects a route and fetches an
// executable plan. Validation failures never reach a provider.
func (a *Attempt) RequestQuote(ctx context.Context, p QuoteParams) error {
	a.mu.Lock()
	if a.state.inFlight() {
		a.mu.Unlock()
		return ErrInFlight
	}
	if a.state == StateSuccess || a.state == StateError {
		a.mu.Unlock()
		return ErrTerminal
	}
	// A fresh quote request discards any cached quote
	a.quote = nil
	a.setStateLocked(StateFetchingQuote)
	a.mu.Unlock()

	quote, decision, err := a.fetchQuote(ctx, p)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.failLocked(err)
		return err
	}
	a.quote = quote
	a.decision = decision
	a.setStateLocked(StateIdle)
	return nil
}

func (a *Attempt) fetchQuote(ctx context.Context, p QuoteParams) (*models.Quote, routing.Decision, error) {
	// Fail fast on bad input before any provider call
	amount, err := quoting.ParseUSD(p.Amount)
	if err != nil {
		return nil, routing.Decision{}, err
	}
	recipient, err := names.NormalizeRecipient(ctx, a.deps.Resolver, p.Recipient)
	if err != nil {
		return nil, routing.Decision{}, err
	}

	decision := routing.Select(p.SourceChain, a.cfg.SettlementChain, p.Override)
	a.deps.Logger.InfoWithChain(p.SourceChain, "Route selected: %s (%s)", decision.Strategy, decision.Reason)

	req := quoting.Request{
		SourceChain:      p.SourceChain,
		DestinationChain: a.cfg.SettlementChain,
		Recipient:        recipient.Hex(),
		Amount:           amount,
		SlippageBps:      a.cfg.SlippageBps,
	}

	var quote *models.Quote
	if decision.Strategy == models.StrategySameChain {
		req.DestinationChain = p.SourceChain
		quote, err = a.deps.Swap.QuoteSwap(ctx, req)
	} else {
		quote, err = a.deps.Bridge.QuoteBridge(ctx, req)
	}
	if err != nil {
		return nil, decision, err
	}
	return quote, decision, nil
}

// Execute runs the pay action: sign, broadcast, confirm, reconcile.
// It is rejected without a quote and while a prior phase is in
// flight. The chain id active now is frozen for the remainder of the
// attempt; explorer links must use it rather than a live re-read,
// because the wallet may switch networks during confirmation.
func (a *Attempt) Execute(ctx context.Context) error {
	a.mu.Lock()
	if a.state.inFlight() {
		a.mu.Unlock()
		return ErrInFlight
	}
	if a.state == StateSuccess || a.state == StateError {
		a.mu.Unlock()
		return ErrTerminal
	}
	if a.quote == nil {
		a.mu.Unlock()
		return ErrNoQuote
	}
	quote := a.quote
	a.submittedChain = quote.SourceChain
	a.setStateLocked(StateAwaitingSignature)
	a.mu.Unlock()

	start := time.Now()
	chainLabel := strconv.Itoa(quote.SourceChain)

	txHash, err := a.submit(ctx, quote)
	if err != nil {
		a.mu.Lock()
		a.failLocked(err)
		a.mu.Unlock()
		if errors.Is(err, wallet.ErrRejected) {
			metrics.SignatureRejections.Inc()
			metrics.PaymentsExecuted.WithLabelValues(chainLabel, "rejected").Inc()
		} else {
			metrics.PaymentsExecuted.WithLabelValues(chainLabel, "failed").Inc()
		}
		return err
	}

	a.mu.Lock()
	a.txHash = txHash
	a.setStateLocked(StateConfirming)
	a.mu.Unlock()

	if err := a.confirm(ctx, quote.SourceChain, txHash); err != nil {
		a.mu.Lock()
		a.failLocked(err)
		a.mu.Unlock()
		metrics.PaymentsExecuted.WithLabelValues(chainLabel, "failed").Inc()
		return err
	}

	a.mu.Lock()
	a.setStateLocked(StateSuccess)
	fire := !a.reconciled && a.deps.Reconcile != nil
	if fire {
		a.reconciled = true
	}
	a.mu.Unlock()

	metrics.PaymentsExecuted.WithLabelValues(chainLabel, "success").Inc()
	metrics.PaymentExecutionTime.WithLabelValues(chainLabel).Observe(time.Since(start).Seconds())
	a.deps.Logger.NoticeWithChain(quote.SourceChain, "Payment confirmed: %s", txHash.Hex())

	// The on-chain payment already succeeded; a ledger write failure
	// is logged and surfaced through metrics, never fatal here.
	if fire {
		if err := a.deps.Reconcile(ctx, txHash); err != nil {
			a.deps.Logger.Error("Failed to reconcile payment %s with ledger: %v", txHash.Hex(), err)
		}
	}
	return nil
}

// submit drives the wallet through signing and broadcast, mapping the
// submitter's progress events into state transitions.
func (a *Attempt) submit(ctx context.Context, quote *models.Quote) (common.Hash, error) {
	events, err := a.deps.Submitter.Submit(ctx, quote)
	if err != nil {
		if errors.Is(err, wallet.ErrRejected) {
			return common.Hash{}, err
		}
		return common.Hash{}, fmt.Errorf("failed to submit transaction: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return common.Hash{}, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return common.Hash{}, fmt.Errorf("submitter closed the event stream before broadcast")
			}
			if ev.Err != nil {
				if errors.Is(ev.Err, wallet.ErrRejected) {
					return common.Hash{}, ev.Err
				}
				return common.Hash{}, fmt.Errorf("failed to submit transaction: %v", ev.Err)
			}
			switch ev.Stage {
			case wallet.StageSigned:
				a.mu.Lock()
				a.setStateLocked(StateSubmitting)
				a.mu.Unlock()
			case wallet.StageBroadcast:
				return ev.TxHash, nil
			}
		}
	}
}

// Reset clears quote, error, transaction hash and frozen chain id,
// returning the attempt to idle. Callable from any state.
func (a *Attempt) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.quote = nil
	a.decision = routing.Decision{}
	a.txHash = common.Hash{}
	a.lastErr = nil
	a.submittedChain = 0
	a.reconciled = false
	a.setStateLocked(StateIdle)
}

// State returns the current state
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Quote returns the cached quote, or nil
func (a *Attempt) Quote() *models.Quote {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quote
}

// Decision returns the route decision behind the cached quote
func (a *Attempt) Decision() routing.Decision {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.decision
}

// TxHash returns the transaction hash once known
func (a *Attempt) TxHash() common.Hash {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.txHash
}

// SubmittedChainID returns the chain id frozen at the pay action, or
// zero if the attempt never reached it
func (a *Attempt) SubmittedChainID() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submittedChain
}

// Err returns the error that moved the attempt to StateError, or nil
func (a *Attempt) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *Attempt) setStateLocked(to State) {
	from := a.state
	a.state = to
	if a.cfg.OnTransition != nil && from != to {
		a.cfg.OnTransition(from, to)
	}
}

func (a *Attempt) failLocked(err error) {
	a.lastErr = err
	a.setStateLocked(StateError)
}
