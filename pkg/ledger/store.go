// Package ledger is the persisted intent store and its HTTP API. It
// is deliberately plain: a mutex-guarded map flushed to a single JSON
// file, no transactions, no concurrency control beyond atomic
// per-record read-modify-write. Idempotent completion endpoints make
// that enough for concurrent split participants.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/paylink-hq/paylink/pkg/logger"
	"github.com/paylink-hq/paylink/pkg/metrics"
	"github.com/paylink-hq/paylink/pkg/models"
	"github.com/paylink-hq/paylink/pkg/names"
	"github.com/paylink-hq/paylink/pkg/quoting"
)

// ErrNotFound is returned for unknown intent or split ids
var ErrNotFound = errors.New("intent not found")

// ErrUnknownParticipant is returned when a split payment names an
// address that is not part of the split
var ErrUnknownParticipant = errors.New("participant not found in split")

// Store holds intents in memory and flushes them to a JSON file.
// Single writer; safe for concurrent use.
type Store struct {
	path    string
	mu      sync.Mutex
	intents map[string]*models.Intent
	logger  logger.Logger
}

// NewStore creates a store persisting to path. An empty path keeps
// the store memory-only, which the tests use.
func NewStore(path string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	s := &Store{
		path:    path,
		intents: make(map[string]*models.Intent),
		logger:  log,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read ledger file: %v", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.intents); err != nil {
		return fmt.Errorf("failed to parse ledger file %s: %v", s.path, err)
	}
	s.logger.Info("Loaded %d intents from %s", len(s.intents), s.path)
	return nil
}

// persistLocked flushes the store to disk. Write-then-rename keeps a
// crash from truncating the ledger. Callers hold the mutex.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.intents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %v", err)
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %v", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger file: %v", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %v", err)
	}
	return nil
}

// validateRecipient mirrors the client-side precondition: a recipient
// is a hex address or a dotted name.
func validateRecipient(recipient string) error {
	recipient = strings.TrimSpace(recipient)
	if common.IsHexAddress(recipient) || names.IsName(recipient) {
		return nil
	}
	return fmt.Errorf("invalid recipient: %q is neither an address nor a name", recipient)
}

// CreateIntent stores a new single-payment intent
func (s *Store) CreateIntent(amount, token, recipient, note string) (*models.Intent, error) {
	if _, err := quoting.ParseUSD(amount); err != nil {
		return nil, err
	}
	if err := validateRecipient(recipient); err != nil {
		return nil, err
	}
	if token == "" {
		token = "USDC"
	}

	now := time.Now().UTC()
	intent := &models.Intent{
		ID:        uuid.NewString(),
		Type:      models.IntentTypePayment,
		Amount:    amount,
		Token:     token,
		Recipient: recipient,
		Note:      note,
		Status:    models.StatusUnpaid,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[intent.ID] = intent
	if err := s.persistLocked(); err != nil {
		delete(s.intents, intent.ID)
		return nil, err
	}
	metrics.IntentsCreated.WithLabelValues(string(models.IntentTypePayment)).Inc()
	return copyIntent(intent), nil
}

// CreateSplit stores a new split intent. Shares must sum to 100; the
// check lives here because the map itself enforces nothing.
func (s *Store) CreateSplit(amount, token, recipient, note string, participants []models.Participant) (*models.Intent, error) {
	if _, err := quoting.ParseUSD(amount); err != nil {
		return nil, err
	}
	if err := validateRecipient(recipient); err != nil {
		return nil, err
	}
	if err := quoting.ValidateShares(participants); err != nil {
		return nil, err
	}
	for _, p := range participants {
		if !common.IsHexAddress(p.Address) {
			return nil, fmt.Errorf("invalid participant address: %q", p.Address)
		}
	}
	if token == "" {
		token = "USDC"
	}

	now := time.Now().UTC()
	stored := make([]models.Participant, len(participants))
	for i, p := range participants {
		stored[i] = models.Participant{Address: p.Address, Share: p.Share}
	}
	intent := &models.Intent{
		ID:           uuid.NewString(),
		Type:         models.IntentTypeSplit,
		Amount:       amount,
		Token:        token,
		Recipient:    recipient,
		Note:         note,
		Status:       models.StatusUnpaid,
		Participants: stored,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[intent.ID] = intent
	if err := s.persistLocked(); err != nil {
		delete(s.intents, intent.ID)
		return nil, err
	}
	metrics.IntentsCreated.WithLabelValues(string(models.IntentTypeSplit)).Inc()
	return copyIntent(intent), nil
}

// GetIntent returns the intent with the given id
func (s *Store) GetIntent(id string) (*models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.intents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyIntent(intent), nil
}

// ListIntents returns all intents
func (s *Store) ListIntents() []*models.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Intent, 0, len(s.intents))
	for _, intent := range s.intents {
		out = append(out, copyIntent(intent))
	}
	return out
}

// MarkPaid records the completion of a single-payment intent.
// Repeating the call with the same arguments is a no-op success; the
// payer's client may deliver the callback more than once.
func (s *Store) MarkPaid(id, txHash string) (*models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[id]
	if !ok {
		return nil, ErrNotFound
	}
	if intent.Status == models.StatusPaid {
		return copyIntent(intent), nil
	}

	intent.Status = models.StatusPaid
	intent.TxHash = txHash
	intent.PaidCount = 1
	intent.UpdatedAt = time.Now().UTC()
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	metrics.IntentsPaid.WithLabelValues(string(intent.Type)).Inc()
	return copyIntent(intent), nil
}

// PayParticipant records one participant's payment of a split.
// Participants are matched case-insensitively; an already-paid
// participant is a no-op success so duplicate completion
// notifications never double-count. The overall status is recomputed
// from the participant states on every call.
func (s *Store) PayParticipant(splitID, participantAddress, txHash string) (*models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[splitID]
	if !ok || intent.Type != models.IntentTypeSplit {
		return nil, ErrNotFound
	}

	idx := -1
	for i := range intent.Participants {
		if strings.EqualFold(intent.Participants[i].Address, participantAddress) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUnknownParticipant
	}

	if !intent.Participants[idx].Paid {
		intent.Participants[idx].Paid = true
		intent.Participants[idx].TxHash = txHash

		paid := 0
		for _, p := range intent.Participants {
			if p.Paid {
				paid++
			}
		}
		intent.PaidCount = paid
		switch {
		case paid == len(intent.Participants):
			intent.Status = models.StatusPaid
			metrics.IntentsPaid.WithLabelValues(string(intent.Type)).Inc()
		case paid > 0:
			intent.Status = models.StatusPartial
		default:
			intent.Status = models.StatusUnpaid
		}
		intent.UpdatedAt = time.Now().UTC()
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
	}

	return copyIntent(intent), nil
}

// DeleteIntent removes an intent. This is the requester's explicit
// close/revoke action.
func (s *Store) DeleteIntent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.intents[id]; !ok {
		return ErrNotFound
	}
	delete(s.intents, id)
	return s.persistLocked()
}

// copyIntent returns a defensive copy so callers never alias stored
// participant slices.
func copyIntent(in *models.Intent) *models.Intent {
	out := *in
	if in.Participants != nil {
		out.Participants = make([]models.Participant, len(in.Participants))
		copy(out.Participants, in.Participants)
	}
	return &out
}
