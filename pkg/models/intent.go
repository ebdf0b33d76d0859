package models

import (
	"time"
)

// IntentType distinguishes single payment requests from splits
type IntentType string

const (
	// IntentTypePayment is a request paid by a single payer
	IntentTypePayment IntentType = "payment"
	// IntentTypeSplit is a request divided among several participants
	IntentTypeSplit IntentType = "split"
)

// IntentStatus is the lifecycle status of an intent
type IntentStatus string

const (
	StatusUnpaid  IntentStatus = "unpaid"
	StatusPartial IntentStatus = "partial"
	StatusPaid    IntentStatus = "paid"
)

// Intent represents a payment request persisted in the ledger.
// The ledger owns it; orchestration code treats it as an external
// mutable resource and never caches it authoritatively.
type Intent struct {
	ID           string        `json:"id"`
	Type         IntentType    `json:"type"`
	Amount       string        `json:"amount"` // face value in USD, decimal string
	Token        string        `json:"token"`
	Recipient    string        `json:"recipient"`
	Note         string        `json:"note,omitempty"`
	Status       IntentStatus  `json:"status"`
	TxHash       string        `json:"tx_hash,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
	PaidCount    int           `json:"paid_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Participant is one payer's obligation within a split intent.
// All shares in a split must sum to 100; this is validated before
// creation, not enforced by the storage layer.
type Participant struct {
	Address string `json:"address"`
	Share   int    `json:"share"` // integer percentage
	Paid    bool   `json:"paid"`
	TxHash  string `json:"tx_hash,omitempty"`
}
