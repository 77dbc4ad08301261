package notify

import (
	"encoding/json"
	"time"
)

// Kind classifies a user-facing notification event.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// TransactionChangedMessage signals that an account's transaction set
// changed and derived aggregates (balance, budget spend) must be
// recomputed. Carries only identifiers; the worker fetches current state
// from the database.
type TransactionChangedMessage struct {
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	Deleted       bool      `json:"deleted,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NotificationMessage is a plain user-facing event emitted on
// create/update/delete outcomes. Dismissal timing is a presentation
// concern and not part of the payload.
type NotificationMessage struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionChanged creates a change event for a transaction mutation.
func NewTransactionChanged(transactionID, accountID string, deleted bool) *TransactionChangedMessage {
	return &TransactionChangedMessage{
		TransactionID: transactionID,
		AccountID:     accountID,
		Deleted:       deleted,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionChangedFromJSON creates a message from JSON bytes
func TransactionChangedFromJSON(data []byte) (*TransactionChangedMessage, error) {
	var msg TransactionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NewNotification creates a user-facing notification event.
func NewNotification(kind Kind, message string) *NotificationMessage {
	return &NotificationMessage{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
