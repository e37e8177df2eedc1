package events

import (
	"encoding/json"
	"time"
)

const (
	ActionSaved   = "saved"
	ActionDeleted = "deleted"
)

// TransactionEvent notifies consumers that a transaction changed.
// Consumers fetch the full record by id if they need it.
type TransactionEvent struct {
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(action string, id int64) *TransactionEvent {
	return &TransactionEvent{
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
