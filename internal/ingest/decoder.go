package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
)

// ErrMalformedMessage marks a notification that cannot be decoded. Malformed
// input is never retried: the same bytes decode the same way every time.
var ErrMalformedMessage = errors.New("malformed notification message")

// Notification is a decoded transaction notification, ready to be mirrored
// into the ledger.
type Notification struct {
	UserID    primitive.ObjectID
	Kind      domain.TransactionKind
	Amount    float64
	Timestamp time.Time
}

// LedgerEntry projects the notification into the stored summary record.
func (n *Notification) LedgerEntry() *domain.LedgerEntry {
	return &domain.LedgerEntry{
		UserID:    n.UserID,
		Kind:      n.Kind,
		Amount:    n.Amount,
		Timestamp: n.Timestamp,
		CreatedAt: time.Now().UTC(),
	}
}

type wireMessage struct {
	UserID    string   `json:"userId"`
	Type      string   `json:"type"`
	Amount    *float64 `json:"amount"`
	Timestamp string   `json:"timestamp"`
}

// timestampLayouts covers RFC3339 producers and the broker's legacy
// Java-date format ("Mon Jan 02 15:04:05 CET 2025").
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.UnixDate,
}

type Decoder struct {
	now func() time.Time
}

func NewDecoder() *Decoder {
	return &Decoder{now: time.Now}
}

// Decode parses a raw queue payload. Unknown fields are ignored. A missing
// or unparsable timestamp is normalized to the decode-time clock; missing
// type, missing or non-numeric amount, and an invalid userId all fail.
func (d *Decoder) Decode(payload []byte) (*Notification, error) {
	var msg wireMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("Decode: %w: %w", ErrMalformedMessage, err)
	}

	if msg.Type == "" {
		return nil, fmt.Errorf("Decode: missing type: %w", ErrMalformedMessage)
	}
	if msg.Amount == nil {
		return nil, fmt.Errorf("Decode: missing amount: %w", ErrMalformedMessage)
	}

	userID, err := primitive.ObjectIDFromHex(msg.UserID)
	if err != nil {
		return nil, fmt.Errorf("Decode: invalid userId %q: %w", msg.UserID, ErrMalformedMessage)
	}

	return &Notification{
		UserID:    userID,
		Kind:      domain.TransactionKind(msg.Type),
		Amount:    *msg.Amount,
		Timestamp: d.parseTimestamp(msg.Timestamp),
	}, nil
}

func (d *Decoder) parseTimestamp(raw string) time.Time {
	if raw == "" {
		return d.now().UTC()
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	// Normalization, not validation: an unreadable timestamp falls back to
	// the decode-time clock rather than dropping the message.
	return d.now().UTC()
}
