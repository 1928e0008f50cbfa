package amqp

import (
	"encoding/json"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertMessage is the body published for a budget alert
type AlertMessage struct {
	UserID     uuid.UUID       `json:"userId"`
	Severity   domain.Severity `json:"severity"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Category   domain.Category `json:"category"`
	Spent      decimal.Decimal `json:"spent"`
	Limit      decimal.Decimal `json:"limit"`
	Percentage decimal.Decimal `json:"percentage"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewAlertMessage builds the message for an alert notification
func NewAlertMessage(userID uuid.UUID, n domain.Notification) *AlertMessage {
	msg := &AlertMessage{
		UserID:    userID,
		Severity:  n.Severity,
		Title:     n.Title,
		Message:   n.Message,
		Timestamp: time.Now().UTC(),
	}
	if n.Alert != nil {
		msg.Category = n.Alert.Category
		msg.Spent = n.Alert.Spent
		msg.Limit = n.Alert.Limit
		msg.Percentage = n.Alert.Percentage.Round(2)
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON decodes a message body
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
