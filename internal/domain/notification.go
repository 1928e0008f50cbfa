package domain

import "github.com/google/uuid"

// Severity of a user-visible notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a user-visible, non-blocking message.
// Alert is set only for budget threshold notifications.
type Notification struct {
	Severity Severity     `json:"severity"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Alert    *BudgetAlert `json:"alert,omitempty"`
}

// Notifier delivers notifications to a user
type Notifier interface {
	Notify(userID uuid.UUID, n Notification)
}
