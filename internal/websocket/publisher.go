package websocket

import (
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/google/uuid"
)

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to every connection of the user
	Publish(userID uuid.UUID, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the user
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.Broadcast(userID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID uuid.UUID, event Event) {}

// Notifier delivers domain notifications as notification.created events
type Notifier struct {
	publisher EventPublisher
}

var _ domain.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier on top of a publisher
func NewNotifier(publisher EventPublisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// Notify implements domain.Notifier
func (n *Notifier) Notify(userID uuid.UUID, notification domain.Notification) {
	n.publisher.Publish(userID, NotificationCreated(notification))
}
