// Package notify combines notification sinks behind domain.Notifier.
package notify

import (
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Fanout delivers every notification to each of its sinks in order
type Fanout []domain.Notifier

var _ domain.Notifier = Fanout(nil)

// Notify implements domain.Notifier
func (f Fanout) Notify(userID uuid.UUID, n domain.Notification) {
	for _, sink := range f {
		if sink == nil {
			continue
		}
		sink.Notify(userID, n)
	}
}

// LogNotifier writes notifications to the structured log and counts them
type LogNotifier struct{}

// Notify implements domain.Notifier
func (LogNotifier) Notify(userID uuid.UUID, n domain.Notification) {
	metrics.Notifications.WithLabelValues(string(n.Severity)).Inc()

	evt := log.Info()
	switch n.Severity {
	case domain.SeverityWarning:
		evt = log.Warn()
	case domain.SeverityError:
		evt = log.Error()
	}
	if n.Alert != nil {
		evt = evt.Str("category", string(n.Alert.Category)).
			Str("percentage", n.Alert.Percentage.StringFixed(2))
	}
	evt.Str("user_id", userID.String()).
		Str("title", n.Title).
		Str("message", n.Message).
		Msg("Notification")
}
