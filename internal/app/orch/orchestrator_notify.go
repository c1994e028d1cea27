package orch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/events"
)

// Notify persists a notification and best-effort pushes it live. A recipient
// without a live connection is not an error; the notification stays available
// through the repository's query interface.
func (o *Orchestrator) Notify(ctx context.Context, recipient domain.UserID, n *domain.Notification) error {
	n.ID = domain.NotificationID(uuid.NewString())
	n.Recipient = recipient
	n.CreatedAt = time.Now()

	if err := o.Notifications.CreateNotification(ctx, n); err != nil {
		return err
	}
	if sess, ok := o.Presence.Lookup(recipient); ok {
		o.send(sess, events.Notification(n))
	}
	return nil
}
