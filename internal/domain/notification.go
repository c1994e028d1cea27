package domain

import "time"

type NotificationID string

type NotificationType string

const (
	NotifyAssignment   NotificationType = "assignment"
	NotifyMeeting      NotificationType = "meeting"
	NotifyGrade        NotificationType = "grade"
	NotifyAnnouncement NotificationType = "announcement"
	NotifyClass        NotificationType = "class"
	NotifySystem       NotificationType = "system"
)

// Notification is stored by the persistence collaborator and pushed live
// on a best-effort basis when the recipient is connected.
type Notification struct {
	ID        NotificationID   `json:"id"`
	Recipient UserID           `json:"recipient"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      string           `json:"link,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
