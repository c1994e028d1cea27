// Package repository defines the collaborator interfaces the realtime core
// depends on for durable state.
package repository

import (
	"context"
	"errors"

	"github.com/eduhub/classroom/internal/domain"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// MeetingRepository stores meetings and their participant history.
type MeetingRepository interface {
	SaveMeeting(ctx context.Context, meeting *domain.Meeting) error
	GetMeeting(ctx context.Context, id domain.MeetingID) (*domain.Meeting, error)
	ListMeetings(ctx context.Context) ([]*domain.Meeting, error)
}

// NotificationRepository stores notifications for later retrieval.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, recipient domain.UserID) ([]*domain.Notification, error)
}

// UserDirectory resolves display name and role for an identity.
type UserDirectory interface {
	GetUser(ctx context.Context, id domain.UserID) (*domain.Identity, error)
}

// TokenStore maps bearer credentials issued by the auth collaborator to users.
type TokenStore interface {
	ResolveToken(ctx context.Context, token string) (domain.UserID, error)
}
