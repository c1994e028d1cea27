// Package memory provides an in-memory implementation of the repository
// interfaces, used in tests and single-node development setups.
package memory

import (
	"context"
	"sync"

	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/repository"
)

// Repository implements MeetingRepository, NotificationRepository,
// UserDirectory and TokenStore with in-memory maps.
type Repository struct {
	mu            sync.RWMutex
	meetings      map[domain.MeetingID]*domain.Meeting
	notifications map[domain.UserID][]*domain.Notification
	users         map[domain.UserID]*domain.Identity
	tokens        map[string]domain.UserID
}

func NewRepository() *Repository {
	return &Repository{
		meetings:      make(map[domain.MeetingID]*domain.Meeting),
		notifications: make(map[domain.UserID][]*domain.Notification),
		users:         make(map[domain.UserID]*domain.Identity),
		tokens:        make(map[string]domain.UserID),
	}
}

func cloneMeeting(m *domain.Meeting) *domain.Meeting {
	cp := *m
	cp.Participants = make([]domain.Participant, len(m.Participants))
	copy(cp.Participants, m.Participants)
	return &cp
}

func (r *Repository) SaveMeeting(ctx context.Context, meeting *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meetings[meeting.ID] = cloneMeeting(meeting)
	return nil
}

func (r *Repository) GetMeeting(ctx context.Context, id domain.MeetingID) (*domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneMeeting(m), nil
}

func (r *Repository) ListMeetings(ctx context.Context) ([]*domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Meeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		out = append(out, cloneMeeting(m))
	}
	return out, nil
}

func (r *Repository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.notifications[n.Recipient] = append(r.notifications[n.Recipient], &cp)
	return nil
}

func (r *Repository) ListNotifications(ctx context.Context, recipient domain.UserID) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.notifications[recipient]
	out := make([]*domain.Notification, 0, len(list))
	for _, n := range list {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (r *Repository) GetUser(ctx context.Context, id domain.UserID) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *Repository) ResolveToken(ctx context.Context, token string) (domain.UserID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uid, ok := r.tokens[token]
	if !ok {
		return "", repository.ErrNotFound
	}
	return uid, nil
}

// PutUser seeds the user directory. The directory itself is owned by the
// out-of-scope user service; seeding exists for tests and dev setups.
func (r *Repository) PutUser(u *domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
}

// PutToken seeds a bearer credential for a user.
func (r *Repository) PutToken(token string, id domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = id
}
