package domain

import (
	"errors"
	"time"
)

type MeetingID string

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingLive      MeetingStatus = "live"
	MeetingEnded     MeetingStatus = "ended"
)

type ParticipantStatus string

const (
	StatusWaiting ParticipantStatus = "waiting"
	StatusJoined  ParticipantStatus = "joined"
	StatusRemoved ParticipantStatus = "removed"
)

var (
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrRemovedFromMeeting  = errors.New("you have been removed from this meeting")
	ErrNotWaiting          = errors.New("participant is not in the waiting room")
	ErrNotAuthorized       = errors.New("not authorized")
)

type MeetingSettings struct {
	WaitingRoom        bool `json:"waitingRoom"`
	ChatEnabled        bool `json:"chatEnabled"`
	ScreenShareEnabled bool `json:"screenShareEnabled"`
}

// Participant is the durable per-meeting admission record of one identity.
// Records are never deleted; a removed participant stays removed.
type Participant struct {
	UserID   UserID            `json:"userId"`
	JoinedAt time.Time         `json:"joinedAt"`
	LeftAt   *time.Time        `json:"leftAt,omitempty"`
	Status   ParticipantStatus `json:"status"`
}

type Meeting struct {
	ID           MeetingID       `json:"id"`
	Title        string          `json:"title"`
	HostID       UserID          `json:"hostId"`
	Status       MeetingStatus   `json:"status"`
	ScheduledAt  time.Time       `json:"scheduledAt"`
	Settings     MeetingSettings `json:"settings"`
	Participants []Participant   `json:"participants"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Participant returns the record for id, or nil if the identity never joined.
func (m *Meeting) Participant(id UserID) *Participant {
	for i := range m.Participants {
		if m.Participants[i].UserID == id {
			return &m.Participants[i]
		}
	}
	return nil
}

// AddParticipant applies the join transition for id. It returns the resulting
// status and whether a new record was created. A repeat join keeps the existing
// record; a previously removed participant can never re-enter.
func (m *Meeting) AddParticipant(id UserID, role Role, now time.Time) (ParticipantStatus, bool, error) {
	if p := m.Participant(id); p != nil {
		if p.Status == StatusRemoved {
			return StatusRemoved, false, ErrRemovedFromMeeting
		}
		return p.Status, false, nil
	}
	status := StatusJoined
	if m.Settings.WaitingRoom && role == RoleStudent {
		status = StatusWaiting
	}
	m.Participants = append(m.Participants, Participant{
		UserID:   id,
		JoinedAt: now,
		Status:   status,
	})
	return status, true, nil
}

// AdmitParticipant moves a waiting participant to joined.
func (m *Meeting) AdmitParticipant(id UserID) error {
	p := m.Participant(id)
	if p == nil {
		return ErrParticipantNotFound
	}
	if p.Status != StatusWaiting {
		return ErrNotWaiting
	}
	p.Status = StatusJoined
	return nil
}

// RemoveParticipant marks a participant removed. Removed is terminal.
func (m *Meeting) RemoveParticipant(id UserID, now time.Time) error {
	p := m.Participant(id)
	if p == nil {
		return ErrParticipantNotFound
	}
	p.Status = StatusRemoved
	p.LeftAt = &now
	return nil
}

// CanModerate reports whether who may admit or remove participants.
func (m *Meeting) CanModerate(who *Identity) bool {
	return who.ID == m.HostID || who.CanModerate()
}
