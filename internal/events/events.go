// Package events defines the server-to-client event vocabulary.
// Every event is a flat JSON frame with a "type" discriminator.
package events

import (
	"encoding/json"
	"time"

	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
)

// Marshal encodes an event as a wire frame.
func Marshal(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

func MeetingJoined(m *domain.Meeting, status domain.ParticipantStatus) any {
	return struct {
		Type    string                   `json:"type"`
		Meeting *domain.Meeting          `json:"meeting"`
		Status  domain.ParticipantStatus `json:"status"`
	}{"meeting-joined", m, status}
}

func UserWaiting(who *domain.Identity) any {
	return struct {
		Type     string        `json:"type"`
		UserID   domain.UserID `json:"userId"`
		UserName string        `json:"userName"`
	}{"user-waiting", who.ID, who.Name}
}

func UserJoined(id domain.UserID, name string) any {
	return struct {
		Type     string        `json:"type"`
		UserID   domain.UserID `json:"userId"`
		UserName string        `json:"userName"`
	}{"user-joined", id, name}
}

func AdmittedToMeeting(meetingID domain.MeetingID) any {
	return struct {
		Type      string           `json:"type"`
		MeetingID domain.MeetingID `json:"meetingId"`
	}{"admitted-to-meeting", meetingID}
}

func UserRemoved(id domain.UserID) any {
	return struct {
		Type   string        `json:"type"`
		UserID domain.UserID `json:"userId"`
	}{"user-removed", id}
}

func RemovedFromMeeting(meetingID domain.MeetingID) any {
	return struct {
		Type      string           `json:"type"`
		MeetingID domain.MeetingID `json:"meetingId"`
	}{"removed-from-meeting", meetingID}
}

func UserLeftMeeting(who *domain.Identity) any {
	return struct {
		Type     string        `json:"type"`
		UserID   domain.UserID `json:"userId"`
		UserName string        `json:"userName"`
	}{"user-left-meeting", who.ID, who.Name}
}

func NewMessage(who *domain.Identity, message string, at time.Time) any {
	return struct {
		Type      string        `json:"type"`
		UserID    domain.UserID `json:"userId"`
		UserName  string        `json:"userName"`
		Message   string        `json:"message"`
		Timestamp time.Time     `json:"timestamp"`
	}{"new-message", who.ID, who.Name, message, at}
}

func HandRaised(who *domain.Identity) any {
	return struct {
		Type     string        `json:"type"`
		UserID   domain.UserID `json:"userId"`
		UserName string        `json:"userName"`
	}{"hand-raised", who.ID, who.Name}
}

func Reaction(who *domain.Identity, emoji string) any {
	return struct {
		Type     string        `json:"type"`
		UserID   domain.UserID `json:"userId"`
		UserName string        `json:"userName"`
		Emoji    string        `json:"emoji"`
	}{"reaction", who.ID, who.Name, emoji}
}

func ChatToggled(enabled bool) any {
	return struct {
		Type    string `json:"type"`
		Enabled bool   `json:"enabled"`
	}{"chat-toggled", enabled}
}

func ScreenShareUpdate(who *domain.Identity, sharing bool) any {
	return struct {
		Type     string        `json:"type"`
		UserID   domain.UserID `json:"userId"`
		UserName string        `json:"userName"`
		Sharing  bool          `json:"sharing"`
	}{"screen-share-update", who.ID, who.Name, sharing}
}

func UserReadyForWebRTC(who *domain.Identity) any {
	return struct {
		Type     string        `json:"type"`
		UserID   domain.UserID `json:"userId"`
		UserName string        `json:"userName"`
	}{"user-ready-for-webrtc", who.ID, who.Name}
}

// WebRTCOffer and friends forward negotiation payloads verbatim; the relay
// never inspects them.
func WebRTCOffer(from domain.UserID, offer json.RawMessage) any {
	return struct {
		Type       string          `json:"type"`
		FromUserID domain.UserID   `json:"fromUserId"`
		Offer      json.RawMessage `json:"offer"`
	}{"webrtc-offer", from, offer}
}

func WebRTCAnswer(from domain.UserID, answer json.RawMessage) any {
	return struct {
		Type       string          `json:"type"`
		FromUserID domain.UserID   `json:"fromUserId"`
		Answer     json.RawMessage `json:"answer"`
	}{"webrtc-answer", from, answer}
}

func WebRTCICECandidate(from domain.UserID, candidate json.RawMessage) any {
	return struct {
		Type       string          `json:"type"`
		FromUserID domain.UserID   `json:"fromUserId"`
		Candidate  json.RawMessage `json:"candidate"`
	}{"webrtc-ice-candidate", from, candidate}
}

func Notification(n *domain.Notification) any {
	return struct {
		Type         string               `json:"type"`
		Notification *domain.Notification `json:"notification"`
	}{"notification", n}
}

func Error(message string) any {
	return struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{"error", message}
}
