package orch

import (
	"context"
	"errors"
	"time"

	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/events"
	"github.com/eduhub/classroom/internal/repository"
)

// SendMessage fans a chat message out to the room. Nothing is persisted;
// ordering is whatever order messages arrive in.
func (o *Orchestrator) SendMessage(sess *core.ClientSession, meetingID domain.MeetingID, message string) {
	o.broadcast(meetingID, events.NewMessage(sess.Identity, message, time.Now()), "")
}

func (o *Orchestrator) RaiseHand(sess *core.ClientSession, meetingID domain.MeetingID) {
	o.broadcast(meetingID, events.HandRaised(sess.Identity), "")
}

func (o *Orchestrator) React(sess *core.ClientSession, meetingID domain.MeetingID, emoji string) {
	o.broadcast(meetingID, events.Reaction(sess.Identity, emoji), "")
}

// ToggleChat persists and broadcasts a settings change. Host/teacher only.
// The relay does not enforce the toggle against SendMessage; the gate is
// client-side.
func (o *Orchestrator) ToggleChat(ctx context.Context, caller *domain.Identity, meetingID domain.MeetingID, enabled bool) error {
	mu := o.locks.Lock(meetingID)
	defer mu.Unlock()

	meeting, err := o.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrMeetingNotFound
		}
		return err
	}
	if !meeting.CanModerate(caller) {
		return domain.ErrNotAuthorized
	}
	meeting.Settings.ChatEnabled = enabled
	if err := o.Meetings.SaveMeeting(ctx, meeting); err != nil {
		return err
	}
	o.broadcast(meetingID, events.ChatToggled(enabled), "")
	return nil
}

func (o *Orchestrator) ScreenShare(sess *core.ClientSession, meetingID domain.MeetingID, sharing bool) {
	o.broadcast(meetingID, events.ScreenShareUpdate(sess.Identity, sharing), "")
}
