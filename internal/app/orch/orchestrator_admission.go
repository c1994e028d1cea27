package orch

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/events"
	"github.com/eduhub/classroom/internal/repository"
)

// JoinResult is what the joining connection gets back directly.
type JoinResult struct {
	Meeting  *domain.Meeting
	Status   domain.ParticipantStatus
	Rejoined bool
}

// Join runs the admission transition for a session. The participant record is
// committed before any broadcast; on a repeat join no broadcast is sent. The
// state is re-read under the meeting lock, so a concurrent join cannot create
// a duplicate record.
func (o *Orchestrator) Join(ctx context.Context, sess *core.ClientSession, meetingID domain.MeetingID) (*JoinResult, error) {
	mu := o.locks.Lock(meetingID)
	defer mu.Unlock()

	meeting, err := o.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, err
	}

	status, created, err := meeting.AddParticipant(sess.Identity.ID, sess.Identity.Role, time.Now())
	if err != nil {
		return nil, err
	}
	if created {
		if err := o.Meetings.SaveMeeting(ctx, meeting); err != nil {
			return nil, err
		}
	}

	o.Rooms.Subscribe(meetingID, sess)
	log.Info().Str("module", "orch").Str("meeting", string(meetingID)).Str("user", string(sess.Identity.ID)).Str("status", string(status)).Bool("rejoined", !created).Msg("join")

	if created {
		if status == domain.StatusWaiting {
			o.broadcast(meetingID, events.UserWaiting(sess.Identity), "")
		} else {
			o.broadcast(meetingID, events.UserJoined(sess.Identity.ID, sess.Identity.Name), "")
		}
	}
	return &JoinResult{Meeting: meeting, Status: status, Rejoined: !created}, nil
}

// Admit moves a waiting participant to joined. Host/teacher only.
func (o *Orchestrator) Admit(ctx context.Context, caller *domain.Identity, meetingID domain.MeetingID, target domain.UserID) error {
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
	if err := meeting.AdmitParticipant(target); err != nil {
		return err
	}
	if err := o.Meetings.SaveMeeting(ctx, meeting); err != nil {
		return err
	}

	log.Info().Str("module", "orch").Str("meeting", string(meetingID)).Str("user", string(target)).Str("by", string(caller.ID)).Msg("admitted")

	if sess, ok := o.Presence.Lookup(target); ok {
		o.send(sess, events.AdmittedToMeeting(meetingID))
	}
	o.broadcast(meetingID, events.UserJoined(target, o.displayName(ctx, target)), "")
	return nil
}

// Remove marks a participant removed, a terminal state that blocks any
// rejoin. Host/teacher only.
func (o *Orchestrator) Remove(ctx context.Context, caller *domain.Identity, meetingID domain.MeetingID, target domain.UserID) error {
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
	if err := meeting.RemoveParticipant(target, time.Now()); err != nil {
		return err
	}
	if err := o.Meetings.SaveMeeting(ctx, meeting); err != nil {
		return err
	}

	log.Info().Str("module", "orch").Str("meeting", string(meetingID)).Str("user", string(target)).Str("by", string(caller.ID)).Msg("removed")

	if sess, ok := o.Presence.Lookup(target); ok {
		o.send(sess, events.RemovedFromMeeting(meetingID))
		o.Rooms.Unsubscribe(meetingID, sess.ConnID)
	}
	o.broadcast(meetingID, events.UserRemoved(target), "")
	return nil
}

// Leave unsubscribes a session from one room and notifies the peers.
func (o *Orchestrator) Leave(sess *core.ClientSession, meetingID domain.MeetingID) {
	if !o.Rooms.Subscribed(meetingID, sess.ConnID) {
		return
	}
	o.Rooms.Unsubscribe(meetingID, sess.ConnID)
	o.broadcast(meetingID, events.UserLeftMeeting(sess.Identity), sess.ConnID)
}

// Disconnect is the only cancellation primitive: it leaves every joined room
// (one user-left-meeting per room) and clears the presence entry unless a
// newer connection already superseded it.
func (o *Orchestrator) Disconnect(sess *core.ClientSession) {
	for _, meetingID := range o.Rooms.RoomsOf(sess.ConnID) {
		o.Rooms.Unsubscribe(meetingID, sess.ConnID)
		o.broadcast(meetingID, events.UserLeftMeeting(sess.Identity), sess.ConnID)
	}
	o.Presence.Unregister(sess.Identity.ID, sess.ConnID)
	log.Info().Str("module", "orch").Str("user", string(sess.Identity.ID)).Str("conn", string(sess.ConnID)).Msg("disconnected")
}
