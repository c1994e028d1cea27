// Package orch coordinates presence, room membership and the persistence
// collaborators behind the realtime meeting event surface.
package orch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/app"
	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/events"
	"github.com/eduhub/classroom/internal/repository"
)

type Orchestrator struct {
	Presence      *app.Presence
	Rooms         *app.RoomSet
	Policy        app.Policy
	Meetings      repository.MeetingRepository
	Notifications repository.NotificationRepository
	Directory     repository.UserDirectory

	locks *app.MeetingLocks
}

func New(
	presence *app.Presence,
	rooms *app.RoomSet,
	policy app.Policy,
	meetings repository.MeetingRepository,
	notifications repository.NotificationRepository,
	directory repository.UserDirectory,
) *Orchestrator {
	return &Orchestrator{
		Presence:      presence,
		Rooms:         rooms,
		Policy:        policy,
		Meetings:      meetings,
		Notifications: notifications,
		Directory:     directory,
		locks:         app.NewMeetingLocks(),
	}
}

// send delivers an event to a single session, best-effort.
func (o *Orchestrator) send(sess *core.ClientSession, v any) {
	frame, err := events.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("event marshal")
		return
	}
	if err := sess.Signal.TrySend(frame); err != nil {
		log.Warn().Str("module", "orch").Str("conn", string(sess.ConnID)).Msg("direct send dropped")
	}
}

// broadcast fans an event out to a room, excluding at most one connection,
// and applies the backpressure policy to dropped subscribers.
func (o *Orchestrator) broadcast(meetingID domain.MeetingID, v any, exclude core.ConnectionID) {
	frame, err := events.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("event marshal")
		return
	}
	res := o.Rooms.Broadcast(meetingID, frame, exclude)
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		if o.Policy.OnBackpressure(slow) == app.KickMember {
			log.Warn().Str("module", "orch").Str("conn", string(slow.ConnID)).Msg("kicking slow subscriber")
			slow.Signal.Close()
		}
	}
}

// displayName resolves a user's name for roster broadcasts, preferring the
// live session and falling back to the directory.
func (o *Orchestrator) displayName(ctx context.Context, id domain.UserID) string {
	if sess, ok := o.Presence.Lookup(id); ok {
		return sess.Identity.Name
	}
	u, err := o.Directory.GetUser(ctx, id)
	if err != nil {
		return ""
	}
	return u.Name
}
