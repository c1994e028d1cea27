package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
)

// RoomSet tracks which connections are subscribed to each meeting's
// broadcasts. Rooms are ephemeral: lost on restart, rebuilt on rejoin.
type RoomSet struct {
	mu    sync.RWMutex
	rooms map[domain.MeetingID]map[core.ConnectionID]*core.ClientSession
}

func NewRoomSet() *RoomSet {
	return &RoomSet{rooms: make(map[domain.MeetingID]map[core.ConnectionID]*core.ClientSession)}
}

func (r *RoomSet) Subscribe(meetingID domain.MeetingID, sess *core.ClientSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[meetingID]
	if !ok {
		room = make(map[core.ConnectionID]*core.ClientSession)
		r.rooms[meetingID] = room
	}
	room[sess.ConnID] = sess
	log.Info().Str("module", "app.rooms").Str("meeting", string(meetingID)).Str("conn", string(sess.ConnID)).Msg("subscribed")
}

// Unsubscribe removes a connection from a room. An emptied room entry stays;
// the meeting itself lives in the repository.
func (r *RoomSet) Unsubscribe(meetingID domain.MeetingID, conn core.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[meetingID]; ok {
		delete(room, conn)
		log.Info().Str("module", "app.rooms").Str("meeting", string(meetingID)).Str("conn", string(conn)).Msg("unsubscribed")
	}
}

func (r *RoomSet) Subscribed(meetingID domain.MeetingID, conn core.ConnectionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[meetingID][conn]
	return ok
}

// Broadcast delivers a frame to every subscribed connection except exclude
// (empty means no exclusion). Sends never block; slow receivers are reported
// as dropped.
func (r *RoomSet) Broadcast(meetingID domain.MeetingID, data core.Frame, exclude core.ConnectionID) core.PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := core.PublishResult{}
	for conn, sess := range r.rooms[meetingID] {
		if conn == exclude {
			continue
		}
		if err := sess.Signal.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sess)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.rooms").Str("meeting", string(meetingID)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// RoomsOf lists the meetings a connection is currently subscribed to.
func (r *RoomSet) RoomsOf(conn core.ConnectionID) []domain.MeetingID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.MeetingID
	for meetingID, room := range r.rooms {
		if _, ok := room[conn]; ok {
			out = append(out, meetingID)
		}
	}
	return out
}

func (r *RoomSet) Count(meetingID domain.MeetingID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[meetingID])
}
