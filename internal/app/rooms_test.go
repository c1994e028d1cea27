package app_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eduhub/classroom/internal/app"
	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
)

type captureConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (c *captureConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("backpressure")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *captureConn) Close() {}

func (c *captureConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func captureSession(user domain.UserID, conn core.ConnectionID) (*core.ClientSession, *captureConn) {
	cc := &captureConn{}
	return &core.ClientSession{
		ConnID:   conn,
		Identity: &domain.Identity{ID: user, Name: string(user), Role: domain.RoleStudent},
		Signal:   cc,
	}, cc
}

func TestRoomSet_BroadcastWithExclusion(t *testing.T) {
	rooms := app.NewRoomSet()

	s1, c1 := captureSession("u1", "c1")
	s2, c2 := captureSession("u2", "c2")
	rooms.Subscribe("m1", s1)
	rooms.Subscribe("m1", s2)

	res := rooms.Broadcast("m1", core.Frame(`{"type":"x"}`), s1.ConnID)
	assert.Equal(t, 1, res.SentTo)
	assert.Equal(t, 0, c1.count(), "excluded sender must not receive its own event")
	assert.Equal(t, 1, c2.count())
}

func TestRoomSet_BroadcastReportsDropped(t *testing.T) {
	rooms := app.NewRoomSet()

	s1, _ := captureSession("u1", "c1")
	s2, c2 := captureSession("u2", "c2")
	c2.fail = true
	rooms.Subscribe("m1", s1)
	rooms.Subscribe("m1", s2)

	res := rooms.Broadcast("m1", core.Frame(`{}`), "")
	assert.Equal(t, 1, res.SentTo)
	assert.Len(t, res.Dropped, 1)
	assert.Equal(t, core.ConnectionID("c2"), res.Dropped[0].ConnID)
}

func TestRoomSet_UnsubscribeLeavesEmptyRoom(t *testing.T) {
	rooms := app.NewRoomSet()

	s1, c1 := captureSession("u1", "c1")
	rooms.Subscribe("m1", s1)
	rooms.Unsubscribe("m1", s1.ConnID)

	assert.Equal(t, 0, rooms.Count("m1"))
	res := rooms.Broadcast("m1", core.Frame(`{}`), "")
	assert.Equal(t, 0, res.SentTo)
	assert.Equal(t, 0, c1.count())
}

func TestRoomSet_RoomsOf(t *testing.T) {
	rooms := app.NewRoomSet()

	s1, _ := captureSession("u1", "c1")
	rooms.Subscribe("m1", s1)
	rooms.Subscribe("m2", s1)

	got := rooms.RoomsOf(s1.ConnID)
	assert.ElementsMatch(t, []domain.MeetingID{"m1", "m2"}, got)
	assert.Empty(t, rooms.RoomsOf("ghost"))
}
