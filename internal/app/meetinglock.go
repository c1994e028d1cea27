package app

import (
	"sync"

	"github.com/eduhub/classroom/internal/domain"
)

// MeetingLocks serializes admission transitions per meeting. The lock is held
// across load, transition and save so two racing admit/remove calls on the
// same participant cannot both commit.
type MeetingLocks struct {
	mu    sync.Mutex
	locks map[domain.MeetingID]*sync.Mutex
}

func NewMeetingLocks() *MeetingLocks {
	return &MeetingLocks{locks: make(map[domain.MeetingID]*sync.Mutex)}
}

// Lock acquires the mutex for a meeting and returns it for deferred unlock.
func (l *MeetingLocks) Lock(id domain.MeetingID) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m
}
