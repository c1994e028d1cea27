package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
)

// Presence maps an authenticated identity to its live session.
// An identity holds at most one session: registering again overwrites the
// previous entry (last-connected-wins) without closing the old transport.
type Presence struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]*core.ClientSession
}

func NewPresence() *Presence {
	return &Presence{sessions: make(map[domain.UserID]*core.ClientSession)}
}

func (p *Presence) Register(sess *core.ClientSession) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[sess.Identity.ID] = sess
	log.Info().Str("module", "app.presence").Str("user", string(sess.Identity.ID)).Str("conn", string(sess.ConnID)).Msg("registered session")
}

func (p *Presence) Lookup(id domain.UserID) (*core.ClientSession, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sess, ok := p.sessions[id]
	return sess, ok
}

// Unregister removes the entry only if conn still owns it, so a stale
// disconnect cannot evict a newer connection's registration.
func (p *Presence) Unregister(id domain.UserID, conn core.ConnectionID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.sessions[id]
	if !ok || sess.ConnID != conn {
		return false
	}
	delete(p.sessions, id)
	log.Info().Str("module", "app.presence").Str("user", string(id)).Str("conn", string(conn)).Msg("unregistered session")
	return true
}

func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}
