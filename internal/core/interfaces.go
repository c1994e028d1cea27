package core

import "github.com/eduhub/classroom/internal/domain"

// Frame is a raw wire payload ready to be written to a transport.
type Frame []byte

// ConnectionID identifies one live realtime transport session.
type ConnectionID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// ClientSession binds an authenticated identity to its transport endpoint.
// This is what rooms store and fan out to.
type ClientSession struct {
	ConnID   ConnectionID
	Identity *domain.Identity
	Signal   SignalConnection
}

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []*ClientSession
}
