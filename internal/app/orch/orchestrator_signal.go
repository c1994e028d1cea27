package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/events"
)

type SignalKind string

const (
	SignalOffer        SignalKind = "offer"
	SignalAnswer       SignalKind = "answer"
	SignalICECandidate SignalKind = "ice-candidate"
)

// AnnounceReady tells every other room member that a participant is ready to
// negotiate. Each peer answers with a directed offer, yielding a full mesh.
// The announcer is excluded so it never sees its own readiness event.
func (o *Orchestrator) AnnounceReady(sess *core.ClientSession, meetingID domain.MeetingID) {
	o.broadcast(meetingID, events.UserReadyForWebRTC(sess.Identity), sess.ConnID)
}

// Relay forwards a negotiation payload verbatim to the target's live
// connection. No live connection means the peer is no longer joinable; the
// payload is silently dropped.
func (o *Orchestrator) Relay(kind SignalKind, from *domain.Identity, target domain.UserID, payload json.RawMessage) {
	sess, ok := o.Presence.Lookup(target)
	if !ok {
		log.Debug().Str("module", "orch").Str("kind", string(kind)).Str("target", string(target)).Msg("relay target offline, dropped")
		return
	}
	switch kind {
	case SignalOffer:
		o.send(sess, events.WebRTCOffer(from.ID, payload))
	case SignalAnswer:
		o.send(sess, events.WebRTCAnswer(from.ID, payload))
	case SignalICECandidate:
		o.send(sess, events.WebRTCICECandidate(from.ID, payload))
	}
}
