package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/app/orch"
	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
)

func (ctl *Controller) handleReady(sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type readyPayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
	}
	var p readyPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad ready payload")
		ctl.sendError(c, "bad payload")
		return
	}
	ctl.Orch.AnnounceReady(sess, domain.MeetingID(p.MeetingID))
}

// handleWebRTC relays offer/answer/candidate payloads. The payload stays a
// raw message end to end; the server never parses SDP or ICE contents.
func (ctl *Controller) handleWebRTC(kind orch.SignalKind, sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type signalPayload struct {
		Type         string          `json:"type"`
		MeetingID    string          `json:"meetingId"`
		TargetUserID string          `json:"targetUserId"`
		Offer        json.RawMessage `json:"offer"`
		Answer       json.RawMessage `json:"answer"`
		Candidate    json.RawMessage `json:"candidate"`
	}
	var p signalPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad webrtc payload")
		ctl.sendError(c, "bad payload")
		return
	}

	var payload json.RawMessage
	switch kind {
	case orch.SignalOffer:
		payload = p.Offer
	case orch.SignalAnswer:
		payload = p.Answer
	case orch.SignalICECandidate:
		payload = p.Candidate
	}
	ctl.Orch.Relay(kind, sess.Identity, domain.UserID(p.TargetUserID), payload)
}
