package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/events"
)

func (ctl *Controller) handleJoin(ctx context.Context, sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type joinPayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(c, "bad payload")
		return
	}

	res, err := ctl.Orch.Join(ctx, sess, domain.MeetingID(p.MeetingID))
	if err != nil {
		ctl.sendError(c, err.Error())
		return
	}
	ctl.sendJSON(c, events.MeetingJoined(res.Meeting, res.Status))
}

func (ctl *Controller) handleLeave(sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type leavePayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave payload")
		ctl.sendError(c, "bad payload")
		return
	}
	ctl.Orch.Leave(sess, domain.MeetingID(p.MeetingID))
}

func (ctl *Controller) handleAdmit(ctx context.Context, sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type admitPayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
		UserID    string `json:"userId"`
	}
	var p admitPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad admit payload")
		ctl.sendError(c, "bad payload")
		return
	}
	if err := ctl.Orch.Admit(ctx, sess.Identity, domain.MeetingID(p.MeetingID), domain.UserID(p.UserID)); err != nil {
		ctl.sendError(c, err.Error())
	}
}

func (ctl *Controller) handleRemove(ctx context.Context, sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type removePayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
		UserID    string `json:"userId"`
	}
	var p removePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad remove payload")
		ctl.sendError(c, "bad payload")
		return
	}
	if err := ctl.Orch.Remove(ctx, sess.Identity, domain.MeetingID(p.MeetingID), domain.UserID(p.UserID)); err != nil {
		ctl.sendError(c, err.Error())
	}
}
