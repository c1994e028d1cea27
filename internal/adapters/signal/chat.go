package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
)

func (ctl *Controller) handleSendMessage(sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type messagePayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
		Message   string `json:"message"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad message payload")
		ctl.sendError(c, "bad payload")
		return
	}
	if !ctl.chatLimiter.Allow(sess.Identity.ID) {
		ctl.sendError(c, "too many messages")
		return
	}
	ctl.Orch.SendMessage(sess, domain.MeetingID(p.MeetingID), p.Message)
}

func (ctl *Controller) handleRaiseHand(sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type handPayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
	}
	var p handPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad raise-hand payload")
		ctl.sendError(c, "bad payload")
		return
	}
	ctl.Orch.RaiseHand(sess, domain.MeetingID(p.MeetingID))
}

func (ctl *Controller) handleReact(sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type reactPayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
		Emoji     string `json:"emoji"`
	}
	var p reactPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad react payload")
		ctl.sendError(c, "bad payload")
		return
	}
	ctl.Orch.React(sess, domain.MeetingID(p.MeetingID), p.Emoji)
}

func (ctl *Controller) handleToggleChat(ctx context.Context, sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type togglePayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
		Enabled   bool   `json:"enabled"`
	}
	var p togglePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad toggle-chat payload")
		ctl.sendError(c, "bad payload")
		return
	}
	if err := ctl.Orch.ToggleChat(ctx, sess.Identity, domain.MeetingID(p.MeetingID), p.Enabled); err != nil {
		ctl.sendError(c, err.Error())
	}
}

func (ctl *Controller) handleScreenShare(sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type sharePayload struct {
		Type      string `json:"type"`
		MeetingID string `json:"meetingId"`
		Sharing   bool   `json:"sharing"`
	}
	var p sharePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad screen-share payload")
		ctl.sendError(c, "bad payload")
		return
	}
	ctl.Orch.ScreenShare(sess, domain.MeetingID(p.MeetingID), p.Sharing)
}
