package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/app/orch"
	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/events"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsSignalConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sess *core.ClientSession, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(sess.ConnID)).Msg("readPump closing")
		ctl.Orch.Disconnect(sess)
		cancel()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			ctl.handleEvent(ctx, sess, c, data)
		}
	}
}

func (ctl *Controller) handleEvent(ctx context.Context, sess *core.ClientSession, c *WsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "join-meeting":
		ctl.handleJoin(ctx, sess, c, data)
	case "leave-meeting":
		ctl.handleLeave(sess, c, data)
	case "admit-user":
		ctl.handleAdmit(ctx, sess, c, data)
	case "remove-user":
		ctl.handleRemove(ctx, sess, c, data)
	case "send-message":
		ctl.handleSendMessage(sess, c, data)
	case "raise-hand":
		ctl.handleRaiseHand(sess, c, data)
	case "react":
		ctl.handleReact(sess, c, data)
	case "toggle-chat":
		ctl.handleToggleChat(ctx, sess, c, data)
	case "screen-share":
		ctl.handleScreenShare(sess, c, data)
	case "ready-for-webrtc":
		ctl.handleReady(sess, c, data)
	case "webrtc-offer":
		ctl.handleWebRTC(orch.SignalOffer, sess, c, data)
	case "webrtc-answer":
		ctl.handleWebRTC(orch.SignalAnswer, sess, c, data)
	case "webrtc-ice-candidate":
		ctl.handleWebRTC(orch.SignalICECandidate, sess, c, data)
	case "send-notification":
		ctl.handleSendNotification(ctx, sess, c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) sendJSON(c *WsSignalConn, v any) {
	frame, err := events.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(frame)
}

// sendError replies to the originating connection only; failures are never
// broadcast.
func (ctl *Controller) sendError(c *WsSignalConn, message string) {
	ctl.sendJSON(c, events.Error(message))
}
