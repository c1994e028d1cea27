package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
)

func (ctl *Controller) handleSendNotification(ctx context.Context, sess *core.ClientSession, c *WsSignalConn, data []byte) {
	type notifyPayload struct {
		Type         string `json:"type"`
		RecipientID  string `json:"recipientId"`
		Notification struct {
			Type    string `json:"type"`
			Title   string `json:"title"`
			Message string `json:"message"`
			Link    string `json:"link"`
		} `json:"notification"`
	}
	var p notifyPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad notification payload")
		ctl.sendError(c, "bad payload")
		return
	}

	n := &domain.Notification{
		Type:    domain.NotificationType(p.Notification.Type),
		Title:   p.Notification.Title,
		Message: p.Notification.Message,
		Link:    p.Notification.Link,
	}
	if err := ctl.Orch.Notify(ctx, domain.UserID(p.RecipientID), n); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("recipient", p.RecipientID).Msg("notification error")
		ctl.sendError(c, "failed to send notification")
	}
}
