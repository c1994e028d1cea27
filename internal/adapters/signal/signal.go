// Package signal is the websocket event surface of the meeting core.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/app/orch"
	"github.com/eduhub/classroom/internal/core"
	"github.com/eduhub/classroom/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Orch *orch.Orchestrator

	ReadLimit   int64
	chatLimiter *ChatRateLimiter
}

func NewController(o *orch.Orchestrator, readLimit int64) *Controller {
	return &Controller{
		Orch:        o,
		ReadLimit:   readLimit,
		chatLimiter: NewChatRateLimiter(10, 10*time.Second),
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleMeetingSocket upgrades the request and registers the authenticated
// session. Identity comes from the auth middleware; an unauthenticated
// request never reaches this point.
func (ctl *Controller) HandleMeetingSocket(ctx context.Context, c *gin.Context) {
	who := c.MustGet("identity").(*domain.Identity)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	sess := &core.ClientSession{
		ConnID:   core.ConnectionID(uuid.NewString()),
		Identity: who,
		Signal:   conn,
	}
	log.Info().Str("module", "signal").Str("user", string(who.ID)).Str("conn", string(sess.ConnID)).Msg("new WS connection")

	ctl.Orch.Presence.Register(sess)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sess, conn)
}
