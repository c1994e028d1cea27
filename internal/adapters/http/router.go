// Package http wires the REST and websocket routes.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eduhub/classroom/internal/adapters/signal"
	"github.com/eduhub/classroom/internal/app/orch"
	"github.com/eduhub/classroom/internal/config"
	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/identity"
	"github.com/eduhub/classroom/internal/repository"
)

// bearerToken extracts the credential from the Authorization header or, for
// websocket clients that cannot set headers, the token query parameter.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return after
	}
	return c.Query("token")
}

// IdentityMiddleware refuses unauthenticated requests outright; there are no
// partial or anonymous sessions.
func IdentityMiddleware(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, err := resolver.Resolve(c.Request.Context(), bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication error"})
			return
		}
		c.Set("identity", who)
		c.Next()
	}
}

func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	o *orch.Orchestrator,
	resolver identity.Resolver,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "connections": o.Presence.Count()})
	})

	ctl := signal.NewController(o, cfg.ReadLimit)

	api := r.Group("/api")
	api.Use(IdentityMiddleware(resolver))

	api.GET("/ws/meetings", func(c *gin.Context) {
		ctl.HandleMeetingSocket(ctx, c)
	})

	api.GET("/meetings", func(c *gin.Context) {
		meetings, err := o.Meetings.ListMeetings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list meetings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"meetings": meetings})
	})

	api.POST("/meetings", func(c *gin.Context) {
		who := c.MustGet("identity").(*domain.Identity)
		if !who.CanModerate() {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
			return
		}
		var req struct {
			Title       string     `json:"title"`
			ScheduledAt *time.Time `json:"scheduledAt"`
			WaitingRoom *bool      `json:"waitingRoom"`
			ChatEnabled *bool      `json:"chatEnabled"`
		}
		if err := c.BindJSON(&req); err != nil || req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting"})
			return
		}

		now := time.Now()
		meeting := &domain.Meeting{
			ID:          domain.MeetingID(uuid.NewString()),
			Title:       req.Title,
			HostID:      who.ID,
			Status:      domain.MeetingScheduled,
			ScheduledAt: now,
			Settings: domain.MeetingSettings{
				WaitingRoom:        true,
				ChatEnabled:        true,
				ScreenShareEnabled: true,
			},
			CreatedAt: now,
		}
		if req.ScheduledAt != nil {
			meeting.ScheduledAt = *req.ScheduledAt
		}
		if req.WaitingRoom != nil {
			meeting.Settings.WaitingRoom = *req.WaitingRoom
		}
		if req.ChatEnabled != nil {
			meeting.Settings.ChatEnabled = *req.ChatEnabled
		}

		if err := o.Meetings.SaveMeeting(c.Request.Context(), meeting); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save meeting"})
			return
		}
		log.Info().Str("module", "adapters.http").Str("meeting", string(meeting.ID)).Str("host", string(who.ID)).Msg("meeting created")
		c.JSON(http.StatusCreated, meeting)
	})

	api.GET("/meetings/:id", func(c *gin.Context) {
		meeting, err := o.Meetings.GetMeeting(c.Request.Context(), domain.MeetingID(c.Param("id")))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get meeting"})
			return
		}
		c.JSON(http.StatusOK, meeting)
	})

	api.GET("/notifications", func(c *gin.Context) {
		who := c.MustGet("identity").(*domain.Identity)
		list, err := o.Notifications.ListNotifications(c.Request.Context(), who.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": list})
	})

	return r
}
