package http

import (
	"net/http"

	"github.com/dkeye/voicehub/internal/adapters/signal"
	"github.com/dkeye/voicehub/internal/app"
	"github.com/dkeye/voicehub/internal/app/orch"
	"github.com/dkeye/voicehub/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type handlers struct {
	orch   *orch.Orchestrator
	hub    *signal.Hub
	webrtc webrtc.Configuration
}

// query runs fn on the orchestrator loop and answers 503 when it is gone.
func (h *handlers) query(c *gin.Context, fn func()) bool {
	if err := h.orch.Query(c.Request.Context(), fn); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("query failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable"})
		return false
	}
	return true
}

func (h *handlers) health(c *gin.Context) {
	var users, channels int
	if !h.query(c, func() {
		users = h.orch.Registry.Len()
		channels = len(h.orch.Channels.Channels())
	}) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   h.hub.Len(),
		"rooms":         len(h.hub.Rooms()),
		"registered":    users,
		"voiceChannels": channels,
	})
}

func (h *handlers) presence(c *gin.Context) {
	var snap []domain.Connection
	if h.query(c, func() { snap = h.orch.Registry.Snapshot() }) {
		c.JSON(http.StatusOK, snap)
	}
}

func (h *handlers) voiceChannels(c *gin.Context) {
	var list []app.ChannelInfo
	if h.query(c, func() { list = h.orch.Channels.Channels() }) {
		c.JSON(http.StatusOK, list)
	}
}

func (h *handlers) voiceRoster(c *gin.Context) {
	ch := domain.ChannelID(c.Param("channelId"))
	var roster []domain.VoiceMember
	if h.query(c, func() { roster = h.orch.Presence.Roster(ch) }) {
		c.JSON(http.StatusOK, gin.H{"channelId": ch, "count": len(roster), "members": roster})
	}
}

func (h *handlers) iceServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.webrtc.ICEServers})
}
