package signal

import (
	"context"
	"time"

	"github.com/dkeye/voicehub/internal/app/orch"
	"github.com/dkeye/voicehub/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn, logger zerolog.Logger) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("writePump ctx done")
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(ctl.opts.WriteWait))
			return
		case <-ticker.C:
			if err := ctl.ping(c); err != nil {
				logger.Debug().Err(err).Msg("writePump ping failed")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				logger.Debug().Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				logger.Error().Err(err).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Error().Err(err).Msg("writePump write error")
				return
			}
		}
	}
}

// readPump is the only producer of events for id, which keeps them in order.
// On exit it always reports the disconnect.
func (ctl *SignalWSController) readPump(ctx context.Context, id domain.ConnID, c *WsSignalConn, logger zerolog.Logger) {
	limiter := NewConnRateLimiter(ctl.opts.EventRate, ctl.opts.EventBurst)
	defer func() {
		logger.Info().Int("rate_limited", limiter.Dropped()).Msg("readPump closing")
		ctl.Hub.Detach(id)
		c.Close()
		// The loop may already be gone on shutdown; a fresh context keeps the
		// cleanup from being skipped while it is still running.
		if err := ctl.Orch.Enqueue(context.WithoutCancel(ctx), orch.Disconnected(id)); err != nil {
			logger.Warn().Err(err).Msg("disconnect not delivered")
		}
	}()

	ctl.keepalive(c, logger)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("readPump read error")
			} else {
				logger.Debug().Err(err).Msg("readPump read end")
			}
			return
		}
		if !limiter.Allow() {
			logger.Warn().Msg("event rate limited")
			continue
		}
		env, err := decode(data)
		if err != nil || env.Event == "" {
			logger.Warn().Err(err).Msg("bad envelope")
			continue
		}
		if err := ctl.Orch.Enqueue(ctx, orch.Message(id, env.Event, env.Data)); err != nil {
			logger.Info().Err(err).Msg("readPump stop enqueue")
			return
		}
	}
}
