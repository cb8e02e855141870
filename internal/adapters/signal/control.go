package signal

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// keepalive arms the read deadline and extends it on every pong.
func (ctl *SignalWSController) keepalive(c *WsSignalConn, logger zerolog.Logger) {
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		logger.Trace().Msg("pong")
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})
}

func (ctl *SignalWSController) ping(c *WsSignalConn) error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteWait))
}
