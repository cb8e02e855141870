package signal

import (
	"encoding/json"

	"github.com/dkeye/voicehub/internal/core"
)

// Envelope is the frame format in both directions:
// {"event": "<name>", "data": <json>}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func encode(event string, payload any) (core.Frame, error) {
	return json.Marshal(outEnvelope{Event: event, Data: payload})
}

func decode(data []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(data, &env)
	return env, err
}
