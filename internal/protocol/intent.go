package protocol

import "encoding/json"

type IntentEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type RequestTileClick struct {
	Q int `json:"q"`
	R int `json:"r"`
}

type RequestBackgroundClick struct {
}

type RequestEndTurn struct {
}

type RequestSnapshot struct {
}
