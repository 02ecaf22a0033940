package types

const (
	TypeWebsocketPing   = "ping"
	TypeWebsocketPong   = "pong"
	TypeWebsocketState  = "state"
	TypeWebsocketNotice = "notice"
)

const (
	NOTICE_LEVEL_INFO    = "info"
	NOTICE_LEVEL_WARNING = "warning"
	NOTICE_LEVEL_ERROR   = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Notice is an out-of-band message for the user, like a browser alert
type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}
