package types

import "time"

const (
	MESSAGE_ROLE_USER = "user"
	MESSAGE_ROLE_BOT  = "bot"
)

const (
	SEND_LABEL_IDLE    = "Send"
	SEND_LABEL_PENDING = "Thinking..."
)

// Message is one entry of the conversation log
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the body returned by the backend's /ask endpoint.
// Either field may be missing.
type AskResponse struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ChatState is a point-in-time snapshot of the chat client
type ChatState struct {
	Files     []string  `json:"files"`
	Question  string    `json:"question"`
	Ready     bool      `json:"ready"`
	Pending   bool      `json:"pending"`
	Uploading bool      `json:"uploading"`
	SendLabel string    `json:"send_label"`
	Messages  []Message `json:"messages"`
}
