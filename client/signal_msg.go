package client

import "encoding/json"

// Frames as the meeting page sends them. The server only reads type and
// target; everything else is relayed untouched.

type SignalType string

const (
	SignalOffer     SignalType = "offer"
	SignalAnswer    SignalType = "answer"
	SignalCandidate SignalType = "ice-candidate"
)

type SignalMsg struct {
	Type   SignalType      `json:"type"`
	Target string          `json:"target"`
	Signal json.RawMessage `json:"signal"`
	User   string          `json:"user"`
}

type ChatMsg struct {
	Type    string `json:"type"`
	User    string `json:"user"`
	Message string `json:"message"`
}

func NewChat(user, message string) ChatMsg {
	return ChatMsg{Type: "chat", User: user, Message: message}
}

// ToggleMsg announces a local mute or camera change.
type ToggleMsg struct {
	Type    string `json:"type"`
	User    string `json:"user"`
	Enabled bool   `json:"enabled"`
}

func NewMute(user string, muted bool) ToggleMsg {
	return ToggleMsg{Type: "mute", User: user, Enabled: muted}
}

func NewVideoToggle(user string, enabled bool) ToggleMsg {
	return ToggleMsg{Type: "video_toggle", User: user, Enabled: enabled}
}

// Presence is a user_joined or user_left event from the server.
type Presence struct {
	Type         string   `json:"type"`
	UserID       string   `json:"user_id"`
	Participants []string `json:"participants"`
}
