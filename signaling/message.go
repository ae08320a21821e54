package signaling

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// MessageType is the "type" tag of a signaling frame.
type MessageType string

const (
	TypeOffer        MessageType = "offer"
	TypeAnswer       MessageType = "answer"
	TypeICECandidate MessageType = "ice-candidate"
	TypeChat         MessageType = "chat"
	TypeMute         MessageType = "mute"
	TypeVideoToggle  MessageType = "video_toggle"
	TypeUserJoined   MessageType = "user_joined"
	TypeUserLeft     MessageType = "user_left"
)

var ErrMalformedMessage = errors.New("signaling: malformed message")

// Directed reports whether frames of this type go to a single target.
func (t MessageType) Directed() bool {
	switch t {
	case TypeOffer, TypeAnswer, TypeICECandidate:
		return true
	}
	return false
}

// Message is a decoded inbound frame. Raw holds the original bytes, which are
// relayed unchanged.
type Message struct {
	Type   MessageType
	Target string
	Raw    []byte
}

type envelope struct {
	Type   MessageType `json:"type"`
	Target string      `json:"target,omitempty"`
}

// DecodeMessage parses an inbound frame. Presence types are server-generated
// and rejected when sent by a client. Frames that are not valid UTF-8 cannot
// be relayed as text frames and are rejected before parsing.
func DecodeMessage(frame []byte) (Message, error) {
	if !utf8.Valid(frame) {
		return Message{}, fmt.Errorf("%w: invalid utf-8", ErrMalformedMessage)
	}

	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch env.Type {
	case TypeOffer, TypeAnswer, TypeICECandidate:
		if env.Target == "" {
			return Message{}, fmt.Errorf("%w: %s without target", ErrMalformedMessage, env.Type)
		}
	case TypeChat, TypeMute, TypeVideoToggle:
	default:
		return Message{}, fmt.Errorf("%w: unknown type %q", ErrMalformedMessage, env.Type)
	}

	return Message{Type: env.Type, Target: env.Target, Raw: frame}, nil
}

// PresenceEvent is broadcast when room membership changes.
type PresenceEvent struct {
	Type         MessageType `json:"type"`
	UserID       string      `json:"user_id"`
	Participants []string    `json:"participants"`
}
