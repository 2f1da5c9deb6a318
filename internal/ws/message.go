package ws

import (
	"encoding/json"

	"github.com/ugaemi/mazechase/internal/game"
	"github.com/ugaemi/mazechase/internal/store"
)

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - Feed
const (
	TypeFrame   = "frame"
	TypeEvent   = "event"
	TypeRunOver = "run_over"
)

// Message types - Requests
const (
	TypeSnapshot = "snapshot"
	TypeRuns     = "runs"
)

// Message types - System
const (
	TypeError = "error"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message"`
}

// EventMessage reports a simulation event with the counters at that tick.
type EventMessage struct {
	Event game.Event `json:"event"`
	Level int        `json:"level"`
	Tally int        `json:"tally"`
	Total int        `json:"total"`
}

// RunOverMessage closes a run on the feed.
type RunOverMessage struct {
	Run *store.RunRecord `json:"run"`
}

// RunsMessage answers a runs request.
type RunsMessage struct {
	Runs []*store.RunRecord `json:"runs"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}
