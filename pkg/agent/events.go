package agent

import (
	"time"

	"github.com/google/uuid"
)

// EventType tags entries on the assistant stream. For one request the
// relative order is: initialized, zero or more generating, optionally one
// chat_created annotation, then complete or error.
type EventType string

const (
	EventInitialized EventType = "initialized"
	EventGenerating  EventType = "generating"
	EventChatCreated EventType = "chat_created"
	EventComplete    EventType = "complete"
	EventError       EventType = "error"
)

// Event is the tagged union multiplexed onto the caller-facing stream.
// Token rides on generating events; ChatID on the chat_created
// annotation; Message carries the renderable error text.
type Event struct {
	Type    EventType `json:"type"`
	Token   string    `json:"token,omitempty"`
	ChatID  uuid.UUID `json:"chat_id,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at,omitempty"`
}
