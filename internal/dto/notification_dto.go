package dto

import "time"

// Notification is the real-time payload pushed over websocket when the
// platform emits an event the user should see.
type Notification struct {
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
