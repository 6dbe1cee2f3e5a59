package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChatTurnMessage is one entry of the caller-supplied conversation
// history. The last entry must be the new user message.
type ChatTurnMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

type StreamChatRequest struct {
	ChatId  *uuid.UUID        `json:"chat_id,omitempty"`
	History []ChatTurnMessage `json:"history" validate:"required,min=1,dive"`
}

// StreamEvent is the SSE payload union. Type selects which of the
// optional fields is populated.
type StreamEvent struct {
	Type    string     `json:"type"`
	Token   string     `json:"token,omitempty"`
	ChatId  *uuid.UUID `json:"chat_id,omitempty"`
	At      *time.Time `json:"at,omitempty"`
	Message string     `json:"message,omitempty"`
}

type GetAllChatsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id          uuid.UUID       `json:"id"`
	Role        string          `json:"role"`
	Content     string          `json:"content"`
	ToolPayload json.RawMessage `json:"tool_payload,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type GetChatDetailResponse struct {
	Id       uuid.UUID                `json:"id"`
	Title    string                   `json:"title"`
	Messages []GetChatHistoryResponse `json:"messages"`
}
