package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	VehicleID *uuid.UUID `json:"vehicle_id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ChatListItem is a chat row plus a preview of its most recent message,
// used by the sidebar listing.
type ChatListItem struct {
	Chat
	LastMessage *string `json:"last_message"`
}

type Message struct {
	ID        uuid.UUID       `json:"id"`
	ChatID    uuid.UUID       `json:"chat_id"`
	Role      string          `json:"role"` // "user" or "assistant"
	Content   string          `json:"content"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ChatMessage is one turn of conversation history as sent by the client.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload of the streaming chat endpoint.
type ChatRequest struct {
	Messages  []ChatMessage `json:"messages"`
	ChatID    *uuid.UUID    `json:"chatId"`
	VehicleID *uuid.UUID    `json:"vehicleId"`
}

// ExplainCodeRequest asks for a one-shot OBD-II error code explanation.
type ExplainCodeRequest struct {
	Code      string     `json:"code"`
	VehicleID *uuid.UUID `json:"vehicleId"`
}

// StartVehicleChatRequest opens a new chat pre-seeded with the vehicle's specs.
type StartVehicleChatRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id"`
}
