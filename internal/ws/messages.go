package ws

import (
	"encoding/json"

	"coderoomgo/internal/services/room"
)

// Envelope wraps every WS frame.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "join-room"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// ──────────────────────────── Request DTOs ───────────────────────────────────

// JoinRoomBody is the body for "join-room" and "leave-room".
type JoinRoomBody struct {
	RoomID string `json:"roomId" validate:"required"`
}

// CodeChangeBody is the body for "code-change".
type CodeChangeBody struct {
	RoomID string `json:"roomId" validate:"required"`
	Code   string `json:"code"`
}

// CursorBody is the body for "cursor-position". Position is opaque: the
// server relays whatever shape the editor sent.
type CursorBody struct {
	RoomID   string          `json:"roomId" validate:"required"`
	Position json.RawMessage `json:"position"`
	UserID   string          `json:"userId" validate:"required"`
	Name     string          `json:"name"`
}

// TypingBody is the body for "user-typing" and "user-stopped-typing".
type TypingBody struct {
	RoomID string `json:"roomId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
	Name   string `json:"name"`
}

// ──────────────────────────── Response / broadcast DTOs ──────────────────────

// CreateRoomAck answers "create-room".
type CreateRoomAck struct {
	RoomID string `json:"roomId"`
}

// JoinRoomAck answers "join-room".
type JoinRoomAck struct {
	Success bool `json:"success"`
}

// RoomData is the requester-only snapshot pushed right after a join.
type RoomData struct {
	Code  string        `json:"code"`
	Users []room.Member `json:"users"`
}

// CursorUpdate is broadcast to the rest of the room on "cursor-position".
type CursorUpdate struct {
	UserID   string          `json:"userId"`
	Position json.RawMessage `json:"position"`
	Name     string          `json:"name"`
}

// TypingUpdate is broadcast on "user-typing".
type TypingUpdate struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}
