package api

import (
	"time"

	"parley/internal/chatstore"
)

// TurnRequest is the body of POST /chat. A zero or absent ChatID starts a
// new chat.
type TurnRequest struct {
	Message string `json:"message"`
	ChatID  int64  `json:"chat_id,omitempty"`
}

// TurnResponse is the reply to a successful turn.
type TurnResponse struct {
	ChatID   int64  `json:"chat_id"`
	Response string `json:"response"`
}

// ChatSummary is one entry of the GET /chats listing. The endpoint returns a
// bare JSON array of these, most recent first.
type ChatSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptMessage is one message of a chat transcript.
type TranscriptMessage struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TranscriptResponse is the reply to GET /chats/{chatID}.
type TranscriptResponse struct {
	ChatID   int64               `json:"chat_id"`
	Messages []TranscriptMessage `json:"messages"`
}

// HealthResponse is the reply to GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func fromChat(chat chatstore.Chat) ChatSummary {
	return ChatSummary{
		ID:        chat.ID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
	}
}

func fromMessage(msg chatstore.Message) TranscriptMessage {
	return TranscriptMessage{
		ID:        msg.ID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
