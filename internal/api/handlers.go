package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"parley/internal/chatstore"
	"parley/internal/logging"
	"parley/internal/provider"
	"parley/internal/turn"
)

const maxRequestBody = 1 << 20 // 1 MiB

// ChatStore is the read surface the HTTP handlers need beyond turns.
type ChatStore interface {
	ListChats(ctx context.Context) ([]chatstore.Chat, error)
	History(ctx context.Context, chatID int64) ([]chatstore.Message, error)
	Ping(ctx context.Context) error
}

// TurnRunner executes a single chat turn.
type TurnRunner interface {
	HandleTurn(ctx context.Context, chatID int64, message string) (*turn.Result, error)
}

// Handler serves the chat HTTP API.
type Handler struct {
	store  ChatStore
	turns  TurnRunner
	logger *slog.Logger
}

// NewHandler constructs the HTTP handler set.
func NewHandler(store ChatStore, turns TurnRunner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{store: store, turns: turns, logger: logger}
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := decoder.Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.turns.HandleTurn(r.Context(), req.ChatID, req.Message)
	if err != nil {
		h.writeTurnError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, TurnResponse{
		ChatID:   result.ChatID,
		Response: result.Response,
	})
}

func (h *Handler) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.store.ListChats(r.Context())
	if err != nil {
		h.logger.Error("list chats failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	summaries := make([]ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summaries = append(summaries, fromChat(chat))
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil || chatID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	history, err := h.store.History(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, chatstore.ErrChatNotFound) {
			h.writeError(w, http.StatusNotFound, "chat not found")
			return
		}
		h.logger.Error("fetch transcript failed",
			logging.Int64("chat_id", chatID),
			logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	messages := make([]TranscriptMessage, 0, len(history))
	for _, msg := range history {
		messages = append(messages, fromMessage(msg))
	}
	h.writeJSON(w, http.StatusOK, TranscriptResponse{ChatID: chatID, Messages: messages})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("health probe failed", logging.Error(err))
		h.writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) writeTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, turn.ErrEmptyMessage):
		h.writeError(w, http.StatusBadRequest, "message must not be empty")
	case errors.Is(err, chatstore.ErrChatNotFound):
		h.writeError(w, http.StatusNotFound, "chat not found")
	default:
		var exhausted *provider.ExhaustedError
		if errors.As(err, &exhausted) {
			h.logger.Error("all providers failed", logging.Error(err))
			h.writeError(w, http.StatusBadGateway, exhausted.Error())
			return
		}
		h.logger.Error("turn failed", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}
