package turn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"parley/internal/chatstore"
	"parley/internal/logging"
	"parley/internal/provider"
)

// ErrEmptyMessage indicates a turn was requested with no message text.
var ErrEmptyMessage = errors.New("message must not be empty")

// Store is the persistence surface a turn needs.
type Store interface {
	CreateChat(ctx context.Context, initialUserText string) (*chatstore.Chat, error)
	AppendMessage(ctx context.Context, chatID int64, role chatstore.Role, content string) (*chatstore.Message, error)
	History(ctx context.Context, chatID int64) ([]chatstore.Message, error)
}

// Service runs chat turns against a store and a completion backend.
type Service struct {
	store     Store
	completer provider.Completer
	logger    *slog.Logger
}

// NewService constructs a turn service.
func NewService(store Store, completer provider.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{store: store, completer: completer, logger: logger}
}

// Result is the outcome of a successful turn.
type Result struct {
	ChatID   int64
	Response string
}

// HandleTurn runs one exchange. A zero chatID creates a new chat titled from
// the message. The user message is persisted before the completion is
// attempted, so a failed completion still leaves the user's side of the
// conversation in the log.
func (s *Service) HandleTurn(ctx context.Context, chatID int64, message string) (*Result, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if chatID == 0 {
		chat, err := s.store.CreateChat(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("create chat: %w", err)
		}
		chatID = chat.ID
		s.logger.Info("chat created",
			logging.Int64("chat_id", chatID),
			logging.String("title", chat.Title))
	}

	// Snapshot the history before appending so the provider sees prior turns
	// plus exactly this message, regardless of concurrent appends.
	history, err := s.store.History(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.AppendMessage(ctx, chatID, chatstore.RoleUser, text); err != nil {
		return nil, err
	}

	conversation := make([]provider.Message, 0, len(history)+1)
	for _, msg := range history {
		conversation = append(conversation, provider.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	conversation = append(conversation, provider.Message{Role: provider.RoleUser, Content: text})

	reply, err := s.completer.Complete(ctx, conversation)
	if err != nil {
		// The user message stays persisted; the turn simply has no reply.
		s.logger.Error("completion failed",
			logging.Int64("chat_id", chatID),
			logging.Error(err))
		return nil, err
	}

	if _, err := s.store.AppendMessage(ctx, chatID, chatstore.RoleAssistant, reply); err != nil {
		return nil, fmt.Errorf("persist assistant reply: %w", err)
	}

	s.logger.Info("turn completed",
		logging.Int64("chat_id", chatID),
		logging.Int("history_messages", len(conversation)))

	return &Result{ChatID: chatID, Response: reply}, nil
}
