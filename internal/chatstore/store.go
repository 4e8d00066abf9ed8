package chatstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"parley/internal/config"
)

// ErrChatNotFound indicates the referenced chat does not exist.
var ErrChatNotFound = errors.New("chat not found")

// ErrInvalidRole indicates a message role outside the closed user/assistant set.
var ErrInvalidRole = errors.New("invalid message role")

// Store manages chat persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the chat database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx = ensureContext(ctx)
	return s.db.PingContext(ctx)
}

// CreateChat allocates a new chat whose title is derived from the first user
// message. The insert is a single statement, so no partial chat is ever visible.
func (s *Store) CreateChat(ctx context.Context, initialUserText string) (*Chat, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	title := deriveTitle(initialUserText)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO chats (title, created_at) VALUES (?, ?)`,
		title,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chat: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetChat(ctx, id)
}

// AppendMessage appends to the ordered message log of an existing chat.
// Returns ErrChatNotFound when the chat does not exist.
func (s *Store) AppendMessage(ctx context.Context, chatID int64, role Role, content string) (*Message, error) {
	ctx = ensureContext(ctx)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO messages (chat_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		chatID,
		string(role),
		content,
		timestamp,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	message, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return message, nil
}

// History returns all messages for a chat in creation order. The result is a
// snapshot: appends from concurrent turns are invisible until re-fetched.
// Ordering is by id: AUTOINCREMENT ids follow insertion order, whereas the
// RFC3339Nano created_at strings vary in fractional precision and do not sort
// chronologically as text.
func (s *Store) History(ctx context.Context, chatID int64) ([]Message, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id = ? ORDER BY id ASC`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	if len(messages) == 0 {
		chat, err := s.GetChat(ctx, chatID)
		if err != nil {
			return nil, err
		}
		if chat == nil {
			return nil, ErrChatNotFound
		}
	}
	return messages, nil
}

// GetChat fetches a chat by identifier. Returns nil when absent.
func (s *Store) GetChat(ctx context.Context, chatID int64) (*Chat, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT id, title, created_at FROM chats WHERE id = ?`, chatID)
	chat, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return chat, nil
}

// ListChats returns all chats most-recent-first for sidebar display.
func (s *Store) ListChats(ctx context.Context) ([]Chat, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, title, created_at FROM chats ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, *chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return chats, nil
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint")
}
