package chatstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

const messageColumns = "id, chat_id, role, content, created_at"

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func scanChat(scanner interface{ Scan(dest ...any) error }) (*Chat, error) {
	var (
		id         int64
		title      sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&id, &title, &createdRaw); err != nil {
		return nil, err
	}

	chat := &Chat{ID: id, Title: title.String}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		chat.CreatedAt = created
	}
	return chat, nil
}

func scanMessage(scanner interface{ Scan(dest ...any) error }) (*Message, error) {
	var (
		id         int64
		chatID     int64
		roleStr    string
		content    sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&id, &chatID, &roleStr, &content, &createdRaw); err != nil {
		return nil, err
	}

	message := &Message{
		ID:      id,
		ChatID:  chatID,
		Role:    Role(roleStr),
		Content: content.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		message.CreatedAt = created
	}
	return message, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
