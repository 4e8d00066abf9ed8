package chatstore

import "time"

// Role identifies the author of a message within a chat.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the closed set accepted by the store.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Chat represents a persistent conversation thread. The title is derived once
// from the first user message and never recomputed.
type Chat struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}

// Message represents a single entry in a chat's ordered message log.
type Message struct {
	ID        int64
	ChatID    int64
	Role      Role
	Content   string
	CreatedAt time.Time
}
