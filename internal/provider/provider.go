package provider

import "context"

// Message roles accepted by completion backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the conversation sent to a backend, oldest first.
type Message struct {
	Role    string
	Content string
}

// Provider produces an assistant reply for the supplied conversation.
// Complete returns a non-empty reply or an error; it never returns both.
type Provider interface {
	Name() string
	Complete(ctx context.Context, history []Message) (string, error)
}

// Completer is the single-call surface consumed by the turn orchestrator.
// Chain satisfies it; individual providers do as well.
type Completer interface {
	Complete(ctx context.Context, history []Message) (string, error)
}
