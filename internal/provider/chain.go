package provider

import (
	"context"
	"errors"
	"log/slog"

	"parley/internal/logging"
)

// Chain tries each provider in configured order and returns the first
// successful reply. A provider failure is absorbed and logged; only when every
// provider has failed does the caller see an ExhaustedError carrying the last
// cause.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain builds a fallback chain over the supplied providers. Order is
// significant: the first provider is always attempted first.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chain{providers: providers, logger: logger}
}

// Providers returns the names of the chained backends in attempt order.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Complete walks the chain until a provider succeeds. Context cancellation
// aborts the walk immediately rather than trying the next provider.
func (c *Chain) Complete(ctx context.Context, history []Message) (string, error) {
	if len(c.providers) == 0 {
		return "", errors.New("no completion providers configured")
	}

	var lastErr error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		reply, err := p.Complete(ctx, history)
		if err == nil {
			c.logger.Debug("completion succeeded", logging.String("provider", p.Name()))
			return reply, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		c.logger.Warn("provider failed, trying next",
			logging.String("provider", p.Name()),
			logging.Error(err))
		lastErr = err
	}

	return "", &ExhaustedError{Attempts: len(c.providers), Last: lastErr}
}
