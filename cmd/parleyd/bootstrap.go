package main

import (
	"errors"
	"log/slog"
	"strings"

	"parley/internal/chatstore"
	"parley/internal/config"
	"parley/internal/logging"
	"parley/internal/provider"
	"parley/internal/turn"
)

// bootstrap opens the chat store and assembles the provider fallback chain in
// configured order: OpenRouter first, Gemini second. Providers without
// credentials are skipped.
func bootstrap(cfg *config.Config, logger *slog.Logger) (*chatstore.Store, *provider.Chain, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	store, err := chatstore.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	var providers []provider.Provider
	if strings.TrimSpace(cfg.OpenRouter.APIKey) != "" {
		providers = append(providers, provider.NewOpenRouter(cfg.OpenRouter, cfg.Completion))
	}
	if strings.TrimSpace(cfg.Gemini.APIKey) != "" {
		providers = append(providers, provider.NewGemini(cfg.Gemini, cfg.Completion))
	}
	if len(providers) == 0 {
		_ = store.Close()
		return nil, nil, errors.New("no completion provider configured")
	}

	chain := provider.NewChain(logging.NewComponentLogger(logger, "provider"), providers...)
	logger.Info("completion chain assembled",
		logging.Any("providers", chain.Providers()))

	return store, chain, nil
}

func newTurnService(store *chatstore.Store, chain *provider.Chain, logger *slog.Logger) *turn.Service {
	return turn.NewService(store, chain, logging.NewComponentLogger(logger, "turn"))
}
