package testsupport

import (
	"testing"

	"parley/internal/chatstore"
	"parley/internal/config"
)

// MustOpenStore opens a chat store for the provided config and registers
// cleanup with the test.
func MustOpenStore(t testing.TB, cfg *config.Config) *chatstore.Store {
	t.Helper()

	store, err := chatstore.Open(cfg)
	if err != nil {
		t.Fatalf("open chat store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close chat store: %v", err)
		}
	})
	return store
}
