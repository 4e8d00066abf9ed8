package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"parley/internal/config"
	"parley/internal/provider"
)

func newGeminiConfig(serverURL string) (config.Gemini, config.Completion) {
	cfg := config.Default()
	cfg.Gemini.APIKey = "gemini-key"
	cfg.Gemini.BaseURL = serverURL
	return cfg.Gemini, cfg.Completion
}

func TestGeminiCompleteRelabelsAssistantTurns(t *testing.T) {
	var captured struct {
		SystemInstruction *struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"system_instruction"`
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	var gotKey, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Oslo."}]}}]}`))
	}))
	defer server.Close()

	gmCfg, completion := newGeminiConfig(server.URL)
	backend := provider.NewGemini(gmCfg, completion)

	reply, err := backend.Complete(context.Background(), []provider.Message{
		{Role: provider.RoleUser, Content: "Capital of Sweden?"},
		{Role: provider.RoleAssistant, Content: "Stockholm."},
		{Role: provider.RoleUser, Content: "And Norway?"},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "Oslo." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if gotKey != "gemini-key" {
		t.Fatalf("unexpected api key header: %q", gotKey)
	}
	if want := "/models/" + gmCfg.Model + ":generateContent"; gotPath != want {
		t.Fatalf("unexpected path: %q, want %q", gotPath, want)
	}
	if captured.SystemInstruction == nil || len(captured.SystemInstruction.Parts) == 0 {
		t.Fatal("expected system instruction to be sent")
	}
	if len(captured.Contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(captured.Contents))
	}
	wantRoles := []string{"user", "model", "user"}
	for i, want := range wantRoles {
		if captured.Contents[i].Role != want {
			t.Fatalf("content %d: expected role %q, got %q", i, want, captured.Contents[i].Role)
		}
	}
}

func TestGeminiCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer server.Close()

	gmCfg, completion := newGeminiConfig(server.URL)
	backend := provider.NewGemini(gmCfg, completion)

	_, err := backend.Complete(context.Background(), []provider.Message{{Role: provider.RoleUser, Content: "hi"}})
	var provErr *provider.Error
	if !errors.As(err, &provErr) {
		t.Fatalf("expected provider.Error, got %v", err)
	}
	if provErr.Provider != "gemini" {
		t.Fatalf("unexpected provider name: %q", provErr.Provider)
	}
	if provErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", provErr.Status)
	}
}

func TestGeminiCompleteMissingKey(t *testing.T) {
	gmCfg, completion := newGeminiConfig("http://unused.test")
	gmCfg.APIKey = ""
	backend := provider.NewGemini(gmCfg, completion)

	_, err := backend.Complete(context.Background(), []provider.Message{{Role: provider.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error with missing api key")
	}
}

func TestGeminiCompleteEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	gmCfg, completion := newGeminiConfig(server.URL)
	backend := provider.NewGemini(gmCfg, completion)

	_, err := backend.Complete(context.Background(), []provider.Message{{Role: provider.RoleUser, Content: "hi"}})
	var provErr *provider.Error
	if !errors.As(err, &provErr) {
		t.Fatalf("expected provider.Error, got %v", err)
	}
}
