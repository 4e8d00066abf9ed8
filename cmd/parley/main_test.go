package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServerURLPrefersFlag(t *testing.T) {
	server := "http://127.0.0.1:9999/"
	cfgPath := ""
	ctx := newCommandContext(&server, &cfgPath)

	got, err := ctx.serverURL()
	if err != nil {
		t.Fatalf("serverURL failed: %v", err)
	}
	if got != "http://127.0.0.1:9999" {
		t.Fatalf("unexpected server url: %q", got)
	}
}

func TestRenderTableFallsBackWhenPiped(t *testing.T) {
	// Test stdout is never a terminal, so the tab-separated path runs.
	out := renderTable(
		[]string{"ID", "Title"},
		[][]string{{"1", "first"}, {"2", "second"}},
	)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "ID\tTitle" || lines[1] != "1\tfirst" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestAPIClientSurfacesDaemonErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"chat not found"}`))
	}))
	defer server.Close()

	client := newAPIClient(server.URL)
	_, err := client.Transcript(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected daemon error message, got %v", err)
	}
}

func TestAPIClientSendTurn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chat_id":7,"response":"hi"}`))
	}))
	defer server.Close()

	client := newAPIClient(server.URL)
	result, err := client.SendTurn(context.Background(), 0, "hello")
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	if result.ChatID != 7 || result.Response != "hi" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"send", "chats", "show", "health", "config"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Fatalf("expected subcommand %q to be registered, got %v", name, err)
		}
	}
}
