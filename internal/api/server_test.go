package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"parley/internal/api"
	"parley/internal/provider"
	"parley/internal/testsupport"
	"parley/internal/turn"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, history []provider.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestServer(t *testing.T, completer provider.Completer) *httptest.Server {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := turn.NewService(store, completer, nil)
	handler := api.NewHandler(store, service, nil)
	server := httptest.NewServer(api.NewRouter(handler, nil, 0))
	t.Cleanup(server.Close)
	return server
}

func postTurn(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/chat", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /chat failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestTurnCreatesChatAndReturnsReply(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "Stockholm."})

	resp := postTurn(t, server, `{"message":"Capital of Sweden?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	turnResp := decodeBody[api.TurnResponse](t, resp)
	if turnResp.ChatID == 0 {
		t.Fatal("expected chat_id to be assigned")
	}
	if turnResp.Response != "Stockholm." {
		t.Fatalf("unexpected response: %q", turnResp.Response)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("expected X-Request-Id header")
	}
}

func TestTurnContinuesChat(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "hello"})

	first := decodeBody[api.TurnResponse](t, postTurn(t, server, `{"message":"hi"}`))
	resp := postTurn(t, server, `{"message":"again","chat_id":`+jsonInt(first.ChatID)+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	second := decodeBody[api.TurnResponse](t, resp)
	if second.ChatID != first.ChatID {
		t.Fatalf("expected chat %d, got %d", first.ChatID, second.ChatID)
	}
}

func TestTurnEmptyMessage(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "unused"})

	resp := postTurn(t, server, `{"message":"   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	errResp := decodeBody[api.ErrorResponse](t, resp)
	if errResp.Error == "" {
		t.Fatal("expected error message in body")
	}
}

func TestTurnInvalidJSON(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "unused"})

	resp := postTurn(t, server, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestTurnUnknownChat(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "unused"})

	resp := postTurn(t, server, `{"message":"hi","chat_id":9999}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestTurnProvidersExhausted(t *testing.T) {
	exhausted := &provider.ExhaustedError{Attempts: 2, Last: errors.New("all down")}
	server := newTestServer(t, &stubCompleter{err: exhausted})

	resp := postTurn(t, server, `{"message":"hi"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestListChatsMostRecentFirst(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "ok"})

	first := decodeBody[api.TurnResponse](t, postTurn(t, server, `{"message":"first chat"}`))
	second := decodeBody[api.TurnResponse](t, postTurn(t, server, `{"message":"second chat"}`))

	resp, err := http.Get(server.URL + "/chats")
	if err != nil {
		t.Fatalf("GET /chats failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	// The listing is a bare JSON array, not a wrapper object.
	chats := decodeBody[[]api.ChatSummary](t, resp)
	if len(chats) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(chats))
	}
	if chats[0].ID != second.ChatID || chats[1].ID != first.ChatID {
		t.Fatalf("expected most recent first, got %v then %v", chats[0].ID, chats[1].ID)
	}
	if chats[1].Title != "first chat" {
		t.Fatalf("unexpected title: %q", chats[1].Title)
	}
}

func TestListChatsWireShapeIsBareArray(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "ok"})
	postTurn(t, server, `{"message":"hello"}`)

	resp, err := http.Get(server.URL + "/chats")
	if err != nil {
		t.Fatalf("GET /chats failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		t.Fatalf("expected a bare JSON array, got %q", trimmed)
	}
}

func TestTranscriptRoundTrip(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "Stockholm."})

	created := decodeBody[api.TurnResponse](t, postTurn(t, server, `{"message":"Capital of Sweden?"}`))

	resp, err := http.Get(server.URL + "/chats/" + jsonInt(created.ChatID))
	if err != nil {
		t.Fatalf("GET transcript failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	transcript := decodeBody[api.TranscriptResponse](t, resp)
	if transcript.ChatID != created.ChatID {
		t.Fatalf("unexpected chat id: %d", transcript.ChatID)
	}
	if len(transcript.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(transcript.Messages))
	}
	if transcript.Messages[0].Role != "user" || transcript.Messages[0].Content != "Capital of Sweden?" {
		t.Fatalf("unexpected first message: %#v", transcript.Messages[0])
	}
	if transcript.Messages[1].Role != "assistant" || transcript.Messages[1].Content != "Stockholm." {
		t.Fatalf("unexpected second message: %#v", transcript.Messages[1])
	}
}

func TestTranscriptUnknownChat(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "unused"})

	resp, err := http.Get(server.URL + "/chats/424242")
	if err != nil {
		t.Fatalf("GET transcript failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestTranscriptInvalidID(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "unused"})

	resp, err := http.Get(server.URL + "/chats/not-a-number")
	if err != nil {
		t.Fatalf("GET transcript failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &stubCompleter{reply: "unused"})

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	health := decodeBody[api.HealthResponse](t, resp)
	if health.Status != "ok" {
		t.Fatalf("unexpected status: %q", health.Status)
	}
}

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
