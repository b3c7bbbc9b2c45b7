package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func testNotifier(serverURL string) *TelegramNotifier {
	n := NewTelegramNotifier("test-token", "42", "")
	n.APIBase = serverURL
	return n
}

func TestSendPayload(t *testing.T) {
	var gotPath string
	var payload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := testNotifier(srv.URL).Send("<b>BTC</b> phase change"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotPath != "/bottest-token/sendMessage" {
		t.Errorf("path: got %s", gotPath)
	}
	if payload["chat_id"] != "42" {
		t.Errorf("chat_id: got %v, want 42", payload["chat_id"])
	}
	if payload["parse_mode"] != "HTML" {
		t.Errorf("parse_mode: got %v, want HTML", payload["parse_mode"])
	}
	if payload["disable_web_page_preview"] != true {
		t.Errorf("link previews should be disabled, got %v", payload["disable_web_page_preview"])
	}
}

func TestSendReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	err := testNotifier(srv.URL).Send("hello")
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error should carry the API body, got: %v", err)
	}
}

func TestRegisterCommands(t *testing.T) {
	var gotPath string
	var payload struct {
		Commands []BotCommand `json:"commands"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := testNotifier(srv.URL).RegisterCommands(); err != nil {
		t.Fatalf("RegisterCommands: %v", err)
	}
	if gotPath != "/bottest-token/setMyCommands" {
		t.Errorf("path: got %s", gotPath)
	}
	want := []string{"report", "cycle", "market", "streak", "status", "help"}
	if len(payload.Commands) != len(want) {
		t.Fatalf("command count: got %d, want %d", len(payload.Commands), len(want))
	}
	for i, cmd := range payload.Commands {
		if cmd.Command != want[i] {
			t.Errorf("command[%d]: got %q, want %q", i, cmd.Command, want[i])
		}
		if cmd.Description == "" {
			t.Errorf("command %q has no description", cmd.Command)
		}
	}
}

func TestSendWithRetryRecovers(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := testNotifier(srv.URL).SendWithRetry(context.Background(), "hello", 3); err != nil {
		t.Fatalf("SendWithRetry: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("calls: got %d, want 2 (one failure, one success)", calls)
	}
}

func TestSendWithRetryHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := testNotifier(srv.URL).SendWithRetry(ctx, "hello", 5)
	if err != context.DeadlineExceeded {
		t.Errorf("expected context deadline error, got: %v", err)
	}
}
