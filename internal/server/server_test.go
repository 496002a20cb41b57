// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pdiddy/optowatch/internal/notify"
	"github.com/pdiddy/optowatch/pkg/types"
)

type taskRecorder struct {
	mu    sync.Mutex
	tasks []SearchTask
	done  chan struct{}
}

func newTaskRecorder() *taskRecorder {
	return &taskRecorder{done: make(chan struct{}, 8)}
}

func (r *taskRecorder) run(_ context.Context, task SearchTask) {
	r.mu.Lock()
	r.tasks = append(r.tasks, task)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *taskRecorder) wait(t *testing.T) SearchTask {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not run the task")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks[len(r.tasks)-1]
}

func newTestServer(t *testing.T, rec *taskRecorder, w io.Writer) *Server {
	t.Helper()
	notifier := notify.NewNotifier(http.DefaultClient, types.NotifyConfig{}, w)
	s := New(notifier, rec.run, "perovskite solar cells", w)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s.Start(ctx)
	return s
}

func postJSON(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/feishu_webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func messageEvent(text, chatID string) string {
	content, _ := json.Marshal(map[string]string{"text": text})
	body, _ := json.Marshal(map[string]any{
		"header": map[string]string{"event_type": "im.message.receive_v1"},
		"event": map[string]any{
			"message": map[string]string{
				"content":      string(content),
				"message_type": "text",
				"chat_id":      chatID,
			},
		},
	})
	return string(body)
}

func TestChallengeEcho(t *testing.T) {
	s := newTestServer(t, newTaskRecorder(), io.Discard)

	rr := postJSON(t, s.Router(), `{"challenge":"abc123","type":"url_verification"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if resp["challenge"] != "abc123" {
		t.Errorf("challenge = %q, want echoed", resp["challenge"])
	}
}

func TestSearchCommandDispatched(t *testing.T) {
	rec := newTaskRecorder()
	var buf bytes.Buffer
	s := newTestServer(t, rec, &buf)

	rr := postJSON(t, s.Router(), messageEvent("search quantum dot lasers", "oc_chat9"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	task := rec.wait(t)
	if task.Query != "quantum dot lasers" || task.ChatID != "oc_chat9" {
		t.Errorf("task = %+v", task)
	}
	// The command is acknowledged before the search runs.
	if !strings.Contains(buf.String(), "收到指令") {
		t.Error("acknowledgement not sent")
	}
}

func TestResearchCommandWithMention(t *testing.T) {
	rec := newTaskRecorder()
	s := newTestServer(t, rec, io.Discard)

	postJSON(t, s.Router(), messageEvent("@_user_1 research perovskite stability", "oc_chat9"))

	task := rec.wait(t)
	if task.Query != "perovskite stability" {
		t.Errorf("Query = %q, want mention stripped", task.Query)
	}
}

func TestBareCommandUsesDefaultQuery(t *testing.T) {
	rec := newTaskRecorder()
	s := newTestServer(t, rec, io.Discard)

	postJSON(t, s.Router(), messageEvent("search", "oc_chat9"))

	task := rec.wait(t)
	if task.Query != "perovskite solar cells" {
		t.Errorf("Query = %q, want default query", task.Query)
	}
}

func TestUnrelatedMessageIgnored(t *testing.T) {
	rec := newTaskRecorder()
	s := newTestServer(t, rec, io.Discard)

	rr := postJSON(t, s.Router(), messageEvent("hello there", "oc_chat9"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want ack even when ignoring", rr.Code)
	}

	select {
	case <-rec.done:
		t.Error("task dispatched for a non-command message")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNonMessageEventIgnored(t *testing.T) {
	rec := newTaskRecorder()
	s := newTestServer(t, rec, io.Discard)

	body := `{"header":{"event_type":"im.chat.updated_v1"},"event":{}}`
	rr := postJSON(t, s.Router(), body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	select {
	case <-rec.done:
		t.Error("task dispatched for a non-message event")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestInvalidPayloadRejected(t *testing.T) {
	s := newTestServer(t, newTaskRecorder(), io.Discard)

	rr := postJSON(t, s.Router(), "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, newTaskRecorder(), io.Discard)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}
