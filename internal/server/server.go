// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the Feishu event webhook. Incoming search
// commands are acknowledged immediately and executed by a background
// worker so Feishu's delivery timeout is never hit.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/optowatch/internal/notify"
)

// queueSize bounds pending search tasks. Commands past the bound are
// rejected rather than queued unboundedly.
const queueSize = 16

var mentionPattern = regexp.MustCompile(`@\S+\s*`)

// SearchTask is one queued command from a chat message.
type SearchTask struct {
	Query  string
	ChatID string
}

// Runner executes a queued search task. Wired to the agent's RunCycle
// by the serve command.
type Runner func(ctx context.Context, task SearchTask)

// Server handles Feishu event callbacks.
type Server struct {
	notifier     *notify.Notifier
	runner       Runner
	defaultQuery string
	w            io.Writer

	tasks chan SearchTask
}

// New builds a Server. Call Start to launch the worker before serving.
func New(notifier *notify.Notifier, runner Runner, defaultQuery string, w io.Writer) *Server {
	return &Server{
		notifier:     notifier,
		runner:       runner,
		defaultQuery: defaultQuery,
		w:            w,
		tasks:        make(chan SearchTask, queueSize),
	}
}

// Start launches the single background worker. It exits when ctx is
// cancelled; queued tasks past that point are dropped.
func (s *Server) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case task := <-s.tasks:
				fmt.Fprintf(s.w, "running search for: %s (chat %s)\n", task.Query, task.ChatID)
				s.runner(ctx, task)
			}
		}
	}()
}

// Router returns the HTTP routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "queued": len(s.tasks)})
	})
	router.POST("/feishu_webhook", s.handleWebhook)
	return router
}

// webhookEvent is the subset of the Feishu event envelope the server
// reads.
type webhookEvent struct {
	Challenge string `json:"challenge"`
	Header    struct {
		EventType string `json:"event_type"`
	} `json:"header"`
	Event struct {
		Message struct {
			Content     string `json:"content"`
			MessageType string `json:"message_type"`
			ChatID      string `json:"chat_id"`
		} `json:"message"`
	} `json:"event"`
}

func (s *Server) handleWebhook(c *gin.Context) {
	var ev webhookEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	// URL verification handshake.
	if ev.Challenge != "" {
		c.JSON(http.StatusOK, gin.H{"challenge": ev.Challenge})
		return
	}

	if ev.Header.EventType == "im.message.receive_v1" {
		s.handleMessage(c.Request.Context(), ev)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMessage(ctx context.Context, ev webhookEvent) {
	text := messageText(ev.Event.Message.Content)
	text = strings.TrimSpace(mentionPattern.ReplaceAllString(text, ""))
	chatID := ev.Event.Message.ChatID

	fmt.Fprintf(s.w, "message from chat %s: %q\n", chatID, text)

	query, ok := extractQuery(text, s.defaultQuery)
	if !ok {
		return
	}

	s.notifier.SendText(ctx,
		fmt.Sprintf("🔍收到指令：'%s'\n正在搜索并生成Idea，请稍候...", query), chatID)

	select {
	case s.tasks <- SearchTask{Query: query, ChatID: chatID}:
	default:
		fmt.Fprintf(s.w, "warning: task queue full, dropping command %q\n", query)
		s.notifier.SendText(ctx, "⚠️任务队列已满，请稍后再试。", chatID)
	}
}

// messageText unwraps the text field from a Feishu message content
// payload, falling back to the raw content when it is not JSON.
func messageText(content string) string {
	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err == nil && parsed.Text != "" {
		return parsed.Text
	}
	return content
}

// extractQuery recognizes "search <query>" and "research <query>"
// commands. A bare command word falls back to the default query.
func extractQuery(text, defaultQuery string) (string, bool) {
	lower := strings.ToLower(text)
	if !strings.HasPrefix(lower, "search") && !strings.HasPrefix(lower, "research") {
		return "", false
	}
	if _, rest, found := strings.Cut(text, " "); found && strings.TrimSpace(rest) != "" {
		return strings.TrimSpace(rest), true
	}
	return defaultQuery, true
}
