// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify delivers agent findings to Feishu (Lark). Two channels
// are supported: the app API, which targets a specific chat, and a group
// webhook used as fallback. Without any credentials messages are logged
// locally so nothing is silently lost.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/optowatch/pkg/types"
)

// Feishu endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	feishuTokenURL   = "https://open.feishu.cn/open-apis/auth/v3/tenant_access_token/internal"
	feishuMessageURL = "https://open.feishu.cn/open-apis/im/v1/messages"
)

// tokenSafetyMargin is subtracted from the token lifetime so a token is
// never used right at its expiry.
const tokenSafetyMargin = 60 * time.Second

// Notifier sends text messages to Feishu.
type Notifier struct {
	client *http.Client
	cfg    types.NotifyConfig
	w      io.Writer

	now func() time.Time

	token       string
	tokenExpiry time.Time
}

// NewNotifier builds a Notifier from cfg.
func NewNotifier(client *http.Client, cfg types.NotifyConfig, w io.Writer) *Notifier {
	return &Notifier{
		client: client,
		cfg:    cfg,
		w:      w,
		now:    time.Now,
	}
}

// NotifyNewPaper announces a freshly stored paper.
func (n *Notifier) NotifyNewPaper(ctx context.Context, p types.Paper, receiveID string) {
	title := fmt.Sprintf("📄 New Paper Found: %s", p.Title)
	content := fmt.Sprintf("Authors: %s\nLink: %s\n\nSummary: %s",
		strings.Join(p.Authors, ", "), p.URL, p.Summary)
	n.SendText(ctx, title+"\n\n"+content, receiveID)
}

// NotifyNewIdea announces a generated research idea.
func (n *Notifier) NotifyNewIdea(ctx context.Context, idea types.Idea, receiveID string) {
	title := fmt.Sprintf("💡 New Idea Generated: %s", idea.Title)
	content := fmt.Sprintf("%s\n\nReasoning:\n%s", idea.Description, idea.Reasoning)
	n.SendText(ctx, title+"\n\n"+content, receiveID)
}

// SendText delivers text via the app API when a receive ID and app
// credentials are present, falling back to the webhook, then to a local
// log line. Delivery failures are logged, never returned: a missed
// notification must not abort a monitoring pass.
func (n *Notifier) SendText(ctx context.Context, text, receiveID string) {
	if receiveID != "" && n.cfg.AppID != "" && n.cfg.AppSecret != "" {
		if token := n.tenantAccessToken(ctx); token != "" {
			if err := n.sendViaAPI(ctx, token, text, receiveID); err != nil {
				fmt.Fprintf(n.w, "warning: Feishu API send failed: %v\n", err)
			} else {
				fmt.Fprintf(n.w, "message sent via app API\n")
			}
			return
		}
	}

	if n.cfg.WebhookURL != "" {
		if err := n.sendViaWebhook(ctx, text); err != nil {
			fmt.Fprintf(n.w, "warning: Feishu webhook send failed: %v\n", err)
		} else {
			fmt.Fprintf(n.w, "message sent via webhook (fallback)\n")
		}
		return
	}

	fmt.Fprintf(n.w, "[Feishu mock] %s\n", text)
}

// tenantAccessToken returns a cached app token, refreshing it when it is
// within the safety margin of expiry. An empty string means the token
// could not be obtained.
func (n *Notifier) tenantAccessToken(ctx context.Context) string {
	if n.token != "" && n.now().Before(n.tokenExpiry) {
		return n.token
	}

	body, _ := json.Marshal(map[string]string{
		"app_id":     n.cfg.AppID,
		"app_secret": n.cfg.AppSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, feishuTokenURL, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(n.w, "warning: building token request: %v\n", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := n.client.Do(req)
	if err != nil {
		fmt.Fprintf(n.w, "warning: fetching tenant token: %v\n", err)
		return ""
	}
	defer resp.Body.Close()

	var tr struct {
		Code              int    `json:"code"`
		Msg               string `json:"msg"`
		TenantAccessToken string `json:"tenant_access_token"`
		Expire            int    `json:"expire"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		fmt.Fprintf(n.w, "warning: parsing token response: %v\n", err)
		return ""
	}
	if tr.Code != 0 {
		fmt.Fprintf(n.w, "warning: tenant token request failed: %s\n", tr.Msg)
		return ""
	}

	expire := tr.Expire
	if expire == 0 {
		expire = 7200
	}
	n.token = tr.TenantAccessToken
	n.tokenExpiry = n.now().Add(time.Duration(expire)*time.Second - tokenSafetyMargin)
	return n.token
}

func (n *Notifier) sendViaAPI(ctx context.Context, token, text, receiveID string) error {
	// The message content is itself a JSON string inside the envelope.
	content, _ := json.Marshal(map[string]string{"text": text})
	body, _ := json.Marshal(map[string]string{
		"receive_id": receiveID,
		"msg_type":   "text",
		"content":    string(content),
	})

	url := feishuMessageURL + "?receive_id_type=chat_id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building message request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("message API returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (n *Notifier) sendViaWebhook(ctx context.Context, text string) error {
	body, _ := json.Marshal(map[string]any{
		"msg_type": "text",
		"content":  map[string]string{"text": text},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	var wr struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return fmt.Errorf("parsing webhook response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || wr.Code != 0 {
		return fmt.Errorf("webhook returned status=%d code=%d msg=%q", resp.StatusCode, wr.Code, wr.Msg)
	}
	return nil
}
