// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gen produces paper summaries and research ideas with an LLM.
// Without credentials every operation degrades to a deterministic
// simulated result so the rest of the pipeline stays exercisable.
package gen

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/optowatch/pkg/types"
)

// ChatBackend abstracts the chat completion API so tests can supply a
// mock. Strategy pattern: one implementation per provider.
type ChatBackend interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// openAIBackend talks to an OpenAI-compatible chat completion endpoint.
type openAIBackend struct {
	client *openai.Client
	model  string
}

// NewBackend builds a ChatBackend from cfg. It returns nil when no API
// key is configured; callers treat a nil backend as "simulate".
func NewBackend(cfg types.AIConfig) ChatBackend {
	if cfg.APIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openAIBackend{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

func (b *openAIBackend) Chat(ctx context.Context, system, user string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
