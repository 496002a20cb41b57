// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gen

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/optowatch/pkg/types"
)

const summarizeSystem = "You are a helpful research assistant."

const summarizePrompt = `Please summarize the following paper for a researcher:

Title: %s
Authors: %s
Abstract: %s

Instructions:
1. If the abstract is available, summarize the key innovations and results.
2. If the abstract is MISSING, do NOT apologize. Instead, infer the likely research topic and significance based ONLY on the title. State clearly that this is an inference based on the title.
3. Keep it concise (under 200 words).`

// Summarizer produces a short summary of a paper.
type Summarizer struct {
	backend ChatBackend
	w       io.Writer
}

// NewSummarizer builds a Summarizer. A nil backend means every summary
// is simulated.
func NewSummarizer(backend ChatBackend, w io.Writer) *Summarizer {
	return &Summarizer{backend: backend, w: w}
}

// Summarize returns a summary of p. API failures degrade to the
// simulated form rather than failing the paper.
func (s *Summarizer) Summarize(ctx context.Context, p types.Paper) string {
	if s.backend == nil {
		return simulatedSummary(p)
	}

	abstract := p.Abstract
	if abstract == "" {
		abstract = "Not available"
	}
	prompt := fmt.Sprintf(summarizePrompt, p.Title, strings.Join(p.Authors, ", "), abstract)

	out, err := s.backend.Chat(ctx, summarizeSystem, prompt)
	if err != nil {
		fmt.Fprintf(s.w, "warning: summarization failed, using simulated summary: %v\n", err)
		return simulatedSummary(p)
	}
	return out
}

func simulatedSummary(p types.Paper) string {
	abstract := p.Abstract
	if len(abstract) > 50 {
		abstract = abstract[:50]
	}
	return fmt.Sprintf("[Simulated Summary] %s is about %s...", p.Title, abstract)
}
