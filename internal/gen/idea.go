// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gen

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/optowatch/pkg/types"
)

const ideaSystem = "You are a creative research assistant specializing in optoelectronics and photovoltaics."

const ideaPrompt = `You are a research idea generator for an optoelectronics lab.

Based on the following recent papers, internal experiments, and knowledge base notes, propose ONE novel research idea.

## Recent Papers:
%s

## Internal Experiments:
%s
%s
## Instructions:
Use Chain-of-Thought reasoning:
1. Identify key trends and gaps from the papers.
2. Find connections with internal experiments and knowledge base notes.
3. Propose a specific, actionable experiment.
4. Assess feasibility.

## Output Format (strictly follow):
TITLE: [one-line title]
DESCRIPTION: [2-3 sentence description]
REASONING: [your step-by-step reasoning]
SOURCE_PAPERS: [comma-separated list of paper titles used]`

// IdeaGenerator proposes research ideas from recent papers, internal
// experiments, and knowledge base context.
type IdeaGenerator struct {
	backend ChatBackend
	w       io.Writer
}

// NewIdeaGenerator builds an IdeaGenerator. A nil backend means every
// idea is simulated.
func NewIdeaGenerator(backend ChatBackend, w io.Writer) *IdeaGenerator {
	return &IdeaGenerator{backend: backend, w: w}
}

// Generate proposes one research idea. knowledgeContext may be empty;
// API failures degrade to the simulated form.
func (g *IdeaGenerator) Generate(ctx context.Context, papers []types.Paper, experiments []types.Experiment, knowledgeContext string) types.Idea {
	if g.backend == nil {
		return simulatedIdea(papers, experiments)
	}

	var papersText strings.Builder
	for _, p := range papers {
		summary := p.Summary
		if summary == "" {
			summary = truncate(p.Abstract, 200)
		}
		fmt.Fprintf(&papersText, "- %s: %s\n", p.Title, summary)
	}

	experimentsText := "No internal experiments recorded yet."
	if len(experiments) > 0 {
		var sb strings.Builder
		for _, e := range experiments {
			fmt.Fprintf(&sb, "- %s: %s (Status: %s, Results: %s)\n", e.Title, e.Description, e.Status, e.Results)
		}
		experimentsText = strings.TrimRight(sb.String(), "\n")
	}

	contextText := ""
	if knowledgeContext != "" {
		contextText = fmt.Sprintf("\n## Internal Knowledge Base (Relevant Notes):\n%s\n", knowledgeContext)
	}

	prompt := fmt.Sprintf(ideaPrompt,
		strings.TrimRight(papersText.String(), "\n"), experimentsText, contextText)

	content, err := g.backend.Chat(ctx, ideaSystem, prompt)
	if err != nil {
		fmt.Fprintf(g.w, "warning: idea generation failed, using simulated idea: %v\n", err)
		return simulatedIdea(papers, experiments)
	}
	return parseIdea(content, papers)
}

// parseIdea extracts the structured fields from the model's response.
// A malformed response falls back to the full content as reasoning.
func parseIdea(content string, papers []types.Paper) types.Idea {
	idea := types.Idea{
		Title:       "AI-Generated Research Idea",
		Reasoning:   content,
		CreatedDate: time.Now(),
	}
	for _, p := range papers {
		if len(idea.SourcePapers) == 3 {
			break
		}
		idea.SourcePapers = append(idea.SourcePapers, p.Title)
	}

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			idea.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "DESCRIPTION:"):
			idea.Description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
		case strings.HasPrefix(line, "SOURCE_PAPERS:"):
			var sources []string
			for _, s := range strings.Split(strings.TrimPrefix(line, "SOURCE_PAPERS:"), ",") {
				if s = strings.TrimSpace(s); s != "" {
					sources = append(sources, s)
				}
			}
			if len(sources) > 0 {
				idea.SourcePapers = sources
			}
		}
	}

	if _, after, found := strings.Cut(content, "REASONING:"); found {
		reasoning, _, _ := strings.Cut(after, "SOURCE_PAPERS:")
		idea.Reasoning = strings.TrimSpace(reasoning)
	}

	if idea.Description == "" {
		idea.Description = idea.Title
	}
	return idea
}

func simulatedIdea(papers []types.Paper, experiments []types.Experiment) types.Idea {
	subject := "New Material"
	if len(papers) > 0 {
		subject = papers[0].Title
	}
	var sources []string
	for _, p := range papers {
		if len(sources) == 2 {
			break
		}
		sources = append(sources, p.Title)
	}
	return types.Idea{
		Title:        fmt.Sprintf("Hybrid Approach using %s", subject),
		Description:  "Simulated idea - connect a real LLM to enable AI-powered reasoning.",
		Reasoning:    fmt.Sprintf("[Simulated] Analyzed %d papers and %d experiments.", len(papers), len(experiments)),
		SourcePapers: sources,
		CreatedDate:  time.Now(),
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
