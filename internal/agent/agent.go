// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent orchestrates one monitoring pass: fetch papers, summarize
// and store the new ones, notify the researcher, and propose a research
// idea grounded in recent findings.
package agent

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/optowatch/internal/gen"
	"github.com/pdiddy/optowatch/internal/notify"
	"github.com/pdiddy/optowatch/internal/store"
	"github.com/pdiddy/optowatch/pkg/types"
)

// recentPaperWindow is how many of the newest stored papers feed idea
// generation when a pass found nothing new.
const recentPaperWindow = 5

// Fetcher produces candidate papers for a pass. Satisfied by
// source.Aggregator for both active search and source monitoring.
type Fetcher func(ctx context.Context) []types.Paper

// ContextRetriever returns knowledge base passages relevant to text.
// Satisfied by knowledge.Store.Context.
type ContextRetriever interface {
	Context(ctx context.Context, text string, n int) (string, error)
}

// Agent wires the pipeline stages together.
type Agent struct {
	store      *store.Store
	summarizer *gen.Summarizer
	generator  *gen.IdeaGenerator
	notifier   *notify.Notifier
	knowledge  ContextRetriever // nil disables retrieval
	w          io.Writer

	// ReceiveID is the Feishu chat notifications target; empty falls
	// through to the webhook or mock channel.
	ReceiveID string
}

// New builds an Agent. knowledge may be nil when no index is configured.
func New(st *store.Store, summarizer *gen.Summarizer, generator *gen.IdeaGenerator, notifier *notify.Notifier, knowledge ContextRetriever, w io.Writer) *Agent {
	return &Agent{
		store:      st,
		summarizer: summarizer,
		generator:  generator,
		notifier:   notifier,
		knowledge:  knowledge,
		w:          w,
	}
}

// CycleResult reports what a pass did.
type CycleResult struct {
	Found     int
	NewPapers []types.Paper
	Idea      *types.Idea
}

// RunCycle processes the papers produced by fetch and always attempts
// idea generation afterwards, drawing on stored papers when the pass
// found nothing new.
func (a *Agent) RunCycle(ctx context.Context, fetch Fetcher) (CycleResult, error) {
	result, err := a.processPapers(ctx, fetch)
	if err != nil {
		return result, err
	}

	idea, err := a.generateIdea(ctx, result.NewPapers)
	if err != nil {
		return result, err
	}
	result.Idea = idea
	return result, nil
}

// Monitor processes the papers produced by fetch and generates an idea
// only when the pass found something new.
func (a *Agent) Monitor(ctx context.Context, fetch Fetcher) (CycleResult, error) {
	result, err := a.processPapers(ctx, fetch)
	if err != nil {
		return result, err
	}

	if len(result.NewPapers) > 0 {
		idea, err := a.generateIdea(ctx, result.NewPapers)
		if err != nil {
			return result, err
		}
		result.Idea = idea
	}
	return result, nil
}

// processPapers summarizes, stores, and announces each paper that is not
// already on record. The freshness check is an exact title comparison;
// the store's own dedup additionally folds case when writing.
func (a *Agent) processPapers(ctx context.Context, fetch Fetcher) (CycleResult, error) {
	papers := fetch(ctx)
	result := CycleResult{Found: len(papers)}

	for _, p := range papers {
		exists, err := a.store.HasPaperTitle(p.Title)
		if err != nil {
			return result, fmt.Errorf("checking stored papers: %w", err)
		}
		if exists {
			fmt.Fprintf(a.w, "paper already exists: %s\n", p.Title)
			continue
		}

		fmt.Fprintf(a.w, "summarizing new paper: %s\n", p.Title)
		p.Summary = a.summarizer.Summarize(ctx, p)

		if err := a.store.AddPaper(p); err != nil {
			return result, fmt.Errorf("storing paper %q: %w", p.Title, err)
		}
		result.NewPapers = append(result.NewPapers, p)
		a.notifier.NotifyNewPaper(ctx, p, a.ReceiveID)
	}

	if len(result.NewPapers) == 0 {
		fmt.Fprintf(a.w, "no new papers found during this pass\n")
	}
	return result, nil
}

// generateIdea proposes one research idea from newPapers, or from the
// newest stored papers when the pass found nothing. Returns nil when no
// papers exist at all.
func (a *Agent) generateIdea(ctx context.Context, newPapers []types.Paper) (*types.Idea, error) {
	allPapers, err := a.store.Papers()
	if err != nil {
		return nil, fmt.Errorf("loading stored papers: %w", err)
	}
	if len(newPapers) == 0 && len(allPapers) == 0 {
		fmt.Fprintf(a.w, "not enough papers to generate ideas\n")
		return nil, nil
	}

	experiments, err := a.store.Experiments()
	if err != nil {
		return nil, fmt.Errorf("loading experiments: %w", err)
	}

	knowledgeContext := ""
	if a.knowledge != nil && len(newPapers) > 0 {
		queryText := newPapers[0].Title + " " + newPapers[0].Summary
		fmt.Fprintf(a.w, "retrieving context for: %s\n", newPapers[0].Title)
		knowledgeContext, err = a.knowledge.Context(ctx, queryText, 0)
		if err != nil {
			fmt.Fprintf(a.w, "warning: knowledge retrieval failed: %v\n", err)
			knowledgeContext = ""
		}
	}

	recent := newPapers
	if len(recent) == 0 {
		recent = allPapers
		if len(recent) > recentPaperWindow {
			recent = recent[len(recent)-recentPaperWindow:]
		}
	}

	idea := a.generator.Generate(ctx, recent, experiments, knowledgeContext)
	if err := a.store.AddIdea(idea); err != nil {
		return nil, fmt.Errorf("storing idea: %w", err)
	}
	a.notifier.NotifyNewIdea(ctx, idea, a.ReceiveID)
	fmt.Fprintf(a.w, "generated new idea: %s\n", idea.Title)
	return &idea, nil
}
