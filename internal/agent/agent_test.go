// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/pdiddy/optowatch/internal/gen"
	"github.com/pdiddy/optowatch/internal/notify"
	"github.com/pdiddy/optowatch/internal/store"
	"github.com/pdiddy/optowatch/pkg/types"
)

// The gen package simulates without a backend and notify logs without
// credentials, so an agent built this way runs fully offline.
func newTestAgent(t *testing.T, w io.Writer) (*Agent, *store.Store) {
	t.Helper()
	st, err := store.New(types.StoreConfig{DataDir: t.TempDir()}, io.Discard)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	a := New(st,
		gen.NewSummarizer(nil, io.Discard),
		gen.NewIdeaGenerator(nil, io.Discard),
		notify.NewNotifier(http.DefaultClient, types.NotifyConfig{}, w),
		nil, w)
	return a, st
}

func fixedFetcher(papers ...types.Paper) Fetcher {
	return func(context.Context) []types.Paper { return papers }
}

func TestRunCycleStoresSummarizesNotifies(t *testing.T) {
	var buf bytes.Buffer
	a, st := newTestAgent(t, &buf)

	paper := types.Paper{
		Title:    "Tandem Perovskite Cells",
		Authors:  []string{"A. One"},
		Abstract: "Record efficiency tandem cells.",
		URL:      "https://example.org/tandem",
	}
	result, err := a.RunCycle(context.Background(), fixedFetcher(paper))
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if result.Found != 1 || len(result.NewPapers) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if !strings.HasPrefix(result.NewPapers[0].Summary, "[Simulated Summary]") {
		t.Errorf("Summary = %q, want simulated summary attached", result.NewPapers[0].Summary)
	}

	stored, err := st.Papers()
	if err != nil {
		t.Fatalf("Papers: %v", err)
	}
	if len(stored) != 1 || stored[0].Summary == "" {
		t.Errorf("stored = %+v, want summarized paper persisted", stored)
	}

	if !strings.Contains(buf.String(), "📄 New Paper Found: Tandem Perovskite Cells") {
		t.Error("paper notification not sent")
	}

	if result.Idea == nil {
		t.Fatal("Idea = nil, want idea generated on every cycle")
	}
	ideas, err := st.Ideas()
	if err != nil {
		t.Fatalf("Ideas: %v", err)
	}
	if len(ideas) != 1 {
		t.Errorf("len(ideas) = %d, want persisted idea", len(ideas))
	}
	if !strings.Contains(buf.String(), "💡 New Idea Generated:") {
		t.Error("idea notification not sent")
	}
}

func TestRunCycleIdempotent(t *testing.T) {
	a, st := newTestAgent(t, io.Discard)
	paper := types.Paper{Title: "Repeated Paper", Abstract: "abc"}

	if _, err := a.RunCycle(context.Background(), fixedFetcher(paper)); err != nil {
		t.Fatalf("first RunCycle: %v", err)
	}
	result, err := a.RunCycle(context.Background(), fixedFetcher(paper))
	if err != nil {
		t.Fatalf("second RunCycle: %v", err)
	}

	if len(result.NewPapers) != 0 {
		t.Errorf("NewPapers = %v, want none on repeat", result.NewPapers)
	}
	stored, _ := st.Papers()
	if len(stored) != 1 {
		t.Errorf("len(stored) = %d, want 1", len(stored))
	}
}

func TestRunCycleIdeaFromStoredPapersWhenNothingNew(t *testing.T) {
	a, st := newTestAgent(t, io.Discard)

	// Seed seven stored papers; only the newest five feed generation.
	titles := []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7"}
	for _, title := range titles {
		if err := st.AddPaper(types.Paper{Title: title}); err != nil {
			t.Fatalf("AddPaper: %v", err)
		}
	}

	result, err := a.RunCycle(context.Background(), fixedFetcher())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if result.Idea == nil {
		t.Fatal("Idea = nil, want idea from stored papers")
	}
	// The simulated idea names the first paper it was given.
	if result.Idea.Title != "Hybrid Approach using P3" {
		t.Errorf("Idea.Title = %q, want newest five papers used", result.Idea.Title)
	}
}

func TestRunCycleNoPapersAtAll(t *testing.T) {
	a, st := newTestAgent(t, io.Discard)

	result, err := a.RunCycle(context.Background(), fixedFetcher())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if result.Idea != nil {
		t.Errorf("Idea = %+v, want none with an empty store", result.Idea)
	}
	ideas, _ := st.Ideas()
	if len(ideas) != 0 {
		t.Errorf("len(ideas) = %d, want 0", len(ideas))
	}
}

func TestMonitorSkipsIdeaWithoutNewPapers(t *testing.T) {
	a, st := newTestAgent(t, io.Discard)
	if err := st.AddPaper(types.Paper{Title: "Existing"}); err != nil {
		t.Fatalf("AddPaper: %v", err)
	}

	result, err := a.Monitor(context.Background(), fixedFetcher(types.Paper{Title: "Existing"}))
	if err != nil {
		t.Fatalf("Monitor: %v", err)
	}
	if result.Idea != nil {
		t.Errorf("Idea = %+v, want none when monitoring found nothing new", result.Idea)
	}
}

func TestMonitorGeneratesIdeaForNewPapers(t *testing.T) {
	a, _ := newTestAgent(t, io.Discard)

	result, err := a.Monitor(context.Background(), fixedFetcher(types.Paper{Title: "Fresh Paper", Abstract: "x"}))
	if err != nil {
		t.Fatalf("Monitor: %v", err)
	}
	if result.Idea == nil {
		t.Fatal("Idea = nil, want idea when monitoring found new papers")
	}
	if result.Idea.Title != "Hybrid Approach using Fresh Paper" {
		t.Errorf("Idea.Title = %q", result.Idea.Title)
	}
}

type fakeRetriever struct {
	lastQuery string
	out       string
}

func (f *fakeRetriever) Context(_ context.Context, text string, _ int) (string, error) {
	f.lastQuery = text
	return f.out, nil
}

func TestRunCycleQueriesKnowledgeForNewestPaper(t *testing.T) {
	a, _ := newTestAgent(t, io.Discard)
	retriever := &fakeRetriever{out: "[Source: notes.md]\nrelevant passage"}
	a.knowledge = retriever

	paper := types.Paper{Title: "Fresh Paper", Abstract: "A fresh abstract."}
	if _, err := a.RunCycle(context.Background(), fixedFetcher(paper)); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if !strings.HasPrefix(retriever.lastQuery, "Fresh Paper ") {
		t.Errorf("knowledge query = %q, want newest paper title and summary", retriever.lastQuery)
	}
}
