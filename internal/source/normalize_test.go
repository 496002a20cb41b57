// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestFromFeedItem(t *testing.T) {
	item := &gofeed.Item{
		Title:       "Optical Frequency Combs on Chip",
		Description: "We demonstrate a chip-scale comb source.",
		Link:        "https://example.org/articles/combs",
		Published:   "Mon, 02 Jan 2026 15:04:05 GMT",
		Authors:     []*gofeed.Person{{Name: "A. Comb"}, {Name: "B. Chip"}},
	}

	p, err := fromFeedItem(item)
	if err != nil {
		t.Fatalf("fromFeedItem: %v", err)
	}
	if p.Title != item.Title || p.URL != item.Link {
		t.Errorf("got %+v", p)
	}
	if len(p.Authors) != 2 || p.Authors[1] != "B. Chip" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Abstract != item.Description {
		t.Errorf("Abstract = %q", p.Abstract)
	}
	if p.FoundDate.IsZero() {
		t.Error("FoundDate not set")
	}
}

func TestFromFeedItemDefaults(t *testing.T) {
	p, err := fromFeedItem(&gofeed.Item{Title: "Bare Entry"})
	if err != nil {
		t.Fatalf("fromFeedItem: %v", err)
	}
	if len(p.Authors) != 1 || p.Authors[0] != "Unknown" {
		t.Errorf("Authors = %v, want [Unknown]", p.Authors)
	}
	if p.Abstract != NoAbstract {
		t.Errorf("Abstract = %q, want placeholder", p.Abstract)
	}
}

func TestFromFeedItemNoTitle(t *testing.T) {
	if _, err := fromFeedItem(&gofeed.Item{Link: "https://example.org/x"}); err == nil {
		t.Error("want error for entry without a title")
	}
}

func TestFromFeedItemTruncatesLongSummary(t *testing.T) {
	item := &gofeed.Item{
		Title:       "Long Summary",
		Description: strings.Repeat("x", feedAbstractLimit+100),
	}
	p, err := fromFeedItem(item)
	if err != nil {
		t.Fatalf("fromFeedItem: %v", err)
	}
	if len(p.Abstract) != feedAbstractLimit {
		t.Errorf("len(Abstract) = %d, want %d", len(p.Abstract), feedAbstractLimit)
	}
}

func TestFromExaResult(t *testing.T) {
	r := exaResult{
		Title:         "Tunable Metasurface Lasers",
		URL:           "https://example.org/metasurface",
		Author:        "A. One, B. Two",
		Summary:       "A sufficiently long provider summary of the metasurface laser result.",
		PublishedDate: "2026-01-15",
	}
	p := fromExaResult(r)
	if p.Title != r.Title || p.URL != r.URL || p.PublishedDate != r.PublishedDate {
		t.Errorf("got %+v", p)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "A. One" || p.Authors[1] != "B. Two" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Abstract != r.Summary {
		t.Errorf("Abstract = %q", p.Abstract)
	}
}

func TestFromExaResultUntitled(t *testing.T) {
	p := fromExaResult(exaResult{URL: "https://example.org/untitled"})
	if p.Title != "No Title" {
		t.Errorf("Title = %q, want No Title", p.Title)
	}
}

func TestExtractAbstractPriority(t *testing.T) {
	longSummary := strings.Repeat("summary ", 10)
	longHighlight := strings.Repeat("highlight ", 10)

	tests := []struct {
		name string
		r    exaResult
		want string
	}{
		{
			"summary wins",
			exaResult{Summary: longSummary, Highlights: []string{longHighlight}, Text: "ignored"},
			strings.TrimSpace(longSummary),
		},
		{
			"short summary falls to highlights",
			exaResult{Summary: "too short", Highlights: []string{longHighlight}},
			strings.TrimSpace(longHighlight),
		},
		{
			"highlights joined with spaces",
			exaResult{Highlights: []string{"First highlight sentence here.", "Second highlight sentence here."}},
			"First highlight sentence here. Second highlight sentence here.",
		},
		{
			"text drops short and junk lines",
			exaResult{Text: "nav\nThis website uses cookie consent banners for tracking purposes.\nPlease enable JavaScript to continue reading this article today.\nThe actual abstract sentence which is long enough to keep.\n"},
			"The actual abstract sentence which is long enough to keep.",
		},
		{
			"nothing usable",
			exaResult{Summary: "x", Highlights: []string{"y"}, Text: "short\nlines"},
			NoAbstract,
		},
		{
			"empty result",
			exaResult{},
			NoAbstract,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractAbstract(tt.r); got != tt.want {
				t.Errorf("extractAbstract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractAbstractTextCapped(t *testing.T) {
	line := strings.Repeat("a", 120)
	r := exaResult{Text: strings.Repeat(line+"\n", 20)}
	got := extractAbstract(r)
	if len(got) > textAbstractLimit {
		t.Errorf("len = %d, want <= %d", len(got), textAbstractLimit)
	}
}
