// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source turns raw feed entries and search hits into canonical
// Paper records and aggregates them across all configured sources.
package source

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/optowatch/pkg/types"
)

// NoAbstract is the placeholder used when no source provides one.
const NoAbstract = "No abstract available."

const (
	// feedAbstractLimit caps abstracts taken from feed summaries.
	feedAbstractLimit = 500

	// textAbstractLimit caps abstracts assembled from raw page text.
	textAbstractLimit = 800

	// minUsefulAbstract is the length a summary or highlight block must
	// exceed to be worth using.
	minUsefulAbstract = 50

	// minTextLine filters navigation fragments out of raw page text.
	minTextLine = 30

	// maxTextLines bounds how many cleaned lines go into a text abstract.
	maxTextLines = 10
)

// fromFeedItem converts one feed entry into a Paper. An entry without a
// title fails that entry only.
func fromFeedItem(item *gofeed.Item) (types.Paper, error) {
	if item.Title == "" {
		return types.Paper{}, fmt.Errorf("feed entry has no title")
	}

	var authors []string
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			authors = append(authors, a.Name)
		}
	}
	if len(authors) == 0 {
		authors = []string{"Unknown"}
	}

	abstract := item.Description
	if abstract == "" {
		abstract = NoAbstract
	}

	return types.Paper{
		Title:         item.Title,
		Authors:       authors,
		Abstract:      truncate(abstract, feedAbstractLimit),
		URL:           item.Link,
		PublishedDate: item.Published,
		FoundDate:     time.Now(),
	}, nil
}

// fromExaResult converts one search hit into a Paper.
func fromExaResult(r exaResult) types.Paper {
	title := r.Title
	if title == "" {
		title = "No Title"
	}

	var authors []string
	for _, a := range strings.Split(r.Author, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}

	return types.Paper{
		Title:         title,
		Authors:       authors,
		Abstract:      extractAbstract(r),
		URL:           r.URL,
		PublishedDate: r.PublishedDate,
		FoundDate:     time.Now(),
	}
}

// extractAbstract picks the best abstract from a search hit, in priority
// order: the provider's AI summary, then joined highlight sentences, then
// raw page text with junk lines dropped, then the placeholder.
func extractAbstract(r exaResult) string {
	if s := strings.TrimSpace(r.Summary); len(s) > minUsefulAbstract {
		return s
	}

	if len(r.Highlights) > 0 {
		var sentences []string
		for _, h := range r.Highlights {
			if h = strings.TrimSpace(h); h != "" {
				sentences = append(sentences, h)
			}
		}
		if combined := strings.Join(sentences, " "); len(combined) > minUsefulAbstract {
			return combined
		}
	}

	if r.Text != "" {
		var clean []string
		for _, line := range strings.Split(r.Text, "\n") {
			line = strings.TrimSpace(line)
			if len(line) <= minTextLine {
				continue
			}
			lower := strings.ToLower(line)
			if strings.Contains(lower, "cookie") || strings.Contains(lower, "javascript") {
				continue
			}
			clean = append(clean, line)
			if len(clean) == maxTextLines {
				break
			}
		}
		if len(clean) > 0 {
			return truncate(strings.Join(clean, " "), textAbstractLimit)
		}
	}

	return NoAbstract
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
