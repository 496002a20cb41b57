// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/optowatch/pkg/types"
)

// feedEntryLimit is how many entries are taken from each feed. Feeds are
// assumed reverse-chronological; no per-entry date filtering is done, the
// head of the feed is the freshness proxy.
const feedEntryLimit = 3

// groupResultLimit bounds the per-group Exa search.
const groupResultLimit = 3

// Enricher upgrades a paper's authors and abstract via external lookups.
// Satisfied by enrich.Enricher.
type Enricher interface {
	Enrich(ctx context.Context, title, url string, curAuthors []string, curAbstract string) types.Enrichment
}

// Aggregator fetches papers from every configured source: journal RSS
// feeds, tracked research groups, and active Exa searches.
type Aggregator struct {
	cfg      types.SearchConfig
	exa      *exaClient // nil without an API key
	parser   *gofeed.Parser
	enricher Enricher
	w        io.Writer
}

// NewAggregator builds an Aggregator. Without an Exa key in cfg, active
// searches return simulated results and the group path is skipped.
func NewAggregator(client *http.Client, cfg types.SearchConfig, enricher Enricher, w io.Writer) *Aggregator {
	a := &Aggregator{
		cfg:      cfg,
		parser:   gofeed.NewParser(),
		enricher: enricher,
		w:        w,
	}
	a.parser.UserAgent = cfg.UserAgent
	if cfg.ExaAPIKey != "" {
		a.exa = &exaClient{client: client, apiKey: cfg.ExaAPIKey, cfg: cfg}
	}
	return a
}

// MonitorSources checks every tracked source and returns the papers found
// this pass. A failure in one source never aborts the others.
func (a *Aggregator) MonitorSources(ctx context.Context) []types.Paper {
	var papers []types.Paper

	if len(a.cfg.RSSFeeds) > 0 {
		fmt.Fprintf(a.w, "checking %d journal RSS feeds\n", len(a.cfg.RSSFeeds))
		papers = append(papers, a.checkFeeds(ctx)...)
	}

	// Group tracking needs Exa; without a key it is skipped, not an error.
	if a.exa != nil && len(a.cfg.ResearchGroups) > 0 {
		fmt.Fprintf(a.w, "checking %d research groups\n", len(a.cfg.ResearchGroups))
		for _, group := range a.cfg.ResearchGroups {
			fmt.Fprintf(a.w, "  tracking group: %s\n", group.Name)
			groupPapers := a.searchExa(ctx, group.Query, groupResultLimit, true)
			for i := range groupPapers {
				groupPapers[i].Title = fmt.Sprintf("[%s] %s", group.Name, groupPapers[i].Title)
			}
			papers = append(papers, groupPapers...)
		}
	}

	return papers
}

// SearchActive searches for papers matching query. With an Exa key the
// real API is used and results pass through enrichment; without one,
// deterministic placeholders keep the pipeline exercisable.
func (a *Aggregator) SearchActive(ctx context.Context, query string, limit int) []types.Paper {
	if a.exa == nil {
		return a.searchSimulated(query, limit)
	}
	return a.searchExa(ctx, query, limit, true)
}

// checkFeeds parses each configured feed independently and normalizes the
// first entries of each.
func (a *Aggregator) checkFeeds(ctx context.Context) []types.Paper {
	var papers []types.Paper
	for _, feedURL := range a.cfg.RSSFeeds {
		feed, err := a.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			fmt.Fprintf(a.w, "  warning: failed to parse RSS %s: %v\n", feedURL, err)
			continue
		}
		fmt.Fprintf(a.w, "  parsed RSS %s: %d entries\n", feedURL, len(feed.Items))

		for i, item := range feed.Items {
			if i == feedEntryLimit {
				break
			}
			p, err := fromFeedItem(item)
			if err != nil {
				fmt.Fprintf(a.w, "  warning: skipping entry in %s: %v\n", feedURL, err)
				continue
			}
			papers = append(papers, p)
		}
	}
	return papers
}

// searchExa runs one Exa search, normalizes the hits, and enriches each
// paper's metadata. Errors degrade to an empty result.
func (a *Aggregator) searchExa(ctx context.Context, query string, limit int, academicOnly bool) []types.Paper {
	fmt.Fprintf(a.w, "searching Exa for: %s\n", query)

	results, err := a.exa.search(ctx, query, limit, academicOnly)
	if err != nil {
		fmt.Fprintf(a.w, "  warning: Exa search failed: %v\n", err)
		return nil
	}

	papers := make([]types.Paper, 0, len(results))
	for _, r := range results {
		papers = append(papers, fromExaResult(r))
	}

	if len(papers) > 0 && a.enricher != nil {
		fmt.Fprintf(a.w, "  enriching metadata for %d papers\n", len(papers))
		a.enrichPapers(ctx, papers)
	}
	return papers
}

// enrichPapers updates papers in place with enrichment results. Authors
// are taken whenever the provider has them; abstracts only when the
// provider's version is substantial, since the search summary is already
// clean.
func (a *Aggregator) enrichPapers(ctx context.Context, papers []types.Paper) {
	for i := range papers {
		p := &papers[i]
		result := a.enricher.Enrich(ctx, p.Title, p.URL, p.Authors, p.Abstract)
		if !result.Enriched {
			continue
		}
		if len(result.Authors) > 0 {
			p.Authors = result.Authors
			fmt.Fprintf(a.w, "  authors enriched [%s]: %s\n", result.Source, firstAuthors(result.Authors))
		}
		if len(result.Abstract) > minUsefulAbstract {
			p.Abstract = result.Abstract
		}
	}
}

// searchSimulated returns limit placeholder papers so the pipeline can
// run end to end without credentials.
func (a *Aggregator) searchSimulated(query string, limit int) []types.Paper {
	fmt.Fprintf(a.w, "[simulated] searching for: %s\n", query)
	papers := make([]types.Paper, 0, limit)
	for i := 0; i < limit; i++ {
		papers = append(papers, types.Paper{
			Title:         fmt.Sprintf("Simulated Result for %s", query),
			Authors:       []string{"AI Researcher"},
			Abstract:      "This is a placeholder result because no Exa API key was configured.",
			URL:           "http://example.com/simulated",
			PublishedDate: "2024-01-01",
			FoundDate:     time.Now(),
		})
	}
	return papers
}

func firstAuthors(authors []string) string {
	if len(authors) > 3 {
		authors = authors[:3]
	}
	out := ""
	for i, a := range authors {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
