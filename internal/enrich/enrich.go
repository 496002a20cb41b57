// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich upgrades paper authors and abstracts through a chain of
// bibliographic lookups: Semantic Scholar by DOI, CrossRef by DOI, then
// Semantic Scholar by title search. The first hit wins; every failure is
// a miss for that step only and never aborts the chain.
package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/optowatch/internal/httputil"
	"github.com/pdiddy/optowatch/pkg/types"
)

// defaultAPIDelay is the polite pause before each provider call.
// Semantic Scholar allows 100 requests per 5 minutes without a key.
const defaultAPIDelay = 500 * time.Millisecond

// Enricher runs the metadata lookup chain for one paper at a time.
// Lookups are sequential and share one throttle to respect provider
// rate limits.
type Enricher struct {
	s2       *semanticClient
	crossref *crossrefClient
	throttle *httputil.Throttle
	log      missLogger
}

// NewEnricher builds an Enricher. Progress and miss diagnostics go to w.
func NewEnricher(client *http.Client, cfg types.EnrichConfig, w io.Writer) *Enricher {
	delay := cfg.APIDelay
	if delay == 0 {
		delay = defaultAPIDelay
	}
	return &Enricher{
		s2:       &semanticClient{client: client, apiKey: cfg.SemanticScholarAPIKey, cfg: cfg},
		crossref: &crossrefClient{client: client, cfg: cfg},
		throttle: httputil.NewThrottle(delay),
		log:      missLogger{w: w},
	}
}

// SetVerbose enables per-step miss diagnostics.
func (e *Enricher) SetVerbose(v bool) { e.log.Verbose = v }

// lookup is one step of the fallback chain: a provider query that either
// produces an enrichment or reports a miss.
type lookup struct {
	name string
	run  func(ctx context.Context) (types.Enrichment, bool)
}

// Enrich tries the provider chain in order and returns the first hit.
// When every step misses, it returns the caller's current authors and
// abstract with Enriched=false so no information is ever lost.
func (e *Enricher) Enrich(ctx context.Context, title, url string, curAuthors []string, curAbstract string) types.Enrichment {
	doi := ExtractDOI(url)

	var steps []lookup
	if doi != "" {
		steps = append(steps,
			lookup{"semantic_scholar_doi", func(ctx context.Context) (types.Enrichment, bool) {
				return e.s2.lookupDOI(ctx, doi, e.log)
			}},
			lookup{"crossref_doi", func(ctx context.Context) (types.Enrichment, bool) {
				return e.crossref.lookupDOI(ctx, doi, e.log)
			}},
		)
	}
	steps = append(steps, lookup{"semantic_scholar_title", func(ctx context.Context) (types.Enrichment, bool) {
		return e.s2.searchTitle(ctx, title, e.log)
	}})

	for _, step := range steps {
		if err := e.throttle.Wait(ctx); err != nil {
			break
		}
		if result, ok := step.run(ctx); ok {
			return result
		}
	}

	e.log.infof("could not enrich metadata for: %s", truncate(title, 60))
	return types.Enrichment{
		Authors:  curAuthors,
		Abstract: curAbstract,
		Enriched: false,
		Source:   types.SourceExaOriginal,
	}
}

// missLogger writes enrichment diagnostics. Misses are normal control
// flow, so everything lands on one writer at low ceremony; Verbose gates
// the per-step debug lines.
type missLogger struct {
	w       io.Writer
	Verbose bool
}

func (l missLogger) debugf(format string, args ...any) {
	if l.Verbose && l.w != nil {
		fmt.Fprintf(l.w, "  "+format+"\n", args...)
	}
}

func (l missLogger) warnf(format string, args ...any) {
	if l.w != nil {
		fmt.Fprintf(l.w, "  warning: "+format+"\n", args...)
	}
}

func (l missLogger) infof(format string, args ...any) {
	if l.w != nil {
		fmt.Fprintf(l.w, "  "+format+"\n", args...)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
