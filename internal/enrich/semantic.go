// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/optowatch/pkg/types"
)

// semanticAPIBase is the Semantic Scholar graph API root. Declared as a
// var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

const semanticFields = "title,authors,abstract,year,externalIds"

// maxTitleCandidates bounds how many title-search results are checked
// against the query title.
const maxTitleCandidates = 3

// semanticClient queries the Semantic Scholar graph API by DOI or by
// title search.
type semanticClient struct {
	client *http.Client
	apiKey string
	cfg    types.EnrichConfig
}

// lookupDOI fetches a paper by DOI. A 404 is a normal miss; a 429 is
// reported through the miss log and not retried within the cycle.
func (c *semanticClient) lookupDOI(ctx context.Context, doi string, log missLogger) (types.Enrichment, bool) {
	apiURL := fmt.Sprintf("%s/paper/DOI:%s?fields=%s", semanticAPIBase, doi, semanticFields)

	resp, err := c.get(ctx, apiURL)
	if err != nil {
		log.debugf("S2 DOI lookup failed: %v", err)
		return types.Enrichment{}, false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		log.debugf("S2: DOI not found: %s", doi)
		return types.Enrichment{}, false
	case http.StatusTooManyRequests:
		log.warnf("S2: rate limited, skipping DOI lookup")
		return types.Enrichment{}, false
	default:
		log.debugf("S2 DOI lookup returned HTTP %d", resp.StatusCode)
		return types.Enrichment{}, false
	}

	var paper semanticPaper
	if err := json.NewDecoder(resp.Body).Decode(&paper); err != nil {
		log.debugf("S2 DOI response parse failed: %v", err)
		return types.Enrichment{}, false
	}

	return parseSemanticPaper(paper, types.SourceSemanticScholarDOI)
}

// searchTitle searches by cleaned title and accepts the first of the top
// candidates whose title matches the query. Titles under 10 characters
// after tag stripping skip the search entirely.
func (c *semanticClient) searchTitle(ctx context.Context, title string, log missLogger) (types.Enrichment, bool) {
	clean := stripGroupTag(title)
	if len(clean) < 10 {
		return types.Enrichment{}, false
	}
	if len(clean) > 200 {
		clean = clean[:200]
	}

	params := url.Values{
		"query":  {clean},
		"limit":  {fmt.Sprintf("%d", maxTitleCandidates)},
		"fields": {semanticFields},
	}
	apiURL := semanticAPIBase + "/paper/search?" + params.Encode()

	resp, err := c.get(ctx, apiURL)
	if err != nil {
		log.debugf("S2 title search failed: %v", err)
		return types.Enrichment{}, false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		log.warnf("S2: rate limited, skipping title search")
		return types.Enrichment{}, false
	default:
		log.debugf("S2 title search returned HTTP %d", resp.StatusCode)
		return types.Enrichment{}, false
	}

	var sr semanticSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		log.debugf("S2 title search parse failed: %v", err)
		return types.Enrichment{}, false
	}

	for i, paper := range sr.Data {
		if i >= maxTitleCandidates {
			break
		}
		if titlesMatch(clean, paper.Title) {
			return parseSemanticPaper(paper, types.SourceSemanticScholarTitle)
		}
	}
	return types.Enrichment{}, false
}

func (c *semanticClient) get(ctx context.Context, apiURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	return c.client.Do(req)
}

// parseSemanticPaper converts an API paper into an Enrichment. A result
// with neither authors nor abstract counts as a miss even on HTTP 200.
func parseSemanticPaper(paper semanticPaper, source types.EnrichmentSource) (types.Enrichment, bool) {
	var authors []string
	for _, a := range paper.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	if len(authors) == 0 && paper.Abstract == "" {
		return types.Enrichment{}, false
	}

	return types.Enrichment{
		Authors:  authors,
		Abstract: paper.Abstract,
		Enriched: true,
		Source:   source,
	}, true
}

// Semantic Scholar API JSON structures.
type semanticSearchResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID  string              `json:"paperId"`
	Title    string              `json:"title"`
	Abstract string              `json:"abstract"`
	Year     int                 `json:"year"`
	Authors  []semanticAuthor    `json:"authors"`
	External semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
