// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/optowatch/internal/httputil"
	"github.com/pdiddy/optowatch/pkg/types"
)

// exaAPIBase is the Exa search endpoint. Declared as a var so tests can
// substitute an httptest server.
var exaAPIBase = "https://api.exa.ai/search"

// exaDateFormat is the timestamp format Exa expects for date filters.
const exaDateFormat = "2006-01-02T15:04:05.000Z"

// highlightSentences is how many highlight sentences Exa returns per hit.
const highlightSentences = 5

// exaClient performs active searches against the Exa API.
type exaClient struct {
	client *http.Client
	apiKey string
	cfg    types.SearchConfig
}

// search posts a query and returns raw hits. The date window bounds
// results to papers published within cfg.DaysBack; academicOnly applies
// the configured domain allowlist.
func (c *exaClient) search(ctx context.Context, query string, limit int, academicOnly bool) ([]exaResult, error) {
	daysBack := c.cfg.DaysBack
	if daysBack <= 0 {
		daysBack = 30
	}
	startDate := time.Now().AddDate(0, 0, -daysBack).UTC().Format(exaDateFormat)

	payload := exaRequest{
		Query:              query,
		NumResults:         limit,
		UseAutoprompt:      true,
		StartPublishedDate: startDate,
		Contents: exaContents{
			Text:    true,
			Summary: true,
			Highlights: exaHighlightSpec{
				NumSentences: highlightSentences,
				Query:        query,
			},
		},
	}
	if academicOnly {
		payload.IncludeDomains = c.cfg.AcademicDomains
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, exaAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Exa search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Exa API returned HTTP %d", resp.StatusCode)
	}

	var er exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing Exa response: %w", err)
	}
	return er.Results, nil
}

// Exa API JSON structures.
type exaRequest struct {
	Query              string      `json:"query"`
	NumResults         int         `json:"numResults"`
	UseAutoprompt      bool        `json:"useAutoprompt"`
	StartPublishedDate string      `json:"startPublishedDate,omitempty"`
	IncludeDomains     []string    `json:"includeDomains,omitempty"`
	Contents           exaContents `json:"contents"`
}

type exaContents struct {
	Text       bool             `json:"text"`
	Highlights exaHighlightSpec `json:"highlights"`
	Summary    bool             `json:"summary"`
}

type exaHighlightSpec struct {
	NumSentences int    `json:"numSentences"`
	Query        string `json:"query"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Author        string   `json:"author"`
	Text          string   `json:"text"`
	Summary       string   `json:"summary"`
	Highlights    []string `json:"highlights"`
	PublishedDate string   `json:"publishedDate"`
}
