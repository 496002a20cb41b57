// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/pdiddy/optowatch/pkg/types"
)

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// jatsTagPattern matches inline JATS/XML markup in CrossRef abstracts.
var jatsTagPattern = regexp.MustCompile(`<[^>]+>`)

// crossrefClient looks papers up on CrossRef by DOI.
type crossrefClient struct {
	client *http.Client
	cfg    types.EnrichConfig
}

// lookupDOI fetches a work by DOI. A 404 is a normal miss.
func (c *crossrefClient) lookupDOI(ctx context.Context, doi string, log missLogger) (types.Enrichment, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+"/"+doi, nil)
	if err != nil {
		log.debugf("CrossRef request build failed: %v", err)
		return types.Enrichment{}, false
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		log.debugf("CrossRef lookup failed: %v", err)
		return types.Enrichment{}, false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		log.debugf("CrossRef: DOI not found: %s", doi)
		return types.Enrichment{}, false
	case http.StatusTooManyRequests:
		log.warnf("CrossRef: rate limited, skipping DOI lookup")
		return types.Enrichment{}, false
	default:
		log.debugf("CrossRef lookup returned HTTP %d", resp.StatusCode)
		return types.Enrichment{}, false
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		log.debugf("CrossRef response parse failed: %v", err)
		return types.Enrichment{}, false
	}

	var authors []string
	for _, a := range cr.Message.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			authors = append(authors, name)
		}
	}

	abstract := StripJATS(cr.Message.Abstract)

	if len(authors) == 0 && abstract == "" {
		return types.Enrichment{}, false
	}

	return types.Enrichment{
		Authors:  authors,
		Abstract: abstract,
		Enriched: true,
		Source:   types.SourceCrossRefDOI,
	}, true
}

// StripJATS removes inline JATS/XML tags from a CrossRef abstract,
// leaving plain text.
func StripJATS(abstract string) string {
	if abstract == "" {
		return ""
	}
	return strings.TrimSpace(jatsTagPattern.ReplaceAllString(abstract, ""))
}

// CrossRef API JSON structures. The payload nests under "message".
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	Title    []string         `json:"title"`
	Abstract string           `json:"abstract"`
	Author   []crossrefAuthor `json:"author"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}
