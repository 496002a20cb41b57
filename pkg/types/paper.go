// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds a discovered publication. The title is the dedup key: the
// store never keeps two papers whose titles match case-insensitively.
type Paper struct {
	// Title is the paper title as reported by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists author display names in source order. Sources that
	// report no authors normalize to ["Unknown"].
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract, possibly the placeholder
	// "No abstract available.".
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the canonical link; DOI extraction reads it.
	URL string `json:"url" yaml:"url"`

	// Summary is set once by the agent before first persistence.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// PublishedDate is the source-reported publication date, unparsed.
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// FoundDate records when the paper entered the pipeline.
	FoundDate time.Time `json:"found_date" yaml:"found_date"`
}

// Experiment is an internal lab record, created only by explicit command
// and immutable once stored.
type Experiment struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Results     string `json:"results" yaml:"results"`

	// Status is an open string by convention: "ongoing", "completed", "failed".
	Status string `json:"status" yaml:"status"`

	Date time.Time `json:"date" yaml:"date"`
}

// Idea is an LLM-proposed research direction. Ideas accumulate; they are
// never deduplicated or mutated.
type Idea struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	// Reasoning is free text and may span multiple paragraphs.
	Reasoning string `json:"reasoning" yaml:"reasoning"`

	// SourcePapers lists the titles of papers the idea draws on.
	SourcePapers []string `json:"source_papers" yaml:"source_papers"`

	CreatedDate time.Time `json:"created_date" yaml:"created_date"`
}

// EnrichmentSource identifies which provider produced an enrichment.
type EnrichmentSource string

const (
	SourceSemanticScholarDOI   EnrichmentSource = "semantic_scholar_doi"
	SourceSemanticScholarTitle EnrichmentSource = "semantic_scholar_title"
	SourceCrossRefDOI          EnrichmentSource = "crossref_doi"
	SourceExaOriginal          EnrichmentSource = "exa_original"
)

// Enrichment is the transient result of a metadata lookup for one paper.
// It is consumed immediately to update the in-flight Paper and then
// discarded; it is never persisted.
type Enrichment struct {
	Authors  []string
	Abstract string
	Enriched bool
	Source   EnrichmentSource
}
