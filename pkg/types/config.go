package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "optowatch/0.1 (mailto:optowatch@example.com)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResearchGroup is a tracked research group: a display name plus the
// search query that finds its output.
type ResearchGroup struct {
	Name  string `json:"name" yaml:"name"`
	Query string `json:"query" yaml:"query"`
}

// SearchConfig holds settings for active search and source monitoring.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// ExaAPIKey enables the Exa search path. Without it, active search
	// returns simulated placeholder results and the group path is skipped.
	ExaAPIKey string `json:"exa_api_key,omitempty" yaml:"exa_api_key,omitempty"`

	// DefaultQuery is used when a search command gets no --query.
	DefaultQuery string `json:"default_query" yaml:"default_query"`

	// DefaultLimit is the result count when no --limit is given (default 5).
	DefaultLimit int `json:"default_limit" yaml:"default_limit"`

	// DaysBack bounds active search to papers published within the last
	// N days (default 30).
	DaysBack int `json:"days_back" yaml:"days_back"`

	// AcademicDomains is an optional domain allowlist for active search.
	AcademicDomains []string `json:"academic_domains,omitempty" yaml:"academic_domains,omitempty"`

	// RSSFeeds lists journal feed URLs checked on every monitoring pass.
	RSSFeeds []string `json:"rss_feeds,omitempty" yaml:"rss_feeds,omitempty"`

	// ResearchGroups lists tracked groups queried through Exa.
	ResearchGroups []ResearchGroup `json:"research_groups,omitempty" yaml:"research_groups,omitempty"`
}

// EnrichConfig holds settings for the metadata enrichment chain.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`

	// SemanticScholarAPIKey is optional; without it the free-tier quota
	// (100 requests per 5 minutes) applies.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// APIDelay is the minimum pause before each outbound provider call
	// (default 500ms). Cooperative self-throttling, not a token bucket.
	APIDelay time.Duration `json:"api_delay" yaml:"api_delay"`
}

// StoreConfig holds settings for the JSON collection store.
type StoreConfig struct {
	// DataDir contains papers.json, experiments.json, and ideas.json.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// KnowledgeConfig holds settings for the local context index.
type KnowledgeConfig struct {
	// KnowledgeDir is scanned for .md, .txt, and .pdf files to index.
	KnowledgeDir string `json:"knowledge_dir" yaml:"knowledge_dir"`

	// IndexPath is the SQLite database file for the chunk index.
	IndexPath string `json:"index_path" yaml:"index_path"`

	// MaxResults is the default number of context chunks returned (default 3).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// AIConfig holds settings for the LLM-backed summarizer and idea generator.
// Without an API key both degrade to deterministic simulated output.
type AIConfig struct {
	// APIKey authenticates against an OpenAI-compatible API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint for compatible providers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the chat model identifier (default "gpt-4o").
	Model string `json:"model" yaml:"model"`
}

// NotifyConfig holds Feishu delivery settings. Directed app-API delivery is
// tried first when an app identity and a receive id are present, then the
// webhook, else messages are logged locally.
type NotifyConfig struct {
	HTTPConfig `yaml:",inline"`

	AppID      string `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	AppSecret  string `json:"app_secret,omitempty" yaml:"app_secret,omitempty"`
	WebhookURL string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty"`
}

// ScheduleConfig holds settings for the continuous scheduler.
type ScheduleConfig struct {
	// Interval is the number of units between cycles (default 6).
	Interval int `json:"interval" yaml:"interval"`

	// Unit is "minutes" or "hours" (default "hours").
	Unit string `json:"unit" yaml:"unit"`
}

// ServerConfig holds settings for the webhook server.
type ServerConfig struct {
	// Addr is the listen address (default ":5000").
	Addr string `json:"addr" yaml:"addr"`
}

// AgentConfig groups all component configurations.
type AgentConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Enrich    EnrichConfig    `json:"enrich" yaml:"enrich"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Knowledge KnowledgeConfig `json:"knowledge" yaml:"knowledge"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Notify    NotifyConfig    `json:"notify" yaml:"notify"`
	Schedule  ScheduleConfig  `json:"schedule" yaml:"schedule"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
