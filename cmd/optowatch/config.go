// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/optowatch/internal/agent"
	"github.com/pdiddy/optowatch/internal/enrich"
	"github.com/pdiddy/optowatch/internal/gen"
	"github.com/pdiddy/optowatch/internal/knowledge"
	"github.com/pdiddy/optowatch/internal/notify"
	"github.com/pdiddy/optowatch/internal/source"
	"github.com/pdiddy/optowatch/internal/store"
	"github.com/pdiddy/optowatch/pkg/types"
)

const defaultUserAgent = "optowatch/0.1 (mailto:optowatch@example.com)"

// loadConfig assembles the agent configuration from the config file,
// environment, and secrets. Secrets fill any key the config leaves empty.
func loadConfig() types.AgentConfig {
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("search.default_query", "perovskite solar cells")
	viper.SetDefault("search.default_limit", 5)
	viper.SetDefault("search.days_back", 30)
	viper.SetDefault("enrich.api_delay", "500ms")
	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("knowledge.knowledge_dir", "data/knowledge")
	viper.SetDefault("knowledge.index_path", "data/index/knowledge.db")
	viper.SetDefault("knowledge.max_results", 3)
	viper.SetDefault("ai.model", "gpt-4o")
	viper.SetDefault("schedule.interval", 6)
	viper.SetDefault("schedule.unit", "hours")
	viper.SetDefault("server.addr", ":5000")

	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}

	var groups []types.ResearchGroup
	_ = viper.UnmarshalKey("search.research_groups", &groups)

	cfg := types.AgentConfig{
		Search: types.SearchConfig{
			HTTPConfig:      httpCfg,
			ExaAPIKey:       secretDefault("exa-api-key", viper.GetString("search.exa_api_key")),
			DefaultQuery:    viper.GetString("search.default_query"),
			DefaultLimit:    viper.GetInt("search.default_limit"),
			DaysBack:        viper.GetInt("search.days_back"),
			AcademicDomains: viper.GetStringSlice("search.academic_domains"),
			RSSFeeds:        viper.GetStringSlice("search.rss_feeds"),
			ResearchGroups:  groups,
		},
		Enrich: types.EnrichConfig{
			HTTPConfig:            httpCfg,
			SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", viper.GetString("enrich.semantic_scholar_api_key")),
			APIDelay:              viper.GetDuration("enrich.api_delay"),
		},
		Store: types.StoreConfig{
			DataDir: viper.GetString("store.data_dir"),
		},
		Knowledge: types.KnowledgeConfig{
			KnowledgeDir: viper.GetString("knowledge.knowledge_dir"),
			IndexPath:    viper.GetString("knowledge.index_path"),
			MaxResults:   viper.GetInt("knowledge.max_results"),
		},
		AI: types.AIConfig{
			APIKey:  secretDefault("openai-api-key", viper.GetString("ai.api_key")),
			BaseURL: secretDefault("openai-base-url", viper.GetString("ai.base_url")),
			Model:   viper.GetString("ai.model"),
		},
		Notify: types.NotifyConfig{
			HTTPConfig: httpCfg,
			AppID:      secretDefault("feishu-app-id", viper.GetString("notify.app_id")),
			AppSecret:  secretDefault("feishu-app-secret", viper.GetString("notify.app_secret")),
			WebhookURL: secretDefault("feishu-webhook", viper.GetString("notify.webhook_url")),
		},
		Schedule: types.ScheduleConfig{
			Interval: viper.GetInt("schedule.interval"),
			Unit:     viper.GetString("schedule.unit"),
		},
		Server: types.ServerConfig{
			Addr: viper.GetString("server.addr"),
		},
	}

	if model := secretDefault("openai-model", ""); model != "" && !viper.IsSet("ai.model") {
		cfg.AI.Model = model
	}
	return cfg
}

func newHTTPClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// services bundles the constructed pipeline components for command use.
type services struct {
	cfg        types.AgentConfig
	store      *store.Store
	aggregator *source.Aggregator
	notifier   *notify.Notifier
	agent      *agent.Agent

	knowledgeStore *knowledge.Store // nil when the index cannot be opened
}

// buildServices wires the pipeline the way every command uses it. The
// knowledge index is optional: a missing or unopenable index disables
// retrieval rather than failing the command.
func buildServices(chatID string) (*services, error) {
	cfg := loadConfig()
	out := os.Stdout

	st, err := store.New(cfg.Store, out)
	if err != nil {
		return nil, err
	}

	enricher := enrich.NewEnricher(newHTTPClient(cfg.Enrich.HTTPConfig), cfg.Enrich, out)
	aggregator := source.NewAggregator(newHTTPClient(cfg.Search.HTTPConfig), cfg.Search, enricher, out)
	notifier := notify.NewNotifier(newHTTPClient(cfg.Notify.HTTPConfig), cfg.Notify, out)

	backend := gen.NewBackend(cfg.AI)
	summarizer := gen.NewSummarizer(backend, out)
	generator := gen.NewIdeaGenerator(backend, out)

	var retriever agent.ContextRetriever
	ks, err := knowledge.NewStore(cfg.Knowledge)
	if err == nil {
		retriever = ks
	}

	a := agent.New(st, summarizer, generator, notifier, retriever, out)
	a.ReceiveID = chatID

	return &services{
		cfg:            cfg,
		store:          st,
		aggregator:     aggregator,
		notifier:       notifier,
		agent:          a,
		knowledgeStore: ks,
	}, nil
}

// Close releases held resources.
func (s *services) Close() {
	if s.knowledgeStore != nil {
		s.knowledgeStore.Close()
	}
}
