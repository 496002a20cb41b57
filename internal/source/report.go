// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/optowatch/pkg/types"
)

// Report is the on-disk representation of one search or monitoring pass.
// The researcher can save a pass to a file and review it later without
// re-querying APIs.
type Report struct {
	Query   ReportQuery   `yaml:"query"`
	Config  ReportConfig  `yaml:"config"`
	Papers  []types.Paper `yaml:"papers"`
	Summary ReportSummary `yaml:"summary"`
}

// ReportQuery records what was asked for.
type ReportQuery struct {
	Text  string `yaml:"text,omitempty"`
	Limit int    `yaml:"limit"`
}

// ReportConfig records the source configuration that produced the papers.
type ReportConfig struct {
	DaysBack     int  `yaml:"days_back"`
	AcademicOnly bool `yaml:"academic_only"`
	Simulated    bool `yaml:"simulated"`
}

// ReportSummary stores result statistics and a timestamp.
type ReportSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteReport saves a search pass to a YAML file.
func WriteReport(path, query string, limit int, cfg types.SearchConfig, simulated bool, papers []types.Paper) error {
	rep := Report{
		Query: ReportQuery{
			Text:  query,
			Limit: limit,
		},
		Config: ReportConfig{
			DaysBack:     cfg.DaysBack,
			AcademicOnly: len(cfg.AcademicDomains) > 0,
			Simulated:    simulated,
		},
		Papers: papers,
		Summary: ReportSummary{
			Total:     len(papers),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a previously saved report from disk.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var rep Report
	if err := yaml.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &rep, nil
}

// Simulated reports whether the Aggregator is running without an Exa key.
func (a *Aggregator) Simulated() bool {
	return a.exa == nil
}
