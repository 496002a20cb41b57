// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists papers, experiments, and ideas as JSON files in
// the data directory. Each collection is a single human-readable file
// rewritten in full on every change, so the researcher can inspect and
// hand-edit the data between runs.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/optowatch/pkg/types"
)

const (
	papersFile      = "papers.json"
	experimentsFile = "experiments.json"
	ideasFile       = "ideas.json"
)

// Store is a file-backed collection set rooted at a data directory.
type Store struct {
	dir string
	w   io.Writer
}

// New opens a store at cfg.DataDir, creating the directory if needed.
func New(cfg types.StoreConfig, w io.Writer) (*Store, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("store: data directory not configured")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: cfg.DataDir, w: w}, nil
}

// AddPaper appends a paper unless one with the same title (case
// insensitive) is already stored. Duplicates are logged and dropped.
func (s *Store) AddPaper(p types.Paper) error {
	papers, err := s.Papers()
	if err != nil {
		return err
	}
	for _, existing := range papers {
		if strings.EqualFold(existing.Title, p.Title) {
			fmt.Fprintf(s.w, "paper already stored, skipping: %s\n", p.Title)
			return nil
		}
	}
	papers = append(papers, p)
	return s.write(papersFile, papers)
}

// AddExperiment appends an experiment record.
func (s *Store) AddExperiment(e types.Experiment) error {
	experiments, err := s.Experiments()
	if err != nil {
		return err
	}
	experiments = append(experiments, e)
	return s.write(experimentsFile, experiments)
}

// AddIdea appends a generated idea.
func (s *Store) AddIdea(idea types.Idea) error {
	ideas, err := s.Ideas()
	if err != nil {
		return err
	}
	ideas = append(ideas, idea)
	return s.write(ideasFile, ideas)
}

// Papers returns every stored paper in insertion order.
func (s *Store) Papers() ([]types.Paper, error) {
	var papers []types.Paper
	if err := s.read(papersFile, &papers); err != nil {
		return nil, err
	}
	return papers, nil
}

// Experiments returns every stored experiment in insertion order.
func (s *Store) Experiments() ([]types.Experiment, error) {
	var experiments []types.Experiment
	if err := s.read(experimentsFile, &experiments); err != nil {
		return nil, err
	}
	return experiments, nil
}

// Ideas returns every stored idea in insertion order.
func (s *Store) Ideas() ([]types.Idea, error) {
	var ideas []types.Idea
	if err := s.read(ideasFile, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// HasPaperTitle reports whether a paper with exactly this title is stored.
func (s *Store) HasPaperTitle(title string) (bool, error) {
	papers, err := s.Papers()
	if err != nil {
		return false, err
	}
	for _, p := range papers {
		if p.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// read loads a whole collection. A missing file is an empty collection;
// a corrupt file is treated the same so one bad edit never wedges the
// agent, and the next write repairs it.
func (s *Store) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if jsonErr := json.Unmarshal(data, v); jsonErr != nil {
		fmt.Fprintf(s.w, "warning: %s is corrupt, starting fresh: %v\n", name, jsonErr)
	}
	return nil
}

// write rewrites a whole collection with indentation for hand inspection.
func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
