// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/optowatch/internal/source"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for papers without storing them",
	Long: `Search runs one active search and prints the papers found, without
summarizing, storing, or notifying. Use --out to save the pass to a
YAML report file for later review.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")
	outPath, _ := cmd.Flags().GetString("out")

	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	svc, err := buildServices("")
	if err != nil {
		return err
	}
	defer svc.Close()

	if query == "" {
		query = svc.cfg.Search.DefaultQuery
	}
	if limit <= 0 {
		limit = svc.cfg.Search.DefaultLimit
	}

	papers := svc.aggregator.SearchActive(context.Background(), query, limit)

	for _, p := range papers {
		fmt.Printf("- %s\n  %s\n", p.Title, p.URL)
		if len(p.Authors) > 0 {
			fmt.Printf("  authors: %s\n", strings.Join(p.Authors, ", "))
		}
	}
	fmt.Printf("\n%d papers found\n", len(papers))

	if outPath != "" {
		if err := source.WriteReport(outPath, query, limit, svc.cfg.Search, svc.aggregator.Simulated(), papers); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", outPath)
	}
	return nil
}

func init() {
	searchCmd.Flags().String("query", "", "search query (default: configured default query)")
	searchCmd.Flags().Int("limit", 0, "number of papers to find (default: configured limit)")
	searchCmd.Flags().String("out", "", "write the pass to a YAML report file")

	rootCmd.AddCommand(searchCmd)
}
