// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/optowatch/internal/source"
	"github.com/pdiddy/optowatch/pkg/types"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one full research pass: search, store, notify, ideate",
	Long: `Cycle searches for papers matching the query, summarizes and stores the
new ones, notifies the researcher about each, and always finishes by
generating one research idea from recent papers, lab experiments, and
knowledge base context.`,
	RunE: runCycle,
}

func runCycle(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")
	outPath, _ := cmd.Flags().GetString("out")
	chatID, _ := cmd.Flags().GetString("chat-id")

	svc, err := buildServices(chatID)
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

	ctx := context.Background()
	result, err := svc.agent.RunCycle(ctx, func(ctx context.Context) []types.Paper {
		return svc.aggregator.SearchActive(ctx, query, limit)
	})
	if err != nil {
		return err
	}

	fmt.Printf("cycle complete: %d found, %d new\n", result.Found, len(result.NewPapers))

	if outPath != "" {
		if err := source.WriteReport(outPath, query, limit, svc.cfg.Search, svc.aggregator.Simulated(), result.NewPapers); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", outPath)
	}
	return nil
}

func init() {
	cycleCmd.Flags().String("query", "", "search query (default: configured default query)")
	cycleCmd.Flags().Int("limit", 0, "number of papers to find (default: configured limit)")
	cycleCmd.Flags().String("out", "", "write the new papers to a YAML report file")

	rootCmd.AddCommand(cycleCmd)
}
