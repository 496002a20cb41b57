// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored papers, ideas, or experiments",
}

var listPapersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List stored papers",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices("")
		if err != nil {
			return err
		}
		defer svc.Close()

		papers, err := svc.store.Papers()
		if err != nil {
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return writeJSON(papers)
		}
		for _, p := range papers {
			fmt.Printf("- %s (%s)\n", p.Title, p.URL)
		}
		fmt.Printf("\n%d papers\n", len(papers))
		return nil
	},
}

var listIdeasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "List generated research ideas",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices("")
		if err != nil {
			return err
		}
		defer svc.Close()

		ideas, err := svc.store.Ideas()
		if err != nil {
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return writeJSON(ideas)
		}
		for _, idea := range ideas {
			reasoning := idea.Reasoning
			if len(reasoning) > 100 {
				reasoning = reasoning[:100] + "..."
			}
			fmt.Printf("- %s\n  reasoning: %s\n", idea.Title, reasoning)
		}
		fmt.Printf("\n%d ideas\n", len(ideas))
		return nil
	},
}

var listExperimentsCmd = &cobra.Command{
	Use:   "experiments",
	Short: "List recorded experiments",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices("")
		if err != nil {
			return err
		}
		defer svc.Close()

		experiments, err := svc.store.Experiments()
		if err != nil {
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return writeJSON(experiments)
		}
		for _, e := range experiments {
			fmt.Printf("- %s [%s]\n  %s (results: %s)\n", e.Title, e.Status, e.Description, e.Results)
		}
		fmt.Printf("\n%d experiments\n", len(experiments))
		return nil
	},
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	listPapersCmd.Flags().Bool("json", false, "output as JSON")
	listIdeasCmd.Flags().Bool("json", false, "output as JSON")
	listExperimentsCmd.Flags().Bool("json", false, "output as JSON")

	listCmd.AddCommand(listPapersCmd)
	listCmd.AddCommand(listIdeasCmd)
	listCmd.AddCommand(listExperimentsCmd)
	rootCmd.AddCommand(listCmd)
}
