// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/optowatch/pkg/types"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Manage internal experiment records",
}

var experimentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a lab experiment",
	Long: `Add records an internal experiment. Experiments feed idea generation:
the generator connects literature trends with what the lab has already
tried.`,
	RunE: runExperimentAdd,
}

func runExperimentAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	desc, _ := cmd.Flags().GetString("desc")
	results, _ := cmd.Flags().GetString("results")

	if title == "" || desc == "" {
		return fmt.Errorf("--title and --desc are required")
	}
	if results == "" {
		results = "Pending"
	}

	svc, err := buildServices("")
	if err != nil {
		return err
	}
	defer svc.Close()

	exp := types.Experiment{
		Title:       title,
		Description: desc,
		Results:     results,
		Status:      "ongoing",
		Date:        time.Now(),
	}
	if err := svc.store.AddExperiment(exp); err != nil {
		return err
	}
	fmt.Println("experiment added")
	return nil
}

func init() {
	experimentAddCmd.Flags().String("title", "", "experiment title (required)")
	experimentAddCmd.Flags().String("desc", "", "experiment description (required)")
	experimentAddCmd.Flags().String("results", "", "experiment results so far (default: Pending)")

	experimentCmd.AddCommand(experimentAddCmd)
	rootCmd.AddCommand(experimentCmd)
}
