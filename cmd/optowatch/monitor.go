// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Check tracked journals and research groups for new papers",
	Long: `Monitor checks every configured journal RSS feed and tracked research
group, stores and announces what is new, and generates a research idea
only when the pass found something new. Group tracking needs an Exa API
key; without one only the feeds are checked.`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	chatID, _ := cmd.Flags().GetString("chat-id")

	svc, err := buildServices(chatID)
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.agent.Monitor(context.Background(), svc.aggregator.MonitorSources)
	if err != nil {
		return err
	}

	fmt.Printf("monitoring pass complete: %d found, %d new\n", result.Found, len(result.NewPapers))
	return nil
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
