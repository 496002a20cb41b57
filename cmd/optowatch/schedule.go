// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/optowatch/pkg/types"
)

// scheduledSearchLimit bounds the active-search half of a scheduled job.
const scheduledSearchLimit = 3

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run monitoring and research cycles continuously",
	Long: `Schedule runs one job per interval: a monitoring pass over tracked
sources, then a full research cycle for the query. Use --dry-run to
execute the job once and exit, or --max-runs to stop after N runs.`,
	RunE: runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	interval, _ := cmd.Flags().GetInt("interval")
	unit, _ := cmd.Flags().GetString("unit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	maxRuns, _ := cmd.Flags().GetInt("max-runs")
	chatID, _ := cmd.Flags().GetString("chat-id")

	svc, err := buildServices(chatID)
	if err != nil {
		return err
	}
	defer svc.Close()

	if query == "" {
		query = svc.cfg.Search.DefaultQuery
	}
	if interval <= 0 {
		interval = svc.cfg.Schedule.Interval
	}
	if unit == "" {
		unit = svc.cfg.Schedule.Unit
	}

	every, err := scheduleEvery(interval, unit)
	if err != nil {
		return err
	}

	job := func() {
		ctx := context.Background()
		fmt.Printf("--- scheduled job at %s ---\n", time.Now().Format(time.RFC1123))

		if _, err := svc.agent.Monitor(ctx, svc.aggregator.MonitorSources); err != nil {
			fmt.Printf("warning: monitoring pass failed: %v\n", err)
		}

		if query != "" {
			_, err := svc.agent.RunCycle(ctx, func(ctx context.Context) []types.Paper {
				return svc.aggregator.SearchActive(ctx, query, scheduledSearchLimit)
			})
			if err != nil {
				fmt.Printf("warning: research cycle failed: %v\n", err)
			}
		}
	}

	if dryRun {
		fmt.Println("dry run: executing job immediately")
		job()
		return nil
	}

	fmt.Printf("scheduler started: every %d %s, query %q\n", interval, unit, query)

	runs := 0
	done := make(chan struct{})
	c := cron.New()
	_, err = c.AddFunc(fmt.Sprintf("@every %s", every), func() {
		job()
		runs++
		if maxRuns > 0 {
			fmt.Printf("run %d/%d completed\n", runs, maxRuns)
			if runs >= maxRuns {
				close(done)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("registering schedule: %w", err)
	}

	c.Start()
	<-done
	ctx := c.Stop()
	<-ctx.Done()
	fmt.Println("max runs reached, exiting")
	return nil
}

// scheduleEvery converts an interval and unit into a duration string for
// cron's @every descriptor.
func scheduleEvery(interval int, unit string) (time.Duration, error) {
	switch unit {
	case "minutes":
		return time.Duration(interval) * time.Minute, nil
	case "hours":
		return time.Duration(interval) * time.Hour, nil
	}
	return 0, fmt.Errorf("unsupported unit %q: use minutes or hours", unit)
}

func init() {
	scheduleCmd.Flags().String("query", "", "search query for the research cycle (default: configured default query)")
	scheduleCmd.Flags().Int("interval", 0, "interval between jobs (default: configured interval)")
	scheduleCmd.Flags().String("unit", "", "interval unit: minutes or hours (default: configured unit)")
	scheduleCmd.Flags().Bool("dry-run", false, "execute the job once immediately and exit")
	scheduleCmd.Flags().Int("max-runs", 0, "stop after N runs (0 = run forever)")

	rootCmd.AddCommand(scheduleCmd)
}
