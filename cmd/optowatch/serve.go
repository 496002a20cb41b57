// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/optowatch/internal/server"
	"github.com/pdiddy/optowatch/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Feishu webhook server",
	Long: `Serve listens for Feishu event callbacks. Chat messages starting with
"search" or "research" trigger a full research cycle for the rest of
the message; results are delivered back to the originating chat.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := buildServices("")
	if err != nil {
		return err
	}
	defer svc.Close()

	runner := func(ctx context.Context, task server.SearchTask) {
		svc.agent.ReceiveID = task.ChatID
		_, err := svc.agent.RunCycle(ctx, func(ctx context.Context) []types.Paper {
			return svc.aggregator.SearchActive(ctx, task.Query, svc.cfg.Search.DefaultLimit)
		})
		if err != nil {
			fmt.Printf("warning: search task failed: %v\n", err)
		}
	}

	srv := server.New(svc.notifier, runner, svc.cfg.Search.DefaultQuery, cmd.OutOrStdout())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.Start(ctx)

	fmt.Printf("listening on %s\n", svc.cfg.Server.Addr)
	return srv.Router().Run(svc.cfg.Server.Addr)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
