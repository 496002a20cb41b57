// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/optowatch/internal/knowledge"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage the local knowledge index (index, query, export)",
	Long: `Knowledge manages the full-text index built from the researcher's local
notes and papers. Idea generation queries this index for passages
relevant to freshly found papers.`,
}

var knowledgeIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index local documents for retrieval",
	Long: `Index scans the knowledge directory for Markdown, text, and PDF files,
splits them into passages, and indexes them with FTS5. Unchanged files
are skipped on subsequent runs.`,
	RunE: runKnowledgeIndex,
}

func runKnowledgeIndex(cmd *cobra.Command, args []string) error {
	ks, err := openKnowledgeStore()
	if err != nil {
		return err
	}
	defer ks.Close()

	summary, err := ks.Index(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

var knowledgeQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve passages relevant to a question",
	RunE:  runKnowledgeQuery,
}

func runKnowledgeQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("query text required")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	ks, err := openKnowledgeStore()
	if err != nil {
		return err
	}
	defer ks.Close()

	out, err := ks.Context(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Println("No matching passages.")
		return nil
	}
	fmt.Println(out)
	return nil
}

var knowledgeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index contents to a YAML file",
	RunE:  runKnowledgeExport,
}

func runKnowledgeExport(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")

	ks, err := openKnowledgeStore()
	if err != nil {
		return err
	}
	defer ks.Close()

	if err := ks.ExportYAML(context.Background(), outPath); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func openKnowledgeStore() (*knowledge.Store, error) {
	cfg := loadConfig()
	return knowledge.NewStore(cfg.Knowledge)
}

func init() {
	knowledgeQueryCmd.Flags().Int("limit", 0, "maximum passages (0 = configured default)")
	knowledgeExportCmd.Flags().String("out", "knowledge-export.yaml", "export file path")

	knowledgeCmd.AddCommand(knowledgeIndexCmd)
	knowledgeCmd.AddCommand(knowledgeQueryCmd)
	knowledgeCmd.AddCommand(knowledgeExportCmd)
	rootCmd.AddCommand(knowledgeCmd)
}
