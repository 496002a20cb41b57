// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the optowatch CLI.
// The agent watches the optoelectronics literature: it searches and
// monitors sources, enriches and stores papers, proposes research ideas,
// and notifies the researcher over Feishu.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/optowatch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the optowatch CLI.
var rootCmd = &cobra.Command{
	Use:   "optowatch",
	Short: "Research monitoring agent for optoelectronics",
	Long: `optowatch keeps a research group current with the optoelectronics
literature. It searches for and monitors new papers, enriches their
metadata from Semantic Scholar and CrossRef, stores them locally,
proposes research ideas grounded in recent findings and lab notes, and
pushes notifications to Feishu.

Each operation is a subcommand: search, cycle, monitor, experiment,
list, knowledge, serve, and schedule.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./optowatch.yaml or ~/.config/optowatch/config.yaml)")
	rootCmd.PersistentFlags().String("chat-id", "", "Feishu chat ID for directed notifications")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("optowatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "optowatch"))
		}
	}

	viper.SetEnvPrefix("OPTOWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
