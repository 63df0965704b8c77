// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfhunter CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jikhanjung/pdfhunter/internal/secrets"
	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value
// for key, otherwise the environment variable envKey.
func secretDefault(key, envKey, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return os.Getenv(envKey)
}

// rootCmd is the base command for the pdfhunter CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfhunter",
	Short: "Bibliographic field extraction for scanned literature",
	Long: `pdfhunter extracts bibliographic records from page texts of scanned
academic literature. Rule-based pattern matching and a language model
each propose field values; the engine merges the evidence, expands
incomplete records, scores the result, and stores it for export.

Each stage is reachable through a subcommand: hunt processes documents,
records inspects stored results, and export renders citation formats.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env values become plain environment variables; a missing
		// file is fine.
		godotenv.Load()

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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfhunter.yaml or ~/.config/pdfhunter/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the record database (default: data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfhunter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfhunter"))
		}
	}

	viper.SetEnvPrefix("PDFHUNTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configuration from the config
// file, secrets, and environment.
func pipelineConfig() types.PipelineConfig {
	var cfg types.PipelineConfig
	viper.Unmarshal(&cfg)

	switch cfg.LLM.Provider {
	case "gemini":
		cfg.LLM.APIKey = secretDefault("gemini-api-key", "GEMINI_API_KEY", cfg.LLM.APIKey)
	default:
		cfg.LLM.Provider = "claude"
		cfg.LLM.APIKey = secretDefault("anthropic-api-key", "ANTHROPIC_API_KEY", cfg.LLM.APIKey)
	}
	cfg.Enrich.Email = secretDefault("openalex-email", "OPENALEX_EMAIL", cfg.Enrich.Email)
	if cfg.Enrich.UserAgent == "" {
		cfg.Enrich.UserAgent = "pdfhunter/" + version
	}
	return cfg
}

// storeConfig resolves the record database location.
func storeConfig(cmd *cobra.Command, cfg types.PipelineConfig) types.StoreConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = cfg.Store.DataDir
	}
	if dataDir == "" {
		dataDir = "data"
	}
	return types.StoreConfig{DataDir: dataDir}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
