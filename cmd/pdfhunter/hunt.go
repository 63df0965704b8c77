// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jikhanjung/pdfhunter/internal/enrich"
	"github.com/jikhanjung/pdfhunter/internal/httputil"
	"github.com/jikhanjung/pdfhunter/internal/llm"
	"github.com/jikhanjung/pdfhunter/internal/pipeline"
	"github.com/jikhanjung/pdfhunter/internal/store"
	"github.com/jikhanjung/pdfhunter/pkg/types"
)

var huntCmd = &cobra.Command{
	Use:   "hunt [files...]",
	Short: "Extract bibliographic records from document text files",
	Long: `Hunt runs the extraction pipeline on each input file and saves the
resulting records to the local database.

Inputs are plain-text files holding the page text of a document (as
produced by an OCR or text-extraction step), with form feed characters
separating pages. A file without form feeds is treated as one page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHunt,
}

func init() {
	huntCmd.Flags().String("provider", "", "language model provider: claude or gemini")
	huntCmd.Flags().String("model", "", "language model identifier")
	huntCmd.Flags().Bool("mock", false, "use a mock language model (rule-based extraction only)")
	huntCmd.Flags().Bool("enrich", false, "fill missing fields from OpenAlex after extraction")
	huntCmd.Flags().Bool("no-save", false, "print records without saving them")

	rootCmd.AddCommand(huntCmd)
}

func runHunt(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.LLM.Model = model
	}
	if enable, _ := cmd.Flags().GetBool("enrich"); enable {
		cfg.Enrich.Enabled = true
	}

	mock, _ := cmd.Flags().GetBool("mock")
	extractor, err := newExtractor(cfg.LLM, mock)
	if err != nil {
		return err
	}

	httputil.RetryLog = os.Stdout

	runner := &pipeline.Runner{
		Extractor: extractor,
		Config:    cfg,
		Progress:  os.Stdout,
	}
	if cfg.Enrich.Enabled {
		runner.Enricher = enrich.NewClient(cfg.Enrich)
	}

	noSave, _ := cmd.Flags().GetBool("no-save")
	var db *store.Store
	if !noSave {
		db, err = store.NewStore(storeConfig(cmd, cfg))
		if err != nil {
			return err
		}
		defer db.Close()
	}

	ctx := context.Background()
	var confirmed, review, failed int

	for _, path := range args {
		doc, err := pipeline.LoadTextFile(path)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", path, err)
			failed++
			continue
		}

		rec := runner.Run(ctx, doc)

		switch rec.Status {
		case types.StatusConfirmed:
			confirmed++
		case types.StatusNeedsReview:
			review++
		default:
			failed++
		}

		if db != nil {
			if err := db.Save(ctx, rec); err != nil {
				return fmt.Errorf("saving record for %s: %w", path, err)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "\n%d confirmed, %d needs review, %d failed\n", confirmed, review, failed)
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed", failed)
	}
	return nil
}

// newExtractor builds the configured language model backend.
func newExtractor(cfg types.LLMConfig, mock bool) (llm.Extractor, error) {
	if mock {
		return &llm.Mock{}, nil
	}

	switch cfg.Provider {
	case "claude", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("no Anthropic API key: set anthropic-api-key in .secrets/ or ANTHROPIC_API_KEY")
		}
		return &llm.ClaudeBackend{
			APIKey:        cfg.APIKey,
			Model:         cfg.Model,
			MaxTextLength: cfg.MaxTextLength,
		}, nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("no Gemini API key: set gemini-api-key in .secrets/ or GEMINI_API_KEY")
		}
		return &llm.GeminiBackend{
			APIKey:        cfg.APIKey,
			Model:         cfg.Model,
			MaxTextLength: cfg.MaxTextLength,
		}, nil
	}
	return nil, fmt.Errorf("unknown provider %q: use claude or gemini", cfg.Provider)
}
