// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jikhanjung/pdfhunter/internal/export"
	"github.com/jikhanjung/pdfhunter/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [ids...]",
	Short: "Export stored records in a citation format",
	Long: `Export renders stored records as CSL-JSON, CSL-YAML, RIS, or BibTeX.
Without arguments every stored record is exported; pass record ids to
export a subset.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", "csl-json", "output format: csl-json, csl-yaml, ris, or bibtex")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().String("status", "", "filter by status when exporting all records")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	var records []*types.BibliographyRecord

	if len(args) > 0 {
		for _, id := range args {
			rec, err := db.Get(ctx, id)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
	} else {
		status, _ := cmd.Flags().GetString("status")
		records, err = db.List(ctx, types.RecordStatus(status))
		if err != nil {
			return err
		}
	}

	if len(records) == 0 {
		return fmt.Errorf("no records to export")
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	return export.Write(out, format, records)
}
