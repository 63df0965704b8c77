// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jikhanjung/pdfhunter/internal/store"
	"github.com/jikhanjung/pdfhunter/internal/validate"
	"github.com/jikhanjung/pdfhunter/pkg/types"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect stored bibliography records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	RunE:  runRecordsList,
}

var recordsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one record with its evidence trail",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsShow,
}

var recordsCheckCmd = &cobra.Command{
	Use:   "check <id>",
	Short: "Run validation checks on a stored record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsCheck,
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsDelete,
}

func init() {
	recordsListCmd.Flags().String("status", "", "filter by status: confirmed, needs_review, or failed")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsShowCmd)
	recordsCmd.AddCommand(recordsCheckCmd)
	recordsCmd.AddCommand(recordsDeleteCmd)
	rootCmd.AddCommand(recordsCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	return store.NewStore(storeConfig(cmd, pipelineConfig()))
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	status, _ := cmd.Flags().GetString("status")
	records, err := db.List(context.Background(), types.RecordStatus(status))
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-12s  %-5s  %-40s  %s\n",
		"ID", "Status", "Conf", "Title", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, rec := range records {
		title := rec.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-12s  %.2f  %-40s  %s\n",
			rec.ID, rec.Status, rec.Confidence, title, rec.SourceFile)
	}

	fmt.Fprintf(os.Stdout, "\n%d records\n", len(records))
	return nil
}

func runRecordsShow(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func runRecordsCheck(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	result := validate.Validate(rec)
	if len(result.Issues) == 0 {
		fmt.Println("No issues found.")
		return nil
	}

	for _, issue := range result.Issues {
		line := fmt.Sprintf("%-7s  %-15s  %s", issue.Severity, issue.Field, issue.Message)
		if issue.Suggestion != "" {
			line += " (" + issue.Suggestion + ")"
		}
		fmt.Println(line)
	}
	if !result.Valid {
		return fmt.Errorf("%d issue(s), record invalid", len(result.Issues))
	}
	fmt.Fprintf(os.Stdout, "\n%d issue(s), record valid\n", len(result.Issues))
	return nil
}

func runRecordsDelete(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
