package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"photosort/internal/outcome"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	var failedOnly bool
	var doneOnly bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded session outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if failedOnly && doneOnly {
				return fmt.Errorf("--failed and --done are mutually exclusive")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			records, err := outcome.List(cfg)
			if err != nil {
				return fmt.Errorf("list session records: %w", err)
			}
			if failedOnly {
				records = filterStatus(records, outcome.StatusFailed)
			}
			if doneOnly {
				records = filterStatus(records, outcome.StatusDone)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No session records found")
				return nil
			}

			headers := []string{"Session", "Subject", "Status", "Moved", "Detail", "Recorded"}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.SessionID,
					record.SubjectID,
					string(record.Status),
					strconv.Itoa(record.FilesMoved),
					record.Error,
					formatRecordedAt(record.RecordedAt),
				})
			}

			if isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(out, renderTable(headers, rows, 4))
				return nil
			}
			// Plain tab-separated output when piped.
			fmt.Fprintln(out, strings.Join(headers, "\t"))
			for _, row := range rows {
				fmt.Fprintln(out, strings.Join(row, "\t"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Show only failed sessions")
	cmd.Flags().BoolVar(&doneOnly, "done", false, "Show only completed sessions")
	return cmd
}

func filterStatus(records []outcome.Record, status outcome.Status) []outcome.Record {
	kept := records[:0]
	for _, record := range records {
		if record.Status == status {
			kept = append(kept, record)
		}
	}
	return kept
}

func formatRecordedAt(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
