package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MichelePan/jira-worklog/internal/report"
)

var (
	exportFrom   string
	exportTo     string
	exportOut    string
	exportStatus string
	exportType   string
	exportUsers  []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the worklog report views as CSV files",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "start date (YYYY-MM-DD, default 7 days ago)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "end date (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "output directory")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "filter by issue status")
	exportCmd.Flags().StringVar(&exportType, "type", "", "filter by issue type")
	exportCmd.Flags().StringSliceVar(&exportUsers, "user", nil, "filter by user account ID (repeatable)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -7)
	to := today

	var err error
	if exportFrom != "" {
		if from, err = time.ParseInLocation("2006-01-02", exportFrom, time.UTC); err != nil {
			return fmt.Errorf("invalid --from date %q: %w", exportFrom, err)
		}
	}
	if exportTo != "" {
		if to, err = time.ParseInLocation("2006-01-02", exportTo, time.UTC); err != nil {
			return fmt.Errorf("invalid --to date %q: %w", exportTo, err)
		}
	}

	svc := report.NewService(jiraClient, cfg.Report)
	rep, err := svc.Build(cmd.Context(), report.Params{
		From: from,
		To:   to,
		Filter: report.Filter{
			Status:    exportStatus,
			IssueType: exportType,
			UserIDs:   exportUsers,
		},
	})
	if err != nil {
		return err
	}

	if rep.RowsInRange == 0 {
		log.Warn().Msg("No worklogs in the selected range, writing empty files")
	}

	suffix := fmt.Sprintf("%s_%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	views := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"detail", func(w io.Writer) error { return report.WriteDetailCSV(w, rep.Rows) }},
		{"pivot", func(w io.Writer) error { return report.WritePivotCSV(w, rep.Pivot) }},
		{"issues", func(w io.Writer) error { return report.WriteIssueSummaryCSV(w, rep.Issues) }},
	}

	for _, v := range views {
		path := filepath.Join(exportOut, fmt.Sprintf("worklog_%s_%s.csv", v.name, suffix))
		if err := writeFile(path, v.write); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Info().Str("path", path).Msg("CSV written")
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
