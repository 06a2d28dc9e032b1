package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/latination/lineup/internal/app"
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/notify"
)

var validateNotify bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the content tables",
	Long:  `Load the content tables, run all validation checks and print the findings. Exits non-zero when errors are found.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateNotify, "notify", false, "Mail the report to the configured recipients")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tables, err := content.LoadTables(cfg.Content.Dir)
	if err != nil {
		return err
	}

	report := content.Validate(*tables, cfg.Season)
	printReport(report)

	if validateNotify {
		if !cfg.Notify.Enabled {
			return fmt.Errorf("notify is not enabled in the configuration")
		}
		logger := app.SetupLogger(cfg.Logging)
		mailer := notify.NewMailer(cfg.Notify, cfg.Server.Hostname, logger)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mailer.SendReport(ctx, report, cfg.Season); err != nil {
			return err
		}
		fmt.Printf("Report mailed to %v\n", cfg.Notify.To)
	}

	return report.Err()
}

func printReport(report *content.Report) {
	counts := report.CountBySeverity()
	fmt.Printf("Findings: %d error(s), %d warning(s), %d info\n",
		counts[content.SeverityError],
		counts[content.SeverityWarning],
		counts[content.SeverityInfo],
	)

	if len(report.Findings) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEVERITY\tCODE\tENTITY\tMESSAGE")
	for _, f := range report.Findings {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n", f.Severity, f.Code, f.Kind, f.ID, f.Message)
	}
	w.Flush()
}
