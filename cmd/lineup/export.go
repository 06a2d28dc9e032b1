package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latination/lineup/internal/calendar"
	"github.com/latination/lineup/internal/content"
)

var (
	exportFormat string
	exportMonth  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the season calendar",
	Long:  `Build the calendar from the content tables and print it, either as JSON or as a month-by-month rundown.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "text", "Output format (json, text)")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Limit output to one month (YYYY-MM)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "json" && exportFormat != "text" {
		return fmt.Errorf("unknown format %q (want json or text)", exportFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tables, err := content.LoadTables(cfg.Content.Dir)
	if err != nil {
		return err
	}

	// Fold in admin edits when an overlay database already exists. The
	// export never creates one.
	if _, statErr := os.Stat(cfg.Storage.Path); statErr == nil {
		store, err := content.OpenStore(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		overlay, err := store.Overlay()
		if err != nil {
			return err
		}
		merged := content.Merge(*tables, *overlay)
		tables = &merged
	}

	catalog := content.NewCatalog(*tables, nil)
	gen := calendar.NewGenerator(catalog, cfg.Season, nil)

	var months []calendar.MonthRecord
	if exportMonth != "" {
		rec, ok, err := gen.MonthBySlug(exportMonth)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("month %s is outside the season window", exportMonth)
		}
		months = []calendar.MonthRecord{rec}
	} else {
		months = gen.Calendar()
	}

	if exportFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(months)
	}

	for _, m := range months {
		printMonth(m)
	}
	return nil
}

func printMonth(m calendar.MonthRecord) {
	fmt.Printf("%s %d\n", m.Month, m.Year)

	for _, c := range m.Campaigns {
		fmt.Printf("  campaign   %s (%s)\n", c.Title, c.FlightDates)
		for _, p := range c.ParticipatingSeries {
			fmt.Printf("             - %s\n", p.Series.Title)
		}
	}
	for _, s := range m.SeriesPremieres {
		label := ""
		if s.IsNew {
			label = " [new]"
		}
		fmt.Printf("  premiere   %s%s\n", s.Title, label)
	}
	for _, b := range m.BrandedCampaigns {
		fmt.Printf("  branded    %s (%s)\n", b.Title, b.FlightDates)
	}
	for _, e := range m.Events {
		fmt.Printf("  event      %s\n", e.Title)
	}
	for _, k := range m.KeyInitiatives {
		fmt.Printf("  initiative %s\n", k.Title)
	}
	for _, sp := range m.Specials {
		fmt.Printf("  special    %s\n", sp.Title)
	}
	fmt.Println()
}
