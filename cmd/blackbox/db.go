package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the event store",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema",
	RunE:  runDBInit,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over stored events",
	RunE:  runDBStats,
}

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all events for one month",
	RunE:  runDBClear,
}

var (
	flagClearYear  int
	flagClearMonth int
)

func init() {
	now := time.Now().UTC()
	dbClearCmd.Flags().IntVar(&flagClearYear, "year", now.Year(), "calendar year")
	dbClearCmd.Flags().IntVar(&flagClearMonth, "month", int(now.Month()), "calendar month (1-12)")

	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbClearCmd)
}

func runDBInit(cmd *cobra.Command, _ []string) error {
	// Schema bootstrap happens inside newApp
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Println("Schema ready")
	return nil
}

func runDBStats(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	stats, err := app.service.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Total events: %d\n", stats.TotalEvents)
	if stats.MinDate != nil && stats.MaxDate != nil {
		fmt.Printf("Date range:   %s .. %s\n",
			stats.MinDate.Format("2006-01-02"), stats.MaxDate.Format("2006-01-02"))
	}

	fmt.Println("\nBy currency:")
	for _, key := range sortedKeys(stats.ByCurrency) {
		fmt.Printf("  %-6s %d\n", key, stats.ByCurrency[key])
	}

	fmt.Println("\nBy impact:")
	for _, key := range sortedKeys(stats.ByImpact) {
		fmt.Printf("  %-8s %d\n", key, stats.ByImpact[key])
	}
	return nil
}

func runDBClear(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := app.repo.DeleteMonth(cmd.Context(), flagClearYear, time.Month(flagClearMonth))
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d events for %d-%02d\n", n, flagClearYear, flagClearMonth)
	return nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
