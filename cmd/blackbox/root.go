package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blackbox",
	Short: "Economic calendar scraper and fundamental scoring engine",
	Long: `blackbox scrapes the economic calendar into PostgreSQL and scores
currencies from the surprise between published actuals and forecasts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(scoreCmd)
}
