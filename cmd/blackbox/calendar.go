package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"blackbox/internal/domain/calendar"
	"blackbox/internal/normalize"
)

var (
	flagYear       int
	flagMonth      int
	flagForce      bool
	flagCurrencies []string
	flagMinImpact  string
	flagHighImpact bool
	flagPending    bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Scrape and inspect the economic calendar",
}

var calendarFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Scrape a month into the store, skipping days already present",
	RunE:  runCalendarFetch,
}

var calendarTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's events, scraping them if not yet stored",
	RunE:  runCalendarToday,
}

var calendarRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-scrape a whole month, overwriting stored events",
	RunE:  runCalendarRefresh,
}

var calendarShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a stored month without scraping",
	RunE:  runCalendarShow,
}

func init() {
	now := time.Now().UTC()

	for _, cmd := range []*cobra.Command{calendarFetchCmd, calendarRefreshCmd, calendarShowCmd} {
		cmd.Flags().IntVar(&flagYear, "year", now.Year(), "calendar year")
		cmd.Flags().IntVar(&flagMonth, "month", int(now.Month()), "calendar month (1-12)")
	}
	calendarFetchCmd.Flags().BoolVar(&flagForce, "force", false, "re-scrape days that are already stored")
	calendarRefreshCmd.Flags().BoolVar(&flagPending, "pending", false, "only re-scrape days that still have unpublished actuals")
	calendarShowCmd.Flags().StringSliceVar(&flagCurrencies, "currencies", nil, "only show these currency codes")
	calendarShowCmd.Flags().StringVar(&flagMinImpact, "min-impact", "", "minimum impact (low, medium, high)")
	calendarTodayCmd.Flags().StringSliceVar(&flagCurrencies, "currencies", nil, "only show these currency codes")
	calendarTodayCmd.Flags().BoolVar(&flagHighImpact, "high-impact", false, "only show high impact events")

	calendarCmd.AddCommand(calendarFetchCmd)
	calendarCmd.AddCommand(calendarTodayCmd)
	calendarCmd.AddCommand(calendarRefreshCmd)
	calendarCmd.AddCommand(calendarShowCmd)
}

func runCalendarFetch(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.service.SyncMonth(cmd.Context(), flagYear, time.Month(flagMonth), flagForce)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d-%02d: %d days fetched, %d skipped, %d failed, %d events stored\n",
		result.Year, int(result.Month),
		result.DaysFetched, result.DaysSkipped, result.DaysFailed, result.EventsStored)
	return nil
}

func runCalendarToday(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	events, err := app.service.Today(cmd.Context(), flagCurrencies, flagHighImpact)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("No events today")
		return nil
	}

	printEvents(events)
	return nil
}

func runCalendarRefresh(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	var stored int64
	if flagPending {
		stored, err = app.service.RefreshPending(cmd.Context(), flagYear, time.Month(flagMonth))
	} else {
		stored, err = app.service.RefreshMonth(cmd.Context(), flagYear, time.Month(flagMonth))
	}
	if err != nil {
		return err
	}

	fmt.Printf("Refreshed %d-%02d: %d events stored\n", flagYear, flagMonth, stored)
	return nil
}

func runCalendarShow(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	filter := calendar.Filter{Currencies: flagCurrencies}
	if flagMinImpact != "" {
		impact := calendar.Impact(strings.ToLower(flagMinImpact))
		if !impact.Valid() {
			return fmt.Errorf("invalid min-impact %q", flagMinImpact)
		}
		filter.MinImpact = impact
	}

	month, err := app.service.Month(cmd.Context(), flagYear, time.Month(flagMonth), filter)
	if err != nil {
		return err
	}

	for _, day := range month.Days {
		if len(day.Events) == 0 {
			continue
		}
		fmt.Printf("\n%s\n", day.Date.Format("Mon Jan 2 2006"))
		printEvents(day.Events)
	}
	fmt.Printf("\n%d events total\n", len(month.AllEvents()))
	return nil
}

// printEvents renders events as an aligned console table
func printEvents(events []calendar.Event) {
	fmt.Printf("  %-7s %-4s %-8s %-42s %10s %10s %10s\n",
		"TIME", "CUR", "IMPACT", "EVENT", "ACTUAL", "FORECAST", "PREVIOUS")
	for _, e := range events {
		tod := "all day"
		if e.Time != nil {
			tod = e.Time.Format("15:04")
		}
		fmt.Printf("  %-7s %-4s %-8s %-42s %10s %10s %10s\n",
			tod, e.Currency, e.Impact, truncate(e.Name, 42),
			formatValue(e.Actual), formatValue(e.Forecast), formatValue(e.Previous))
	}
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return normalize.Format(*v, 2, true)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
