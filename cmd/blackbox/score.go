package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blackbox/internal/services/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score currencies from stored event surprises",
}

var scoreCurrencyCmd = &cobra.Command{
	Use:   "currency CODE",
	Short: "Compute the fundamental score for one currency",
	Args:  cobra.ExactArgs(1),
	RunE:  runScoreCurrency,
}

var scorePairCmd = &cobra.Command{
	Use:   "pair BASE QUOTE",
	Short: "Compute the bias and signal for a currency pair",
	Args:  cobra.ExactArgs(2),
	RunE:  runScorePair,
}

var (
	flagHalfLife  float64
	flagLookback  int
	flagThreshold float64
)

func init() {
	for _, cmd := range []*cobra.Command{scoreCurrencyCmd, scorePairCmd} {
		cmd.Flags().Float64Var(&flagHalfLife, "half-life", 0, "half-life in hours (0 uses the configured default)")
		cmd.Flags().IntVar(&flagLookback, "lookback", 0, "lookback window in days (0 uses the configured default)")
		cmd.Flags().Float64Var(&flagThreshold, "threshold", 0, "minimum bias threshold (0 uses the configured default)")
	}

	scoreCmd.AddCommand(scoreCurrencyCmd)
	scoreCmd.AddCommand(scorePairCmd)
}

func scoringEngine(a *app) (*scoring.Engine, error) {
	overrides := scoring.Config{
		HalfLifeHours:    flagHalfLife,
		LookbackDays:     flagLookback,
		MinBiasThreshold: flagThreshold,
	}
	if overrides == (scoring.Config{}) {
		return a.engine, nil
	}
	return a.engine.WithConfig(overrides)
}

func runScoreCurrency(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	engine, err := scoringEngine(app)
	if err != nil {
		return err
	}

	score, err := engine.CurrencyScore(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s score: %+.4f\n", strings.ToUpper(args[0]), score)
	return nil
}

func runScorePair(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	engine, err := scoringEngine(app)
	if err != nil {
		return err
	}

	score, err := engine.ScorePair(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("%s/%s\n", score.Base, score.Quote)
	fmt.Printf("  base score:  %+.4f\n", score.BaseScore)
	fmt.Printf("  quote score: %+.4f\n", score.QuoteScore)
	fmt.Printf("  bias:        %+.4f\n", score.Bias)
	fmt.Printf("  signal:      %s\n", score.Signal)
	return nil
}
