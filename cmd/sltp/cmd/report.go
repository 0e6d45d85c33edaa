package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/sltp/aggregate"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/report"
	"github.com/rustyeddy/sltp/risk"
	"github.com/rustyeddy/sltp/stats"
	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show a day's trades against the daily target and stop-loss budget",
	Long: `Show one day's trades measured in R, where R is 1% of the balance at the
start of the day. Defaults to today.

Examples:
  sltp day
  sltp day 2025-12-02`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDay,
}

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Summarize a month of trading",
	Long: `Summarize a month of trading. Defaults to the current month.

With --org the month is written as an Org-mode review heading.

Examples:
  sltp month
  sltp month 2025-12 --org >> reviews.org`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMonth,
}

var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM]",
	Short: "Show a month's daily P&L as a calendar",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCalendar,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show trading statistics across the whole journal",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var (
	monthOrg     bool
	monthNotes   []string
	monthActions []string
)

func init() {
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(statsCmd)

	monthCmd.Flags().BoolVar(&monthOrg, "org", false, "write an Org-mode review")
	monthCmd.Flags().StringArrayVar(&monthNotes, "note", nil, "observation to include in the review (repeatable)")
	monthCmd.Flags().StringArrayVar(&monthActions, "action", nil, "next action to include in the review (repeatable)")
}

// parseMonth reads YYYY-MM, defaulting to the current month.
func parseMonth(args []string) (int, time.Month, error) {
	if len(args) == 0 {
		t := now()
		return t.Year(), t.Month(), nil
	}
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("month %q: want YYYY-MM", args[0])
	}
	return t.Year(), t.Month(), nil
}

func runDay(cmd *cobra.Command, args []string) error {
	date := ledger.FormatDate(now())
	if len(args) == 1 {
		if _, err := ledger.ParseDate(args[0]); err != nil {
			return fmt.Errorf("date %q: want YYYY-MM-DD", args[0])
		}
		date = args[0]
	}

	entries, err := loadEntries(cmd.Context())
	if err != nil {
		return err
	}

	res := cfg.Settings.Policy().Day(entries, date)
	trades, _ := ledger.Partition(entries, date)
	report.PrintDay(cmd.OutOrStdout(), res, risk.Evaluate(res), trades)
	return nil
}

func runMonth(cmd *cobra.Command, args []string) error {
	year, month, err := parseMonth(args)
	if err != nil {
		return err
	}
	entries, err := loadEntries(cmd.Context())
	if err != nil {
		return err
	}

	if monthOrg {
		r := report.NewMonthReview(entries, cfg.Settings.BeginningBalance, year, month, now())
		r.Notes = monthNotes
		r.NextActions = monthActions
		return report.WriteMonthOrg(cmd.OutOrStdout(), r)
	}
	report.PrintMonth(cmd.OutOrStdout(), aggregate.Month(entries, year, month))
	return nil
}

func runCalendar(cmd *cobra.Command, args []string) error {
	year, month, err := parseMonth(args)
	if err != nil {
		return err
	}
	entries, err := loadEntries(cmd.Context())
	if err != nil {
		return err
	}

	report.PrintCalendar(cmd.OutOrStdout(), aggregate.Calendar(entries, year, month, now()))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries(cmd.Context())
	if err != nil {
		return err
	}

	report.PrintStats(cmd.OutOrStdout(), stats.Compute(ledger.ActualTrades(entries)))
	return nil
}
