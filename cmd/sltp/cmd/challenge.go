package cmd

import (
	"fmt"

	"github.com/rustyeddy/sltp/challenge"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/report"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Track progress toward a target balance",
	Long: `Track a balance growth challenge.

Subcommands:
  status   - Show progress and the daily growth still required
  enable   - Start a challenge from today's balance
  disable  - Stop tracking the challenge

Examples:
  sltp challenge enable --target 15000 --days 60
  sltp challenge status`,
}

var challengeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show challenge progress",
	Args:  cobra.NoArgs,
	RunE:  runChallengeStatus,
}

var challengeEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Start a challenge from the current balance",
	Long: `Start a challenge. Today's date and current balance are recorded as the
starting point. Enabling a running challenge keeps its start and only updates
the target and duration; disable it first to start over.`,
	Args: cobra.NoArgs,
	RunE: runChallengeEnable,
}

var challengeDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop tracking the challenge",
	Args:  cobra.NoArgs,
	RunE:  runChallengeDisable,
}

var (
	challengeTarget string
	challengeDays   int
)

func init() {
	rootCmd.AddCommand(challengeCmd)
	challengeCmd.AddCommand(challengeStatusCmd)
	challengeCmd.AddCommand(challengeEnableCmd)
	challengeCmd.AddCommand(challengeDisableCmd)

	challengeEnableCmd.Flags().StringVar(&challengeTarget, "target", "", "target balance (default: keep the configured target)")
	challengeEnableCmd.Flags().IntVar(&challengeDays, "days", 0, "challenge length in days (default: keep the configured duration)")
}

func currentBalance(cmd *cobra.Command) (decimal.Decimal, error) {
	entries, err := loadEntries(cmd.Context())
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.CurrentBalance(cfg.Settings.BeginningBalance, entries), nil
}

func runChallengeStatus(cmd *cobra.Command, args []string) error {
	balance, err := currentBalance(cmd)
	if err != nil {
		return err
	}
	report.PrintChallenge(cmd.OutOrStdout(), challenge.Compute(cfg.Settings.Challenge, balance, now()))
	return nil
}

func runChallengeEnable(cmd *cobra.Command, args []string) error {
	s := cfg.Settings.Challenge
	if challengeTarget != "" {
		target, err := ledger.ParseAmount(challengeTarget)
		if err != nil {
			return fmt.Errorf("target: %w", err)
		}
		s.TargetBalance = target
	}
	if cmd.Flags().Changed("days") {
		s.DurationDays = challengeDays
	}
	if !s.TargetBalance.IsPositive() {
		return fmt.Errorf("a challenge needs a positive --target")
	}
	if s.DurationDays <= 0 {
		return fmt.Errorf("a challenge needs a positive --days")
	}

	balance, err := currentBalance(cmd)
	if err != nil {
		return err
	}
	cfg.Settings.Challenge = challenge.Enable(s, now(), balance)
	if err := saveChallenge(cfg.Settings.Challenge); err != nil {
		return err
	}

	started := cfg.Settings.Challenge
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Challenge running since %s at %s, target %s in %d days\n\n",
		started.StartDate, started.StartingBalance.StringFixed(2), started.TargetBalance.StringFixed(2), started.DurationDays)
	report.PrintChallenge(cmd.OutOrStdout(), challenge.Compute(cfg.Settings.Challenge, balance, now()))
	return nil
}

func runChallengeDisable(cmd *cobra.Command, args []string) error {
	cfg.Settings.Challenge = challenge.Disable(cfg.Settings.Challenge)
	if err := saveChallenge(cfg.Settings.Challenge); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Challenge disabled")
	return nil
}
