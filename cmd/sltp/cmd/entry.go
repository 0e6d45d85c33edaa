package cmd

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/sltp/journal"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/report"
	"github.com/rustyeddy/sltp/risk"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a closed trade",
	Long: `Record a closed trade and show where the day stands against its limits.

Amounts accept simple sums, so partial closes can be entered as they happened.

Examples:
  sltp add --pair BTC/USD --pnl 150 --fee 2.5
  sltp add --pair ETH/USD --direction short --pnl "-40+12.5" --date 2025-12-02`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <amount>",
	Short: "Record a withdrawal from the account",
	Args:  cobra.ExactArgs(1),
	RunE:  runWithdraw,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete a journal entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries",
	Long: `List journal entries, optionally limited to an inclusive date range.

Examples:
  sltp list
  sltp list --from 2025-12-01 --to 2025-12-31 --org`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	addPair      string
	addDirection string
	addPnL       string
	addFee       string
	addDate      string
	addNotes     string

	withdrawDate  string
	withdrawNotes string

	listFrom string
	listTo   string
	listOrg  bool
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)

	addCmd.Flags().StringVarP(&addPair, "pair", "p", "", "traded pair, e.g. BTC/USD (required)")
	addCmd.Flags().StringVar(&addDirection, "direction", string(ledger.Long), "long or short")
	addCmd.Flags().StringVar(&addPnL, "pnl", "", "realized P&L, e.g. 150 or 100+50 (required)")
	addCmd.Flags().StringVar(&addFee, "fee", "0", "fees paid")
	addCmd.Flags().StringVar(&addDate, "date", "", "trade date YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes")
	addCmd.MarkFlagRequired("pair")
	addCmd.MarkFlagRequired("pnl")

	withdrawCmd.Flags().StringVar(&withdrawDate, "date", "", "withdrawal date YYYY-MM-DD (default today)")
	withdrawCmd.Flags().StringVar(&withdrawNotes, "notes", "", "free-form notes")

	listCmd.Flags().StringVar(&listFrom, "from", "", "first date to include")
	listCmd.Flags().StringVar(&listTo, "to", "", "last date to include")
	listCmd.Flags().BoolVar(&listOrg, "org", false, "print as Org-mode headings")
}

func dateOrToday(s string) string {
	if s == "" {
		return ledger.FormatDate(now())
	}
	return s
}

func runAdd(cmd *cobra.Command, args []string) error {
	pnl, err := ledger.ParseAmount(addPnL)
	if err != nil {
		return fmt.Errorf("pnl: %w", err)
	}
	fee, err := ledger.ParseAmount(addFee)
	if err != nil {
		return fmt.Errorf("fee: %w", err)
	}

	pair := strings.ToUpper(strings.TrimSpace(addPair))
	if pair == ledger.Withdrawal {
		return fmt.Errorf("use 'sltp withdraw' to record a withdrawal")
	}
	if !cfg.Settings.HasPair(pair) {
		log.Warn().Str("pair", pair).Msg("pair is not in the configured list")
	}

	e := ledger.Entry{
		Pair:      pair,
		Direction: ledger.Direction(strings.ToLower(addDirection)),
		PnL:       pnl,
		Fee:       fee,
		Date:      dateOrToday(addDate),
		Notes:     addNotes,
	}

	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	saved, err := s.AddEntry(ctx, e)
	if err != nil {
		return fmt.Errorf("add entry: %w", err)
	}
	log.Debug().Str("id", saved.ID).Msg("entry added")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Added %s %s %s on %s (%s)\n\n",
		saved.Pair, saved.Direction, report.Money(saved.NetPnL()), saved.Date, saved.ID)

	entries, err := s.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	res := cfg.Settings.Policy().Day(entries, saved.Date)
	trades, _ := ledger.Partition(entries, saved.Date)
	report.PrintDay(out, res, risk.Evaluate(res), trades)
	return nil
}

func runWithdraw(cmd *cobra.Command, args []string) error {
	amount, err := ledger.ParseAmount(args[0])
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if amount.IsZero() {
		return fmt.Errorf("amount must not be zero")
	}

	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	saved, err := s.AddEntry(ctx, ledger.NewWithdrawal(amount, dateOrToday(withdrawDate), withdrawNotes))
	if err != nil {
		return fmt.Errorf("add withdrawal: %w", err)
	}

	entries, err := s.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Withdrew %s on %s (%s)\n", saved.PnL.Abs().StringFixed(2), saved.Date, saved.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "  Balance: %s\n",
		ledger.CurrentBalance(cfg.Settings.BeginningBalance, entries).StringFixed(2))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteEntry(ctx, args[0]); err != nil {
		return fmt.Errorf("delete %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	var entries []ledger.Entry
	if listFrom == "" && listTo == "" {
		entries, err = s.ListEntries(ctx)
	} else {
		var from, to string
		from, to, err = inclusiveRange(listFrom, listTo)
		if err != nil {
			return err
		}
		entries, err = s.ListEntriesBetween(ctx, from, to)
	}
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	if listOrg {
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatEntriesOrg(entries))
		return nil
	}
	report.PrintEntries(cmd.OutOrStdout(), entries)
	return nil
}

// inclusiveRange turns optional from/to days into the store's half-open
// window.
func inclusiveRange(from, to string) (string, string, error) {
	if from == "" {
		from = "0000-01-01"
	} else if _, err := ledger.ParseDate(from); err != nil {
		return "", "", fmt.Errorf("from: %w", err)
	}

	end := "9999-12-31"
	if to != "" {
		t, err := ledger.ParseDate(to)
		if err != nil {
			return "", "", fmt.Errorf("to: %w", err)
		}
		end = ledger.FormatDate(t.AddDate(0, 0, 1))
	}
	return from, end, nil
}
