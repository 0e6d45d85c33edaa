package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/sltp/journal"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal as CSV or Org-mode",
	Long: `Export every journal entry, withdrawals included.

Examples:
  sltp export > journal.csv
  sltp export --format org --output journal.org`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import entries from a CSV export",
	Long: `Import entries from CSV with an id,pair,direction,pnl,fee,date,notes header.
Entries whose id already exists in the journal are skipped, so an export can
be imported again safely.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload entries recorded while the remote journal was unreachable",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(syncCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "csv or org")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "org" {
		return fmt.Errorf("unknown format %q (want csv or org)", exportFormat)
	}

	entries, err := loadEntries(cmd.Context())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}

	switch exportFormat {
	case "org":
		_, err = fmt.Fprintln(w, journal.FormatEntriesOrg(entries))
	default:
		err = journal.WriteCSV(w, entries)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	log.Info().Int("entries", len(entries)).Str("format", exportFormat).Msg("journal exported")
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	entries, err := journal.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	added, skipped, err := importEntries(ctx, s, entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d entries (%d already present)\n", added, skipped)
	return nil
}

func importEntries(ctx context.Context, s journal.Store, entries []ledger.Entry) (added, skipped int, err error) {
	for _, e := range entries {
		if e.ID != "" {
			_, err := s.GetEntry(ctx, e.ID)
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, journal.ErrNotFound) {
				return added, skipped, fmt.Errorf("look up %s: %w", e.ID, err)
			}
		}
		if _, err := s.AddEntry(ctx, e); err != nil {
			return added, skipped, fmt.Errorf("add %s on %s: %w", e.Pair, e.Date, err)
		}
		added++
	}
	return added, skipped, nil
}

type syncer interface {
	Sync(ctx context.Context) (int, error)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	rs, ok := s.(syncer)
	if !ok {
		return fmt.Errorf("journal type %q has nothing to sync (needs a reachable resilient journal)", cfg.Journal.Type)
	}
	n, err := rs.Sync(ctx)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Uploaded %d entries\n", n)
	return nil
}
