package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/sltp/challenge"
	"github.com/rustyeddy/sltp/config"
	"github.com/rustyeddy/sltp/internal/logging"
	"github.com/rustyeddy/sltp/journal"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sltp",
	Short: "A trading journal that measures every day in risk units",
	Long: `sltp keeps a journal of closed trades and withdrawals and reports on them.

It provides tools for:
  - Recording trades and withdrawals
  - Daily take-profit and stop-loss checks measured in R (1% of balance)
  - Monthly roll-ups and a P&L calendar
  - Trading statistics and symbol attribution
  - Tracking a balance growth challenge
  - Exporting the journal to CSV or Org-mode

Configuration is read from sltp.yaml (or --config) and SLTP_* environment
variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger

	// now is replaced in tests
	now = time.Now
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "sltp.yaml", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

// setup loads the config before every command. A missing default config file
// is not an error; defaults and the environment apply.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		path = ""
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}

	cfg = c
	log = logging.NewWithWriter(c.Log, cmd.ErrOrStderr())
	return nil
}

func openStore(ctx context.Context) (journal.Store, error) {
	s, err := journal.Open(ctx, cfg.Journal, log)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return s, nil
}

// loadEntries returns a snapshot of the whole journal.
func loadEntries(ctx context.Context) ([]ledger.Entry, error) {
	s, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	entries, err := s.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// saveChallenge persists challenge settings. It rewrites the file as it is
// on disk, not cfg, so environment and flag overrides never get saved.
func saveChallenge(ch challenge.Settings) error {
	onDisk := config.Default()
	if _, err := os.Stat(configPath); err == nil {
		onDisk, err = config.LoadFromFile(configPath)
		if err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	onDisk.Settings.Challenge = ch
	if err := onDisk.Validate(); err != nil {
		return err
	}
	if err := onDisk.SaveToFile(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
