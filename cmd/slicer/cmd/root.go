package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/slicingpie/config"
	"github.com/rustyeddy/slicingpie/ledger"
)

var rootCmd = &cobra.Command{
	Use:   "slicer",
	Short: "Track founder contributions and split equity with the Slicing Pie model",
	Long: `Slicer keeps a ledger of what each founder puts into a company and
turns it into slices of a dynamic equity pie.

Contributions are weighted per category:
  - Cash, expenses and revenue at their multiplier
  - Time at the gap between market and paid salary
  - Intellectual property as a fixed percentage of the pie at grant time

Every entry freezes the founder's salaries and the category multiplier
in force when it was recorded, so later changes never rewrite history.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile  string
	dbPath   string
	logLevel string
	memory   bool

	cfg *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite ledger DB (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&memory, "memory", false, "use a throwaway in-memory ledger")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	if dbPath != "" {
		cfg.Ledger = config.LedgerConfig{Type: "sqlite", DBPath: dbPath}
	}
	if memory {
		cfg.Ledger = config.LedgerConfig{Type: "memory"}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return setupLogging(cfg.Log)
}

func setupLogging(lc config.LogConfig) error {
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	if lc.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return nil
}

// openBook opens the configured ledger, seeding categories and any
// founders listed in the config that the store does not know yet.
func openBook(ctx context.Context) (*ledger.Book, error) {
	var store ledger.Store
	switch cfg.Ledger.Type {
	case "memory":
		store = ledger.NewMemory()
	default:
		s, err := ledger.NewSQLite(cfg.Ledger.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		store = s
	}

	book, err := ledger.Open(ctx, store, cfg.Engine,
		ledger.WithCategories(cfg.ApplyCategories()),
		ledger.WithLogger(log.Logger),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	for _, f := range cfg.Founders {
		created, err := book.EnsureFounder(ctx, f)
		if err != nil {
			book.Close()
			return nil, fmt.Errorf("seed founder %s: %w", f.ID, err)
		}
		if created {
			log.Debug().Str("founder", f.ID).Msg("founder added from config")
		}
	}
	return book, nil
}
