package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/skyhook-sim/internal/config"
	"github.com/rewired-gh/skyhook-sim/internal/logger"
	"github.com/rewired-gh/skyhook-sim/internal/models"
	"github.com/rewired-gh/skyhook-sim/internal/storage"
	"github.com/rewired-gh/skyhook-sim/internal/telegram"
	"github.com/rewired-gh/skyhook-sim/internal/universe"
)

var version = "0.1.0-dev"

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	configPath string
	jsonOut    bool
	cfg        *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "skyhook-sim",
		Short: "Skyhook vulnerability-window exposure simulator",
		Long: `skyhook-sim estimates how many recurring vulnerability windows are open
at each hour of a multi-day horizon, and how many jumps separate a random
system from the nearest vulnerable one.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.cfg = cfg
			logger.Init(cfg.Logging.Level, cfg.Logging.Format)
			if a.configPath != "" {
				logger.Debug("Configuration loaded from %s", a.configPath)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to configuration file (defaults and SKYHOOK_SIM_* env when empty)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(a),
		newExposureCmd(a),
		newDailyCmd(a),
		newReachCmd(a),
		newUniverseCmd(a),
		newServeCmd(a),
	)

	return rootCmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "skyhook-sim version %s\n", version)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// loadGraph reads the universe from the SQLite store when storage is enabled,
// otherwise from the configured systems and connections files.
func (a *app) loadGraph(ctx context.Context) (*universe.Graph, error) {
	if a.cfg.Storage.Enabled {
		store, err := storage.New(a.cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open universe store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close storage: %v", err)
			}
		}()
		g, err := store.LoadGraph(ctx, a.cfg.Universe.SecurityStatus)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded universe from %s: %d systems, %d nodes, %d edges",
			a.cfg.Storage.DBPath, g.SystemCount(), g.Len(), g.EdgeCount())
		return g, nil
	}

	g, err := universe.LoadFiles(a.cfg.Universe.SystemsFile, a.cfg.Universe.ConnectionsFile, universe.BuildOptions{
		Include:   universe.SecurityIs(a.cfg.Universe.SecurityStatus),
		Delimiter: a.cfg.Universe.JumpDelimiter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load universe files: %w", err)
	}
	logger.Info("Loaded universe from files: %d systems, %d nodes, %d edges",
		g.SystemCount(), g.Len(), g.EdgeCount())
	return g, nil
}

// notify sends a run summary when Telegram is enabled. Delivery failures are
// logged and never fail the run.
func (a *app) notify(summary *models.RunSummary) {
	if !a.cfg.Telegram.Enabled {
		logger.Debug("Telegram notifications disabled")
		return
	}
	client, err := telegram.NewClient(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Telegram.MaxRetries, a.cfg.Telegram.RetryDelayBase)
	if err != nil {
		logger.Warn("Failed to initialize Telegram client: %v", err)
		return
	}
	if err := client.Send(summary); err != nil {
		logger.Warn("Failed to send Telegram notification: %v", err)
		return
	}
	logger.Info("Run summary sent to Telegram")
}
