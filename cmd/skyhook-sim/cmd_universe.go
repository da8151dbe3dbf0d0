package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rewired-gh/skyhook-sim/internal/logger"
	"github.com/rewired-gh/skyhook-sim/internal/storage"
	"github.com/rewired-gh/skyhook-sim/internal/universe"
)

func newUniverseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "universe",
		Short: "Manage the universe store of systems and jump connections",
	}
	cmd.AddCommand(newUniverseImportCmd(a), newUniverseInfoCmd(a))
	return cmd
}

func newUniverseImportCmd(a *app) *cobra.Command {
	var (
		systemsFile     string
		connectionsFile string
		dbPath          string
		replace         bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import systems and connections files into the SQLite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if systemsFile == "" {
				systemsFile = a.cfg.Universe.SystemsFile
			}
			if connectionsFile == "" {
				connectionsFile = a.cfg.Universe.ConnectionsFile
			}
			if dbPath == "" {
				dbPath = a.cfg.Storage.DBPath
			}
			ctx := cmd.Context()

			systems, err := universe.ReadSystemsFile(systemsFile)
			if err != nil {
				return err
			}
			connections, err := universe.ReadConnectionsFile(connectionsFile)
			if err != nil {
				return err
			}

			store, err := storage.New(dbPath)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Error("Failed to close storage: %v", err)
				}
			}()

			if replace {
				if err := store.Clear(ctx); err != nil {
					return err
				}
			}

			nSystems, err := store.ImportSystems(ctx, systems)
			if err != nil {
				return err
			}
			nEdges, err := store.ImportConnections(ctx, connections, a.cfg.Universe.JumpDelimiter)
			if err != nil {
				return err
			}
			logger.Info("Imported %d systems and %d jump edges into %s", nSystems, nEdges, dbPath)

			counts, err := store.Counts(ctx)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), counts)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store %s now holds %s systems and %s connections\n",
				dbPath, humanize.Comma(int64(counts.Systems)), humanize.Comma(int64(counts.Connections)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&systemsFile, "systems", "", "Systems file (JSON or YAML); defaults to universe.systems_file")
	flags.StringVar(&connectionsFile, "connections", "", "Connections file (JSON or YAML); defaults to universe.connections_file")
	flags.StringVar(&dbPath, "db", "", "Database path; defaults to storage.db_path")
	flags.BoolVar(&replace, "replace", false, "Clear the store before importing")
	return cmd
}

func newUniverseInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the universe graph that simulations will use",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGraph(cmd.Context())
			if err != nil {
				return err
			}
			info := map[string]int{
				"systems": g.SystemCount(),
				"nodes":   g.Len(),
				"edges":   g.EdgeCount(),
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Candidate systems: %s\nTraversable nodes: %s\nJump edges:        %s\n",
				humanize.Comma(int64(info["systems"])), humanize.Comma(int64(info["nodes"])), humanize.Comma(int64(info["edges"])))
			return nil
		},
	}
}
