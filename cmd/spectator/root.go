package main

import (
	"fmt"
	"log/slog"

	"github.com/rpggio/spectator/internal/app"
	"github.com/rpggio/spectator/internal/config"
	"github.com/rpggio/spectator/internal/sqlite"
	"github.com/spf13/cobra"
)

// cliEnv is the configuration and logger shared by every subcommand.
type cliEnv struct {
	cfg      config.Config
	logger   *slog.Logger
	closeLog func()
}

// newRootCmd creates the spectator command tree.
func newRootCmd(ver string) *cobra.Command {
	rt := &cliEnv{}

	cmd := &cobra.Command{
		Use:           "spectator",
		Short:         "Catalogue of creators, reading and events",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadFile(path)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if level, _ := cmd.Flags().GetString("log-level"); level != "" {
				cfg.Log.Level = level
			}
			logger, closeLog, err := newLogger(cfg.Log.Level, cfg.Log.Path)
			if err != nil {
				return fmt.Errorf("log file error: %w", err)
			}
			rt.cfg, rt.logger, rt.closeLog = cfg, logger, closeLog
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if rt.closeLog != nil {
				rt.closeLog()
			}
		},
	}

	cmd.PersistentFlags().String("config", "", "YAML config file (default $SPECTATOR_CONFIG_PATH)")
	cmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	cmd.AddCommand(
		newServeCmd(rt, ver),
		newMCPCmd(rt, ver),
		newMigrateCmd(rt),
		newResortCmd(rt),
		newExportCmd(rt),
		newSortKeyCmd(),
		newAPIKeyCmd(rt),
	)
	return cmd
}

// openApp opens and migrates the configured database.
func (rt *cliEnv) openApp() (*app.App, func(), error) {
	if err := ensureDir(rt.cfg.DB.Path); err != nil {
		return nil, nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	db, err := sqlite.New(rt.cfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	a := app.New(db, app.Options{
		Policy:     rt.cfg.Pagination,
		MapsAPIKey: rt.cfg.Maps.APIKey,
	}, rt.logger)
	return a, func() { db.Close() }, nil
}
