package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fizato/federation/internal/database"
	"github.com/fizato/federation/internal/schema"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustConfig(cmd)
			logger := commonRun(cfg)

			db, err := openDatabase(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer database.Close(db)

			if err := schema.Migrate(db); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			logger.Info("schema migrated", "component", programName)
		},
	}
}
