package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/database"
	"github.com/fizato/federation/internal/schema"
	"github.com/fizato/federation/internal/seed"
	"github.com/fizato/federation/internal/server"
)

func seedCommand() *cobra.Command {
	var fixtureFile string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the federation profile, office functions and first mandate",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustConfig(cmd)
			logger := commonRun(cfg)

			fixture, err := seed.Default()
			if fixtureFile != "" {
				fixture, err = seed.Load(fixtureFile)
			}
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}

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

			svc := server.NewServices(db, cfg, clock.Real(), nil, logger)
			_, err = fixture.Apply(cmd.Context(), seed.Services{
				Federation: svc.Federation,
				Bureau:     svc.Bureau,
				Mandates:   svc.Mandates,
			}, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVarP(&fixtureFile, "file", "f", "", "YAML fixture to load instead of the built-in one")
	return cmd
}
