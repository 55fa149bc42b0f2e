package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/database"
	"github.com/fizato/federation/internal/mandate"
	"github.com/fizato/federation/internal/server"
)

// withMandates runs fn against the mandate service of the configured
// database and prints its result as JSON
func withMandates(cmd *cobra.Command, fn func(ctx context.Context, svc *mandate.Service) (any, error)) error {
	cfg := mustConfig(cmd)
	logger := commonRun(cfg)

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	svc := server.NewServices(db, cfg, clock.Real(), nil, logger)
	out, err := fn(cmd.Context(), svc.Mandates)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func mandateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mandate",
		Short: "Manage bureau mandates",
	}
	cmd.AddCommand(
		mandateCurrentCommand(),
		mandateHistoryCommand(),
		mandateTransitionCommand(),
		mandateEndCommand(),
		mandatePurgeCommand(),
	)
	// failures are reported by Execute, not with the usage text
	for _, sub := range cmd.Commands() {
		sub.SilenceUsage = true
	}
	return cmd
}

func mandateCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the mandate in progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMandates(cmd, func(ctx context.Context, svc *mandate.Service) (any, error) {
				m, err := svc.Current(ctx)
				if err != nil {
					return nil, err
				}
				return m.ToResponse(), nil
			})
		},
	}
}

func mandateHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print every mandate with its bureau and committee",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMandates(cmd, func(ctx context.Context, svc *mandate.Service) (any, error) {
				h, err := svc.History(ctx)
				if err != nil {
					return nil, err
				}
				return h.ToResponse(), nil
			})
		},
	}
}

func mandateTransitionCommand() *cobra.Command {
	var motif string
	cmd := &cobra.Command{
		Use:   "transition",
		Short: "Close the mandate in progress and open its successor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMandates(cmd, func(ctx context.Context, svc *mandate.Service) (any, error) {
				result, err := svc.Transition(ctx, motif)
				if err != nil {
					return nil, err
				}
				return result.ToResponse(), nil
			})
		},
	}
	cmd.Flags().StringVar(&motif, "motif", "", "reason recorded on the closed mandate")
	return cmd
}

func mandateEndCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "end <mandate-id>",
		Short: "End a mandate and archive the sitting bureau",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid mandate id %q", args[0])
			}
			return withMandates(cmd, func(ctx context.Context, svc *mandate.Service) (any, error) {
				result, err := svc.End(ctx, id)
				if err != nil {
					return nil, err
				}
				return &mandate.EndResponse{
					Mandate:        result.Mandate.ToResponse(),
					BureauArchived: result.BureauArchived,
				}, nil
			})
		},
	}
}

func mandatePurgeCommand() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every archived mandate with its bureau and committee",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMandates(cmd, func(ctx context.Context, svc *mandate.Service) (any, error) {
				if !confirmed {
					return nil, errors.New("purge deletes history for good, pass --yes to confirm")
				}
				return svc.PurgeHistory(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the purge")
	return cmd
}
