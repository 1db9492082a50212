package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipment-portal/internal/services"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/config"
	applogger "equipment-portal/pkg/logger"
)

// env is what every subcommand runs against.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage *store.Store
	svc     *services.Services
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operator tooling for the equipment portal record store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stdout and ./logs/app.log")

	loggerFor := func() *zap.Logger {
		if verbose {
			return applogger.NewLogger("debug")
		}
		return zap.NewNop()
	}

	root.AddCommand(
		newSeedCmd(loggerFor),
		newImportCmd(loggerFor),
		newMigrateCmd(loggerFor),
		newTokenCmd(),
		newReservationCmd(loggerFor),
		newNotificationsCmd(loggerFor),
	)
	return root
}

// withEnv opens the configured store for the duration of fn.
func withEnv(ctx context.Context, logger *zap.Logger, fn func(e *env) error) error {
	cfg := config.New()
	storage, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Error("close store", zap.Error(err))
		}
	}()

	technicians := services.NewRosterDirectory(cfg.Workflow.TechnicianIDs)
	return fn(&env{
		cfg:     cfg,
		logger:  logger,
		storage: storage,
		svc:     services.NewServices(storage, nil, technicians, logger),
	})
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
