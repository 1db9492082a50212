package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipment-portal/internal/store"
	"equipment-portal/pkg/config"
	"equipment-portal/pkg/database/postgresql"
)

func newMigrateCmd(loggerFor func() *zap.Logger) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres record store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				dsn = config.New().Store.PostgresDSN
			}
			pool, err := postgresql.ConnectDB(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			loggerFor().Info("postgres schema is up to date")
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "postgres DSN (defaults to DATABASE_URL)")
	return cmd
}
