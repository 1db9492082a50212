package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipment-portal/seeders"
)

func newSeedCmd(loggerFor func() *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo categories and equipment (repeatable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd.Context(), loggerFor(), func(e *env) error {
				result, err := seeders.SeedInventory(cmd.Context(), e.svc.Equipment, e.logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d equipment items\n", result.Categories, result.Equipment)
				return nil
			})
		},
	}
}
