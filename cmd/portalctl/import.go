package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipment-portal/internal/entities"
)

func newImportCmd(loggerFor func() *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.xlsx",
		Short: "Create or update equipment from a spreadsheet",
		Long: "Reads the first sheet with a header row naming at least Name and Category or Quantity.\n" +
			"Rows are matched to existing equipment by name. Unknown categories are created.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withEnv(cmd.Context(), loggerFor(), func(e *env) error {
				result, err := e.svc.Importer.Import(cmd.Context(), entities.System(), f)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
}
