package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipment-portal/internal/dto"
	"equipment-portal/internal/entities"
)

func newReservationCmd(loggerFor func() *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservation",
		Short: "Run reservation transitions as the system operator",
	}

	activate := &cobra.Command{
		Use:   "activate ID",
		Short: "Hand out an approved reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), loggerFor(), func(e *env) error {
				res, err := e.svc.Reservations.ActivateReservation(cmd.Context(), entities.System(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	complete := &cobra.Command{
		Use:   "complete ID",
		Short: "Record the return of an active reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), loggerFor(), func(e *env) error {
				res, err := e.svc.Reservations.CompleteReservation(cmd.Context(), entities.System(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	var status, note string
	force := &cobra.Command{
		Use:   "force ID",
		Short: "Force a reservation into a status, bypassing the guarded transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), loggerFor(), func(e *env) error {
				res, err := e.svc.Reservations.UpdateReservationStatus(cmd.Context(), entities.System(), args[0],
					dto.UpdateReservationStatusDTO{Status: status, Note: note})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	force.Flags().StringVar(&status, "status", "", "target status")
	force.Flags().StringVar(&note, "note", "forced by operator", "history note")
	_ = force.MarkFlagRequired("status")

	var filterArgs []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List reservations, e.g. --filter status=approved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filterFromArgs(filterArgs)
			if err != nil {
				return err
			}
			return withEnv(cmd.Context(), loggerFor(), func(e *env) error {
				items, _, err := e.svc.Reservations.GetReservations(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), items)
			})
		},
	}
	list.Flags().StringArrayVar(&filterArgs, "filter", nil, "field=value, repeatable")

	cmd.AddCommand(activate, complete, force, list)
	return cmd
}
