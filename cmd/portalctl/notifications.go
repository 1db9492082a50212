package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipment-portal/internal/entities"
	"equipment-portal/pkg/constants"
)

func newNotificationsCmd(loggerFor func() *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Inspect notifications",
	}

	var (
		userID     uint64
		role       string
		filterArgs []string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications visible to a user, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filterFromArgs(filterArgs)
			if err != nil {
				return err
			}
			return withEnv(cmd.Context(), loggerFor(), func(e *env) error {
				actor := entities.Actor{UserID: userID, Role: role}
				items, _, err := e.svc.Notifications.GetNotifications(cmd.Context(), actor, filter)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), items)
			})
		},
	}
	list.Flags().Uint64Var(&userID, "user", 0, "recipient user id")
	list.Flags().StringVar(&role, "role", constants.RoleUser, "recipient role")
	list.Flags().StringArrayVar(&filterArgs, "filter", nil, "field=value, e.g. is_read=false or type=task_assigned")
	_ = list.MarkFlagRequired("user")

	cmd.AddCommand(list)
	return cmd
}
