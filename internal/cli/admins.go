package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/store/internal/services"
)

func (a *app) createAdminCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "createadmin",
		Short: "Create an admin account for the HTTP admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := services.NewAdminService(a.db).Create(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Admin %q created.\n", created.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
