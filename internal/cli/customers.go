package cli

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/example/store/internal/admin"
	"github.com/example/store/internal/services"
	"github.com/example/store/internal/utils"
)

func (a *app) customersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List, add and delete customers",
	}
	cmd.AddCommand(a.listCustomersCommand(), a.addCustomerCommand(), a.deleteCustomerCommand())
	return cmd
}

func (a *app) listCustomersCommand() *cobra.Command {
	var (
		search      string
		page, limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the customer change list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := admin.Customers.ChangeList(cmd.Context(), a.db, admin.Params{
				Search:     search,
				Pagination: utils.NewPagination(page, limit),
			})
			if err != nil {
				return err
			}
			return renderTable(a.out, list.Columns, list.Rows, list.Total)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "search name and email")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 100, "rows per page")
	return cmd
}

func (a *app) addCustomerCommand() *cobra.Command {
	var name, email, phone string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := services.CustomerInput{Name: name, Email: email}
			if phone != "" {
				in.PhoneNumber = &phone
			}

			customer, err := services.NewCustomerService(a.db).Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created customer %d: %s\n", customer.ID, customer)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "unique email address")
	cmd.Flags().StringVar(&phone, "phone", "", "optional phone number")
	return cmd
}

func (a *app) deleteCustomerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a customer and all of their orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			removed, err := services.NewCustomerService(a.db).Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted customer %d and %d order(s).\n", id, removed)
			return nil
		},
	}
}

func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Newf("invalid id %q", value)
	}
	return uint(id), nil
}
