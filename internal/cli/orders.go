package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/example/store/internal/admin"
	"github.com/example/store/internal/models"
	"github.com/example/store/internal/services"
	"github.com/example/store/internal/utils"
)

func (a *app) ordersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, add and update orders",
	}
	cmd.AddCommand(a.listOrdersCommand(), a.addOrderCommand(), a.setStatusCommand())
	return cmd
}

func (a *app) listOrdersCommand() *cobra.Command {
	var (
		status, date, from, to string
		page, limit            int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the order change list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := map[string]string{}
			for key, value := range map[string]string{
				"status__exact":   status,
				"order_date":      date,
				"order_date__gte": from,
				"order_date__lt":  to,
			} {
				if value != "" {
					filters[key] = value
				}
			}

			list, err := admin.Orders.ChangeList(cmd.Context(), a.db, admin.Params{
				Filters:    filters,
				Pagination: utils.NewPagination(page, limit),
			})
			if err != nil {
				return err
			}
			return renderTable(a.out, list.Columns, list.Rows, list.Total)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only orders with this status")
	cmd.Flags().StringVar(&date, "date", "", "today, past_7_days, this_month or this_year")
	cmd.Flags().StringVar(&from, "from", "", "orders placed at or after this date")
	cmd.Flags().StringVar(&to, "to", "", "orders placed before this date")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 100, "rows per page")
	return cmd
}

func (a *app) addOrderCommand() *cobra.Command {
	var (
		customerID uint
		amount     string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Place an order for a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := services.OrderInput{CustomerID: customerID, Status: models.OrderStatus(status)}
			if amount != "" {
				total, err := decimal.NewFromString(amount)
				if err != nil {
					return errors.Newf("invalid amount %q", amount)
				}
				in.TotalAmount = &total
			}

			order, err := services.NewOrderService(a.db).Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %s (%s, %s).\n", order, order.TotalAmount.StringFixed(2), order.Status)
			return nil
		},
	}

	cmd.Flags().UintVar(&customerID, "customer", 0, "customer id")
	cmd.Flags().StringVar(&amount, "amount", "", "total amount, e.g. 19.99")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default pending)")
	return cmd
}

func (a *app) setStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status ID STATUS",
		Short: "Set the status of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			order, err := services.NewOrderService(a.db).SetStatus(cmd.Context(), id, models.OrderStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s is now %s.\n", order, order.Status.Label())
			return nil
		},
	}
}
