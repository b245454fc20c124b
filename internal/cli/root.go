// Package cli implements the storeadmin command line.
package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/example/store/internal/admin"
	"github.com/example/store/internal/config"
	"github.com/example/store/internal/database"
)

// Opener returns the database the commands work on.
type Opener func() (*gorm.DB, error)

// OpenFromEnv opens the database named by DATABASE_URL.
func OpenFromEnv() (*gorm.DB, error) {
	cfg := config.LoadDatabase()
	return database.Open(cfg.DatabaseURL, cfg.DBLogLevel)
}

type app struct {
	open Opener
	db   *gorm.DB
	out  io.Writer
}

// NewRootCommand builds the storeadmin command tree writing results to out.
func NewRootCommand(open Opener, out io.Writer) *cobra.Command {
	a := &app{open: open, out: out}

	root := &cobra.Command{
		Use:          "storeadmin",
		Short:        "Administer store customers and orders",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			a.db = db
			return nil
		},
	}
	root.SetOut(out)

	root.AddCommand(
		a.migrateCommand(),
		a.createAdminCommand(),
		a.customersCommand(),
		a.ordersCommand(),
	)
	return root
}

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(a.db); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Migrations applied.")
			return nil
		},
	}
}

// renderTable prints change-list rows under their column labels.
func renderTable(out io.Writer, columns []admin.ColumnMeta, rows []admin.Row, total int64) error {
	table := tablewriter.NewWriter(out)

	headers := make([]any, 0, len(columns))
	for _, column := range columns {
		headers = append(headers, column.Label)
	}
	table.Header(headers...)

	for _, row := range rows {
		if err := table.Append(row.Values); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "%d of %d shown\n", len(rows), total)
	return err
}
