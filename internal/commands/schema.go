package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Elking123mi/vanelux-web/internal/infrastructure/db/sqlite"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/store"
	"github.com/Elking123mi/vanelux-web/internal/report"
)

func newSchemaCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [table...]",
		Short: "Show the embedded store's tables, columns and row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withStore(cmd.Context(), func(b *store.Backend) error {
				if b.SQL == nil {
					return errors.New("schema inspection needs the sqlite backend")
				}

				version, err := sqlite.SchemaVersion(b.SQL)
				if err != nil {
					return err
				}
				tables, err := sqlite.NewInspector(b.SQL).Describe(cmd.Context(), args...)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n\n", version)
				return report.New(cmd.OutOrStdout()).Tables(tables)
			})
		},
	}
}
