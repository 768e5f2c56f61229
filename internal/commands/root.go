package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute(version string) error {
	root := NewRootCmd(version)
	err := root.Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return err
}

// NewRootCmd builds the command tree. Configuration comes from the environment;
// the global flags override it.
func NewRootCmd(version string) *cobra.Command {
	rt := &runtime{version: version}

	root := &cobra.Command{
		Use:           "vanelux",
		Short:         "VaneLux authentication and booking service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd)
		},
	}

	root.PersistentFlags().String("store", "", "Storage backend: sqlite, supabase or mongo (default: $STORE_BACKEND)")
	root.PersistentFlags().String("db-path", "", "SQLite database file (default: $SQLITE_PATH)")
	root.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (default: $LOG_LEVEL)")

	root.AddCommand(newServeCmd(rt))
	root.AddCommand(newAccountCmd(rt))
	root.AddCommand(newSeedCmd(rt))
	root.AddCommand(newBookingsCmd(rt))
	root.AddCommand(newSchemaCmd(rt))
	root.AddCommand(newRemoteCmd(rt))

	return root
}

// printedError marks an error whose details were already written to the
// command's output.
type printedError struct {
	err error
}

func (e printedError) Error() string { return e.err.Error() }
func (e printedError) Unwrap() error { return e.err }
