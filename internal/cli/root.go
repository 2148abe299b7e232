package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd builds the command tree. Every call returns an independent
// tree with its own settings.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "volley",
		Short:   "Fire a whole collection of HTTP requests at once",
		Version: version,
		Long: `Volley runs every request of a Postman-style collection concurrently,
substituting {{placeholders}} from the environment and resolving collection,
folder or request level auth, then prints a per-request and aggregate report.`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the volley version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "volley version %s\n", version)
		},
	}
}

// Execute runs the root command with os.Args and prints any error to stderr.
// This is called by main.main().
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
