package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/buildinfo"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	dir      string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal finance tracker",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "data directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides the config file")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAccountCommand(opts),
		newTxnCommand(opts),
		newCheckCommand(opts),
		newFeesCommand(opts),
		newReportCommand(opts),
		newStatementCommand(opts),
		newImportCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
