package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/auditlog"
)

func newLogCommand(opts *globalOptions) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := auditlog.Read(opts.dir)
			if err != nil {
				return err
			}
			if account != "" {
				entries = auditlog.ForAccount(entries, account)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "TIME\tACTION\tACCOUNT\tTRANSACTION\tCOMMIT\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.AccountID, e.TransactionID, e.CommitHash, e.Details)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "only entries for this account")
	return cmd
}
