package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/ledger"
	"github.com/cleared-dev/fintrack/internal/model"
)

func newStatementCommand(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "statement <account-id>",
		Short: "Print an account statement",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			a, err := w.tracker.Account(args[0])
			if err != nil {
				return err
			}
			r, err := parseRange(from, to)
			if err != nil {
				return err
			}
			var dr model.DateRange
			if r != nil {
				dr = *r
			}
			return printStatement(cmd.OutOrStdout(), ledger.NewStatement(a, dr))
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	return cmd
}

func printStatement(out io.Writer, st ledger.Statement) error {
	period := "all activity"
	switch {
	case !st.Range.From.IsZero() && !st.Range.To.IsZero():
		period = day(st.Range.From) + " to " + day(st.Range.To)
	case !st.Range.From.IsZero():
		period = "from " + day(st.Range.From)
	case !st.Range.To.IsZero():
		period = "through " + day(st.Range.To)
	}

	fmt.Fprintf(out, "Statement for %s %q (%s)\n", st.AccountID, st.Name, st.Kind)
	fmt.Fprintf(out, "Owner: %s\n", st.Owner)
	fmt.Fprintf(out, "Period: %s\n\n", period)

	tw := newTable(out)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tCATEGORY\tAMOUNT\tBALANCE")
	fmt.Fprintf(tw, "\tOpening balance\t\t\t%s\n", money(st.OpeningBalance))
	for _, l := range st.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			day(l.Transaction.Date), l.Transaction.Description, l.Transaction.Category,
			money(l.Transaction.Amount), money(l.Balance))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nCredits: %s\n", money(st.TotalCredits))
	fmt.Fprintf(out, "Debits: %s\n", money(st.TotalDebits))
	fmt.Fprintf(out, "Closing balance: %s\n", money(st.ClosingBalance))
	fmt.Fprintf(out, "Available funds: %s\n", money(st.AvailableFunds))
	return nil
}
