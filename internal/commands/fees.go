package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/auditlog"
	"github.com/cleared-dev/fintrack/internal/tracker"
)

func newFeesCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Monthly fees and interest",
	}
	cmd.AddCommand(newFeesApplyCommand(opts))
	return cmd
}

func newFeesApplyCommand(opts *globalOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Post this month's fees and interest on every account",
		Args:  cobra.NoArgs,
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, _ []string) error {
			on, err := parseDay("date", date)
			if err != nil {
				return err
			}
			results, err := w.tracker.ApplyMonthlyFees(on)
			if err != nil {
				return err
			}

			var entries []auditlog.Entry
			for _, r := range results {
				if r.Amount.IsZero() {
					continue
				}
				entries = append(entries, auditlog.Entry{
					Action:    auditlog.ActionApplyFees,
					AccountID: r.AccountID,
					Details:   fmt.Sprintf("%s %s", feeEffect(r), money(r.Amount.Abs())),
				})
			}
			if err := w.commit("fees: apply "+on.Format("2006-01"), entries...); err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ACCOUNT\tKIND\tEFFECT\tAMOUNT")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.AccountID, r.Kind, feeEffect(r), money(r.Amount.Abs()))
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "posting date as YYYY-MM-DD, defaults to today")
	return cmd
}

func feeEffect(r tracker.FeeResult) string {
	switch {
	case r.Amount.IsPositive():
		return "charged"
	case r.Amount.IsNegative():
		return "earned"
	}
	return "none"
}
