package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/model"
	"github.com/cleared-dev/fintrack/internal/tracker"
)

func newReportCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Balances, summaries and spending analysis",
	}
	cmd.AddCommand(
		newReportBalanceCommand(opts),
		newReportSummaryCommand(opts),
		newReportSpendCommand(opts),
		newReportSubscriptionsCommand(opts),
		newReportCategoryCommand(opts),
	)
	return cmd
}

func newReportBalanceCommand(opts *globalOptions) *cobra.Command {
	var available bool

	cmd := &cobra.Command{
		Use:   "balance [account-id...]",
		Short: "Total balance across accounts",
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			m, label := tracker.MeasureBalance, "Total balance"
			if available {
				m, label = tracker.MeasureAvailableFunds, "Total available"
			}
			total, err := w.tracker.TotalBalance(m, args...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", label, money(total))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&available, "available", false, "sum available funds instead of balances")
	return cmd
}

func newReportSummaryCommand(opts *globalOptions) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "summary <account-id>",
		Short: "Totals per category for each week or month",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			g, err := model.ParseGranularity(by)
			if err != nil {
				return err
			}
			rows, err := w.tracker.PeriodSummary(args[0], g)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "PERIOD\tCATEGORY\tCOUNT\tTOTAL")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Period.Label(), r.Category, r.Count, money(r.Total))
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&by, "by", string(model.Monthly), "week or month")
	return cmd
}

func newReportSpendCommand(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "spend <account-id>",
		Short: "Spending per month and the monthly average",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			r, err := parseRange(from, to)
			if err != nil {
				return err
			}
			months, err := w.tracker.MonthlySpending(args[0], r)
			if err != nil {
				return err
			}
			avg, err := w.tracker.AverageMonthlySpend(args[0], r)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "MONTH\tSPENT")
			for _, m := range months {
				fmt.Fprintf(tw, "%s\t%s\n", m.Month.Label(), money(m.Total))
			}
			fmt.Fprintf(tw, "Average\t%s\n", money(avg))
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	return cmd
}

func newReportSubscriptionsCommand(opts *globalOptions) *cobra.Command {
	var tolerance string

	cmd := &cobra.Command{
		Use:   "subscriptions <account-id>",
		Short: "Detect recurring charges",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			tol, err := w.cfg.Tolerance()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tolerance") {
				if tol, err = parseAmount("tolerance", tolerance); err != nil {
					return err
				}
			}
			subs, err := w.tracker.IdentifySubscriptions(args[0], tol)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recurring charges found")
				return nil
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "KEY\tCATEGORY\tCADENCE\tAMOUNT\tCOUNT\tFIRST\tLAST")
			for _, s := range subs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					s.Key, s.Category, s.Cadence, money(s.Amount), len(s.Transactions), day(s.First), day(s.Last))
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&tolerance, "tolerance", "", "amount tolerance, defaults to the configured value")
	return cmd
}

func newReportCategoryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "category <category>",
		Short: "Transactions of one category across all accounts",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			c, err := model.ParseCategory(args[0])
			if err != nil {
				return err
			}
			return printTransactions(cmd.OutOrStdout(), w.tracker.TransactionsByCategory(c))
		}),
	}
}
