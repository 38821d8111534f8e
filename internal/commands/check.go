package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/auditlog"
)

func newCheckCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Write checks on checking accounts",
	}
	cmd.AddCommand(newCheckWriteCommand(opts))
	return cmd
}

func newCheckWriteCommand(opts *globalOptions) *cobra.Command {
	var number int
	var amount, payee, date string

	cmd := &cobra.Command{
		Use:   "write <account-id>",
		Short: "Write a numbered check",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			on, err := parseDay("date", date)
			if err != nil {
				return err
			}
			tx, err := w.tracker.WriteCheck(args[0], number, amt, payee, on)
			if err != nil {
				return err
			}
			err = w.commit(fmt.Sprintf("check: %s #%d %s", tx.AccountID, number, money(amt)), auditlog.Entry{
				Action:        auditlog.ActionWriteCheck,
				AccountID:     tx.AccountID,
				TransactionID: tx.ID,
				Details:       tx.Description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote check #%d for %s to %s\n", number, money(amt), payee)
			return nil
		}),
	}

	fl := cmd.Flags()
	fl.IntVar(&number, "number", 0, "check number (required)")
	fl.StringVar(&amount, "amount", "", "check amount (required)")
	fl.StringVar(&payee, "payee", "", "pay to the order of (required)")
	fl.StringVar(&date, "date", "", "date as YYYY-MM-DD, defaults to today")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("payee")

	return cmd
}
