package commands

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/auditlog"
	"github.com/cleared-dev/fintrack/internal/id"
	"github.com/cleared-dev/fintrack/internal/journal"
	"github.com/cleared-dev/fintrack/internal/ledger"
	"github.com/cleared-dev/fintrack/internal/model"
)

func newTxnCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Record and list transactions",
	}
	cmd.AddCommand(newTxnAddCommand(opts), newTxnListCommand(opts))
	return cmd
}

func newTxnAddCommand(opts *globalOptions) *cobra.Command {
	var rec journal.Record

	cmd := &cobra.Command{
		Use:   "add <account-id>",
		Short: "Record a debit or credit",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			rec.AccountID = args[0]
			if rec.ID == "" {
				rec.ID = id.NewTransactionID()
			}
			if rec.Date == "" {
				rec.Date = day(time.Now())
			}
			allowed, err := w.cfg.AllowedCategories()
			if err != nil {
				return err
			}

			tx, errs := journal.ValidateRecord(rec, trackerAccounts{w.tracker}, journal.Policy{
				Categories: allowed,
				Now:        time.Now,
			})
			if err := journal.Join(errs); err != nil {
				return err
			}
			tx, err = w.tracker.AddTransaction(tx.AccountID, tx)
			if err != nil {
				return err
			}

			err = w.commit(fmt.Sprintf("txn: %s %s %s", tx.AccountID, money(tx.Amount), tx.Category), auditlog.Entry{
				Action:        auditlog.ActionAddTxn,
				AccountID:     tx.AccountID,
				TransactionID: tx.ID,
				Details:       fmt.Sprintf("%s %s %s %s", day(tx.Date), money(tx.Amount), tx.Category, tx.Description),
			})
			if err != nil {
				return err
			}

			a, err := w.tracker.Account(tx.AccountID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s to %s (balance %s)\n",
				tx.ID, money(tx.Amount), tx.Category, tx.AccountID, money(a.Balance()))
			return nil
		}),
	}

	fl := cmd.Flags()
	fl.StringVar(&rec.Amount, "amount", "", "unsigned amount (required)")
	fl.StringVar(&rec.Type, "type", journal.TypeDebit, "debit or credit")
	fl.StringVar(&rec.Category, "category", "", "category (required)")
	fl.StringVar(&rec.Date, "date", "", "date as YYYY-MM-DD, defaults to today")
	fl.StringVar(&rec.Description, "description", "", "memo")
	fl.StringVar(&rec.ID, "id", "", "transaction ID, generated when empty")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newTxnListCommand(opts *globalOptions) *cobra.Command {
	var from, to string
	var categories []string
	var largest int

	cmd := &cobra.Command{
		Use:   "list <account-id>",
		Short: "List an account's transactions",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			if largest > 0 {
				txns, err := w.tracker.LargestTransactions(args[0], largest)
				if err != nil {
					return err
				}
				return printTransactions(cmd.OutOrStdout(), txns)
			}

			a, err := w.tracker.Account(args[0])
			if err != nil {
				return err
			}
			var f ledger.Filter
			r, err := parseRange(from, to)
			if err != nil {
				return err
			}
			if r != nil {
				f.Range = *r
			}
			for _, name := range categories {
				c, err := model.ParseCategory(name)
				if err != nil {
					return err
				}
				f.Categories = append(f.Categories, c)
			}
			return printTransactions(cmd.OutOrStdout(), slices.Collect(a.Transactions(f)))
		}),
	}

	fl := cmd.Flags()
	fl.StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	fl.StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	fl.StringSliceVar(&categories, "category", nil, "only these categories")
	fl.IntVar(&largest, "largest", 0, "show the N largest transactions by amount instead")

	return cmd
}

func printTransactions(out io.Writer, txns []model.Transaction) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "DATE\tID\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", day(t.Date), t.ID, money(t.Amount), t.Category, t.Description)
	}
	return tw.Flush()
}
