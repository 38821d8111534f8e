package commands

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/auditlog"
	"github.com/cleared-dev/fintrack/internal/ledger"
	"github.com/cleared-dev/fintrack/internal/model"
)

func newAccountCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Open, close and inspect accounts",
	}
	cmd.AddCommand(
		newAccountOpenCommand(opts),
		newAccountCloseCommand(opts),
		newAccountListCommand(opts),
		newAccountShowCommand(opts),
	)
	return cmd
}

type openFlags struct {
	kind            string
	id              string
	name            string
	owner           string
	opening         string
	overdraft       string
	fee             string
	minBalance      string
	rate            string
	withdrawalLimit int
	creditLimit     string
	debt            string
	rewardRate      string
}

func newAccountOpenCommand(opts *globalOptions) *cobra.Command {
	var f openFlags

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a checking, savings or credit card account",
		Args:  cobra.NoArgs,
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, _ []string) error {
			spec, err := f.spec(cmd, w)
			if err != nil {
				return err
			}
			a, err := w.tracker.Open(spec)
			if err != nil {
				return err
			}
			err = w.commit("account: open "+a.ID(), auditlog.Entry{
				Action:    auditlog.ActionOpenAccount,
				AccountID: a.ID(),
				Details:   fmt.Sprintf("%s %q opening %s", a.Kind(), a.Name(), money(spec.OpeningBalance)),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s (%s) %q, balance %s\n", a.ID(), a.Kind(), a.Name(), money(a.Balance()))
			return nil
		}),
	}

	fl := cmd.Flags()
	fl.StringVar(&f.kind, "kind", "", "checking, savings or credit_card (required)")
	fl.StringVar(&f.name, "name", "", "display name (required)")
	fl.StringVar(&f.id, "id", "", "account ID, defaults to the next ACC### number")
	fl.StringVar(&f.owner, "owner", "", "account holder, defaults to the configured owner")
	fl.StringVar(&f.opening, "opening", "0", "opening balance")
	fl.StringVar(&f.overdraft, "overdraft", "0", "checking overdraft limit")
	fl.StringVar(&f.fee, "fee", "", "checking monthly fee")
	fl.StringVar(&f.minBalance, "min-balance", "", "checking fee waiver balance or savings minimum balance")
	fl.StringVar(&f.rate, "rate", "0", "annual interest rate, 0.05 = 5%")
	fl.IntVar(&f.withdrawalLimit, "withdrawal-limit", 0, "savings withdrawals per month")
	fl.StringVar(&f.creditLimit, "credit-limit", "0", "credit card limit")
	fl.StringVar(&f.debt, "debt", "0", "credit card opening debt")
	fl.StringVar(&f.rewardRate, "reward-rate", "0", "credit card reward rate, 0.01 = 1%")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// spec builds the account definition. Configured defaults fill the checking
// fee parameters and the savings withdrawal limit; flags given on the
// command line win.
func (f openFlags) spec(cmd *cobra.Command, w *workspace) (model.AccountSpec, error) {
	kind, err := model.ParseAccountKind(f.kind)
	if err != nil {
		return model.AccountSpec{}, err
	}
	d, err := w.cfg.AccountDefaults()
	if err != nil {
		return model.AccountSpec{}, err
	}

	spec := d.Apply(model.AccountSpec{ID: f.id, Kind: kind, Name: f.name, Owner: f.owner})

	amounts := []struct {
		flag string
		src  string
		dst  *decimal.Decimal
	}{
		{"opening", f.opening, &spec.OpeningBalance},
		{"overdraft", f.overdraft, &spec.OverdraftLimit},
		{"fee", f.fee, &spec.MonthlyFee},
		{"min-balance", f.minBalance, &spec.MinimumBalance},
		{"rate", f.rate, &spec.InterestRate},
		{"credit-limit", f.creditLimit, &spec.CreditLimit},
		{"debt", f.debt, &spec.OpeningDebt},
		{"reward-rate", f.rewardRate, &spec.RewardRate},
	}
	for _, a := range amounts {
		if !cmd.Flags().Changed(a.flag) {
			continue
		}
		v, err := parseAmount(a.flag, a.src)
		if err != nil {
			return model.AccountSpec{}, err
		}
		*a.dst = v
	}
	if cmd.Flags().Changed("withdrawal-limit") {
		spec.WithdrawalLimit = f.withdrawalLimit
	}
	return spec, nil
}

func newAccountCloseCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "close <account-id>",
		Short: "Close an account and discard its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			a, err := w.tracker.Account(args[0])
			if err != nil {
				return err
			}
			balance := a.Balance()
			if err := w.tracker.Close(a.ID()); err != nil {
				return err
			}
			err = w.commit("account: close "+a.ID(), auditlog.Entry{
				Action:    auditlog.ActionCloseAccount,
				AccountID: a.ID(),
				Details:   fmt.Sprintf("closing balance %s", money(balance)),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed %s (final balance %s)\n", a.ID(), money(balance))
			return nil
		}),
	}
}

func newAccountListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances",
		Args:  cobra.NoArgs,
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, _ []string) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tKIND\tNAME\tOWNER\tBALANCE\tAVAILABLE")
			for _, a := range w.tracker.Accounts() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					a.ID(), a.Kind(), a.Name(), a.Owner(), money(a.Balance()), money(a.AvailableFunds()))
			}
			return tw.Flush()
		}),
	}
}

func newAccountShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show an account's parameters and derived values",
		Args:  cobra.ExactArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			a, err := w.tracker.Account(args[0])
			if err != nil {
				return err
			}
			return printAccount(cmd.OutOrStdout(), a)
		}),
	}
}

func printAccount(out io.Writer, a ledger.Account) error {
	tw := newTable(out)
	row := func(k, v string) { fmt.Fprintf(tw, "%s:\t%s\n", k, v) }

	row("ID", a.ID())
	row("Name", a.Name())
	row("Owner", a.Owner())
	row("Kind", string(a.Kind()))
	row("Balance", money(a.Balance()))
	row("Available", money(a.AvailableFunds()))
	row("Transactions", fmt.Sprint(a.Len()))

	switch acc := a.(type) {
	case *ledger.Checking:
		row("Overdraft limit", money(acc.OverdraftLimit()))
		row("Overdraft used", money(acc.OverdraftUsage()))
		row("Monthly fee", money(acc.MonthlyFee()))
		row("Fee waived at", money(acc.MinimumBalance()))
		if checks := acc.ChecksWritten(); len(checks) > 0 {
			row("Checks written", fmt.Sprint(checks))
		}
	case *ledger.Savings:
		row("Minimum balance", money(acc.MinimumBalance()))
		row("Interest rate", acc.InterestRate().String())
		row("Withdrawals", fmt.Sprintf("%d of %d this month", acc.MonthlyWithdrawalCount(), acc.WithdrawalLimit()))
	case *ledger.CreditCard:
		row("Credit limit", money(acc.CreditLimit()))
		row("Current debt", money(acc.CurrentDebt()))
		row("Utilization", acc.Utilization().StringFixed(4))
		row("Interest rate", acc.InterestRate().String())
		if acc.RewardRate().IsPositive() {
			row("Rewards earned", money(acc.RewardsEarned()))
		}
	}
	return tw.Flush()
}
