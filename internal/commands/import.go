package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/auditlog"
	"github.com/cleared-dev/fintrack/internal/importer"
	"github.com/cleared-dev/fintrack/internal/ledger"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var bank string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <account-id> [file...]",
		Short: "Import bank CSV exports",
		Long: "Import bank CSV exports into an account. Without file arguments every\n" +
			"CSV in import/ is imported and then moved to import/processed/.",
		Args: cobra.MinimumNArgs(1),
		RunE: withWorkspace(opts, func(cmd *cobra.Command, w *workspace, args []string) error {
			parser := importer.DefaultRegistry().Get(bank)
			if parser == nil {
				return fmt.Errorf("unknown bank format %q", bank)
			}
			categorizer, err := importer.NewCategorizer(w.cfg.Rules)
			if err != nil {
				return err
			}
			a, err := w.tracker.Account(args[0])
			if err != nil {
				return err
			}

			files := args[1:]
			scanned := len(files) == 0
			if scanned {
				found, err := importer.Scan(w.root)
				if err != nil {
					return err
				}
				for _, f := range found {
					files = append(files, f.Path)
				}
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
				return nil
			}

			out := cmd.OutOrStdout()
			var entries []auditlog.Entry
			imported := 0
			for _, path := range files {
				plan, err := planFile(path, parser, a, categorizer)
				if err != nil {
					return err
				}
				for _, tx := range plan.New {
					if dryRun {
						continue
					}
					if _, err := w.tracker.AddTransaction(a.ID(), tx); err != nil {
						return fmt.Errorf("%s: %w", filepath.Base(path), err)
					}
					entries = append(entries, auditlog.Entry{
						Action:        auditlog.ActionImport,
						AccountID:     a.ID(),
						TransactionID: tx.ID,
						Details:       fmt.Sprintf("%s %s %s", filepath.Base(path), money(tx.Amount), tx.Description),
					})
				}
				imported += len(plan.New)
				fmt.Fprintf(out, "%s: %d new, %d duplicates\n", filepath.Base(path), len(plan.New), len(plan.Duplicates))
			}

			if dryRun {
				fmt.Fprintf(out, "Dry run: %d transactions would be imported into %s\n", imported, a.ID())
				return nil
			}
			if err := w.commit(fmt.Sprintf("import: %d transactions into %s", imported, a.ID()), entries...); err != nil {
				return err
			}
			if scanned {
				for _, path := range files {
					if err := importer.MarkProcessed(w.root, filepath.Base(path)); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(out, "Imported %d transactions into %s\n", imported, a.ID())
			return nil
		}),
	}

	cmd.Flags().StringVar(&bank, "bank", "chase", "bank export format: chase or generic")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported")
	return cmd
}

// planFile parses one export and matches it against the account's current
// history, which includes rows imported from earlier files in the same run.
func planFile(path string, parser importer.Parser, a ledger.Account, c *importer.Categorizer) (importer.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Plan{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return importer.Plan{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	existing := slices.Collect(a.Transactions(ledger.Filter{}))
	return importer.Prepare(a.ID(), rows, existing, c), nil
}
