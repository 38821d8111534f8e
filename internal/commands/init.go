package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/accounts"
	"github.com/cleared-dev/fintrack/internal/auditlog"
	"github.com/cleared-dev/fintrack/internal/config"
	"github.com/cleared-dev/fintrack/internal/gitops"
	"github.com/cleared-dev/fintrack/internal/store"
	"github.com/cleared-dev/fintrack/internal/tracker"
)

type initOptions struct {
	owner   string
	backend string
	starter bool
	noGit   bool
}

func newInitCommand(global *globalOptions) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new fintrack data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := global.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.owner, "owner", "", "account holder name (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&opts.backend, "backend", store.BackendCSV, "storage backend: csv or sqlite")
	cmd.Flags().BoolVar(&opts.starter, "starter", false, "open a checking and a savings account")
	cmd.Flags().BoolVar(&opts.noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts initOptions) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	for _, d := range []string{"accounts", "logs", "import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(opts.owner)
	cfg.Storage.Backend = opts.backend
	if opts.backend == store.BackendSQLite {
		cfg.Storage.Path = config.DefaultDatabase
	}
	if opts.noGit {
		cfg.Git.AutoCommit = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// The activity log references commits, so it stays out of them.
	gitignore := ".env\nlogs/\n*.db-journal\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	tr := tracker.New(opts.owner)
	if opts.starter {
		d, err := cfg.AccountDefaults()
		if err != nil {
			return err
		}
		for _, spec := range accounts.StarterAccounts(opts.owner, d) {
			if _, err := tr.Open(spec); err != nil {
				return fmt.Errorf("opening starter account: %w", err)
			}
		}
	}

	ctx := cmd.Context()
	st, err := store.Open(ctx, cfg.Storage.Backend, cfg.StorageLocation(dir))
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Save(ctx, tr.Snapshot()); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}

	var hash string
	if !opts.noGit && gitops.Available() {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		hash, err = gitops.CommitAll(dir, "init: Initialize fintrack for "+opts.owner, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
	}

	entry := auditlog.Entry{
		Action:     auditlog.ActionInit,
		Details:    fmt.Sprintf("owner=%s backend=%s accounts=%d", opts.owner, cfg.Storage.Backend, len(tr.Accounts())),
		CommitHash: hash,
	}
	if err := appendActivity(dir, entry); err != nil {
		return err
	}

	printInit(cmd.OutOrStdout(), dir, hash)
	return nil
}

func appendActivity(dir string, entries ...auditlog.Entry) error {
	for i := range entries {
		if entries[i].Timestamp.IsZero() {
			entries[i].Timestamp = nowUTC()
		}
	}
	if err := auditlog.Append(dir, entries); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}
	return nil
}

func printInit(w io.Writer, dir, hash string) {
	if hash == "" {
		fmt.Fprintf(w, "Initialized fintrack data directory at %s\n", dir)
		return
	}
	fmt.Fprintf(w, "Initialized fintrack data directory at %s (%s)\n", dir, hash)
}
