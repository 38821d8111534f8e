package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fintrack/internal/auditlog"
	"github.com/cleared-dev/fintrack/internal/config"
	"github.com/cleared-dev/fintrack/internal/gitops"
	"github.com/cleared-dev/fintrack/internal/logger"
	"github.com/cleared-dev/fintrack/internal/store"
	"github.com/cleared-dev/fintrack/internal/tracker"
)

// workspace is an opened data directory: its config, store and the tracker
// restored from it.
type workspace struct {
	root    string
	cfg     *config.Config
	log     zerolog.Logger
	ctx     context.Context
	store   store.Store
	tracker *tracker.Tracker
}

func openWorkspace(cmd *cobra.Command, opts *globalOptions) (*workspace, error) {
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	if err := config.LoadEnv(filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("%s is not a fintrack directory (run fintrack init): %w", root, err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logger.New(level)
	ctx := logger.WithContext(cmd.Context(), log)

	st, err := store.Open(ctx, cfg.Storage.Backend, cfg.StorageLocation(root))
	if err != nil {
		return nil, err
	}
	snap, err := st.Load(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("loading data: %w", err)
	}
	if snap.Owner == "" {
		snap.Owner = cfg.Owner
	}
	tr, err := tracker.FromSnapshot(snap, tracker.WithLogger(log))
	if err != nil {
		st.Close()
		return nil, err
	}

	return &workspace{root: root, cfg: cfg, log: log, ctx: ctx, store: st, tracker: tr}, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// commit saves the tracker, commits the data directory when auto-commit is
// on, and records entries in the activity log with the resulting hash.
func (w *workspace) commit(message string, entries ...auditlog.Entry) error {
	if err := w.store.Save(w.ctx, w.tracker.Snapshot()); err != nil {
		return fmt.Errorf("saving: %w", err)
	}

	var hash string
	if w.cfg.Git.AutoCommit && gitops.Available() && gitops.IsRepo(w.root) {
		h, err := gitops.CommitAll(w.root, message, w.cfg.Git.AuthorName, w.cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("committing: %w", err)
		}
		hash = h
	}

	now := nowUTC()
	for i := range entries {
		entries[i].Timestamp = now
		entries[i].CommitHash = hash
	}
	if len(entries) > 0 {
		if err := auditlog.Append(w.root, entries); err != nil {
			w.log.Warn().Err(err).Msg("failed to write activity log")
		}
	}
	return nil
}

func nowUTC() time.Time { return time.Now().UTC() }

// withWorkspace opens the data directory around fn.
func withWorkspace(opts *globalOptions, fn func(cmd *cobra.Command, w *workspace, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(cmd, opts)
		if err != nil {
			return err
		}
		defer w.Close()
		return fn(cmd, w, args)
	}
}

// trackerAccounts lets journal validation look up accounts in the tracker.
type trackerAccounts struct {
	tr *tracker.Tracker
}

func (a trackerAccounts) Exists(id string) bool {
	_, err := a.tr.Account(id)
	return err == nil
}
