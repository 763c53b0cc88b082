package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/intake-toolkit/willdo/internal/actions"
	"github.com/intake-toolkit/willdo/internal/config"
	"github.com/intake-toolkit/willdo/internal/copied"
	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/logging"
	"github.com/intake-toolkit/willdo/internal/prefs"
	"github.com/intake-toolkit/willdo/internal/session"
	"github.com/intake-toolkit/willdo/internal/ui"
	"github.com/intake-toolkit/willdo/internal/vcs"
	"github.com/intake-toolkit/willdo/internal/watch"
)

// Options configure the willdo application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/willdo/prefs.toml
	LogPath    string // empty uses default ~/.local/state/willdo/willdo.log
	PollEvery  int    // seconds; zero uses the configured or default interval
	RepoRoot   string // overrides the configured repo_root when set
}

// Run boots the willdo TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.RepoRoot != "" {
		cfg.RepoRoot = opts.RepoRoot
	}

	if cfg.NeedsSetup() {
		cfg, err = runSetup(opts.ConfigPath, cfg)
		if err != nil {
			return err
		}
	}

	closeLog, err := logging.Setup(opts.LogPath)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := intake.NewClient(cfg.APIURL, cfg.AuthToken)
	if err != nil {
		return fmt.Errorf("init intake client: %w", err)
	}

	sess := session.New(ctx, client, copied.FileResolver{})

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	upstream := vcs.New(cfg.UpstreamPath())
	dispatcher := actions.New(sess, upstream)

	model := ui.New(ui.Options{
		Session:    sess,
		Dispatcher: dispatcher,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
		ShowClosed: userPrefs.ShowClosed,
	})
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Rescan copy markers when tracked files change on disk.
	watcher, err := watch.New(sess.Rescan)
	if err != nil {
		log.Printf("file watcher unavailable: %v", err)
		watcher = nil
	} else {
		go watcher.Run(ctx)
	}

	consumer := newConsumer(prog, watcher, cfg.RepoRoot)
	sess.Subscribe(session.Config{
		Identity:     cfg.Username,
		RepoRoot:     cfg.RepoRoot,
		MergeTool:    cfg.MergeTool,
		UpstreamDir:  cfg.UpstreamDir,
		PollInterval: interval,
	}, consumer)
	defer func() {
		consumer.markDead()
		sess.Unsubscribe()
	}()

	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
