package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/intake-toolkit/willdo/internal/config"
	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/vcs"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local setup",
	Long: `Verify that willdo can run: configuration is complete, git is
available, the repository root is a git checkout, and the intake service
answers with the configured token.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	failed := false
	report := func(name string, err error) {
		if err != nil {
			failed = true
			fmt.Fprintf(os.Stdout, "✗ %s: %v\n", name, err)
			return
		}
		fmt.Fprintf(os.Stdout, "✓ %s\n", name)
	}

	report("configuration", checkConfig(cfg))
	report("git binary", checkGit())
	report("repository root", checkRepoRoot(cfg))
	report("intake service", checkRemote(cmd.Context(), cfg))

	if failed {
		return fmt.Errorf("some checks failed")
	}
	return nil
}

func checkConfig(cfg config.Config) error {
	if cfg.NeedsSetup() {
		return fmt.Errorf("incomplete; run willdo to launch setup")
	}
	return nil
}

func checkGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git not found on PATH")
	}
	return nil
}

func checkRepoRoot(cfg config.Config) error {
	if cfg.RepoRoot == "" {
		return fmt.Errorf("repo_root not configured")
	}
	if info, err := os.Stat(cfg.RepoRoot); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", cfg.RepoRoot)
	}
	if _, err := vcs.RepoRoot(cfg.RepoRoot); err != nil {
		return fmt.Errorf("%s is not inside a git checkout", cfg.RepoRoot)
	}
	return nil
}

func checkRemote(ctx context.Context, cfg config.Config) error {
	client, err := intake.NewClient(cfg.APIURL, cfg.AuthToken)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := client.FetchLatest(ctx); err != nil {
		return err
	}
	return nil
}
