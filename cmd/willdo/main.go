// willdo - terminal client for a team intake list
//
// Shows the team's intake list of copied files, tracks which ones have been
// reconciled with upstream, and dispatches claims, diffs, and merges.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/intake-toolkit/willdo/internal/app"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
)

var (
	flagConfig string
	flagPoll   int
	flagRepo   string
)

var rootCmd = &cobra.Command{
	Use:   "willdo",
	Short: "Track and reconcile a team intake list of copied files",
	Long: `willdo polls the team's intake service for the shared list of copied
files, scans your checkout's copy markers, and shows which files still
need reconciling with upstream.

From the list you can claim items, diff them against upstream since the
last synchronization, browse upstream history, run your merge tool, and
stamp the synchronization marker.`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return app.Run(ctx, app.Options{
			ConfigPath: flagConfig,
			PollEvery:  flagPoll,
			RepoRoot:   flagRepo,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "override config path (optional)")
	rootCmd.Flags().IntVar(&flagPoll, "poll", 0, "refresh interval in seconds (optional)")
	rootCmd.Flags().StringVar(&flagRepo, "repo-root", "", "override the configured repository root")
	rootCmd.AddCommand(doctorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "willdo: %v\n", err)
		os.Exit(1)
	}
}
