package app

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/intake-toolkit/willdo/internal/copied"
	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/ui"
	"github.com/intake-toolkit/willdo/internal/watch"
)

// consumer bridges session events into the Bubble Tea program. Program.Send
// is safe from any goroutine and drops messages once the program has quit,
// which keeps the callbacks non-blocking as the session requires.
type consumer struct {
	prog     *tea.Program
	watcher  *watch.Watcher
	repoRoot string
	dead     atomic.Bool
}

func newConsumer(prog *tea.Program, watcher *watch.Watcher, repoRoot string) *consumer {
	return &consumer{prog: prog, watcher: watcher, repoRoot: repoRoot}
}

func (c *consumer) ListUpdated(snapshot *intake.ListSnapshot) {
	if c.watcher != nil {
		c.watcher.SetPaths(c.repoRoot, snapshot.Paths())
	}
	c.prog.Send(ui.ListMsg{Snapshot: snapshot})
}

func (c *consumer) MetadataUpdated(meta map[string]copied.Info) {
	c.prog.Send(ui.MetadataMsg{Metadata: meta})
}

func (c *consumer) ErrorOccurred(message string) {
	c.prog.Send(ui.ErrorMsg{Message: message})
}

func (c *consumer) Alive() bool {
	return !c.dead.Load()
}

// markDead stops the polling loop's liveness probe from keeping the
// subscription going once the UI has exited.
func (c *consumer) markDead() {
	c.dead.Store(true)
}
