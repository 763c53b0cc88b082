package ui

import (
	"github.com/intake-toolkit/willdo/internal/actions"
	"github.com/intake-toolkit/willdo/internal/copied"
	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/vcs"
)

// Messages delivered from outside the program. The session consumer adapter
// forwards its callbacks as these via Program.Send.

// ListMsg carries a freshly fetched list snapshot.
type ListMsg struct {
	Snapshot *intake.ListSnapshot
}

// MetadataMsg carries a completed metadata scan.
type MetadataMsg struct {
	Metadata map[string]copied.Info
}

// ErrorMsg carries a displayable fetch or update failure.
type ErrorMsg struct {
	Message string
}

// Internal messages.

type diffMsg struct {
	results []actions.DiffResult
}

type historyMsg struct {
	item      intake.Item
	revisions []vcs.Revision
	err       error
}

type revisionMsg struct {
	rev     vcs.Revision
	content string
	err     error
}

type execDoneMsg struct {
	err error
}
