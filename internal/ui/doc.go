// Package ui implements willdo's terminal interface with Bubble Tea.
//
// # Structure
//
// The Model renders one of four views: the intake list, a diff pager, the
// upstream history picker, and a single-revision pager. The list is the home
// view; esc always returns to it.
//
// The model never talks to the network itself. List and metadata updates
// arrive as ListMsg/MetadataMsg/ErrorMsg, sent into the program by the
// session consumer adapter in internal/app. Item actions go through the
// actions.Dispatcher, either fire-and-forget (claim, merge, mark
// synchronized) or as tea.Cmd functions whose results come back as internal
// messages (diff, history, show revision).
//
// # List rendering
//
// buildRows flattens a snapshot into display rows. Each tracked file gets a
// classification badge colored by its synchronization status, a √ prefix
// when the remote closed it, and its claimants with the caller's own
// identity highlighted. Space toggles a multi-item selection; actions apply
// to the selection, or to the cursor row when nothing is selected.
//
// # External editors
//
// Opening a file suspends the program with tea.ExecProcess and resumes when
// the editor exits. Merge and difftool comparisons run detached instead so
// graphical tools do not block the list.
package ui
