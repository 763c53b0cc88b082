package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Item actions
	Claim    key.Binding
	Merge    key.Binding
	Diff     key.Binding
	History  key.Binding
	Open     key.Binding
	OpenUp   key.Binding
	Compare  key.Binding
	MarkSync key.Binding

	// List state
	Select     key.Binding
	Refresh    key.Binding
	ShowClosed key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// History view
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to list"),
		),

		// Item actions
		Claim: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Claim / unclaim"),
		),
		Merge: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Merge with upstream"),
		),
		Diff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Diff since last sync"),
		),
		History: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Upstream history"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Open file"),
		),
		OpenUp: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "Open upstream file"),
		),
		Compare: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Compare in difftool"),
		),
		MarkSync: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Mark synchronized"),
		),

		// List state
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle selection"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),
		ShowClosed: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Toggle closed items"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		// History view
		Confirm: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter/v", "Show revision"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.Top, k.Bottom},
		// Item actions
		{k.Claim, k.MarkSync, k.Merge, k.Compare},
		{k.Diff, k.History, k.Open, k.OpenUp},
		// List state
		{k.Select, k.Refresh, k.ShowClosed},
		// General
		{k.CycleTheme, k.Help, k.Escape, k.Quit},
	}
}
