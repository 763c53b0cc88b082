package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/intake-toolkit/willdo/internal/vcs"
)

// renderList renders the main list view.
func (m Model) renderList() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderHeader(styles))
	b.WriteString("\n")

	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		lines = append(lines, m.renderRow(r, i == m.cursor, styles))
	}
	b.WriteString(strings.Join(m.visibleLines(lines), "\n"))

	b.WriteString("\n")
	b.WriteString(m.renderFooter(styles))
	return b.String()
}

// renderRow renders one display row.
func (m Model) renderRow(r row, cursor bool, styles Styles) string {
	switch r.kind {
	case rowHeading:
		return styles.AccentText.Render(r.text)
	case rowGroup:
		return styles.GroupTitle.Render(r.text)
	case rowItem:
		line := m.renderItemRow(r, styles)
		if cursor {
			return styles.Selected.Render(line)
		}
		return line
	default:
		return ""
	}
}

// renderItemRow renders a tracked file line: selection marker, classification
// badge, path, claimants with the caller's identity highlighted.
func (m Model) renderItemRow(r row, styles Styles) string {
	marker := " "
	if _, on := m.selected[r.item.ID]; on {
		marker = "*"
	}

	badge := styles.StatusStyle(r.status.String()).Render("●")

	name := r.item.Name
	if r.item.Closed {
		name = "√ " + name
	}

	identity := m.sess.Config().Identity
	var claim string
	if claimants := r.item.Claimants(); len(claimants) > 0 {
		parts := make([]string, 0, len(claimants))
		for _, user := range claimants {
			if user == identity {
				parts = append(parts, styles.Identity.Render(user))
			} else {
				parts = append(parts, styles.MutedText.Render(user))
			}
		}
		claim = "  [" + strings.Join(parts, " ") + "]"
	}

	return fmt.Sprintf("%s %s %s%s", marker, badge, styles.Text.Render(name), claim)
}

// visibleLines windows the row lines around the cursor so the selected row
// stays on screen.
func (m Model) visibleLines(lines []string) []string {
	height := m.contentHeight()
	if len(lines) <= height {
		return lines
	}
	start := m.cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}

// renderHeader renders the top status line.
func (m Model) renderHeader(styles Styles) string {
	logo := styles.GroupTitle.Render("willdo")

	var status string
	switch {
	case m.errMessage != "":
		status = styles.DangerText.Render(m.errMessage)
	case m.snapshot == nil:
		status = styles.MutedText.Render("Fetching list…")
	default:
		status = styles.MutedText.Render(fmt.Sprintf("Updated %s", m.lastUpdated.Format("15:04:05")))
	}

	left := logo + "  " + status
	return styles.Header.Width(m.width).Render(left)
}

// renderFooter renders the bottom hint line.
func (m Model) renderFooter(styles Styles) string {
	hints := "c claim · t sync · d diff · u history · m merge · Space select · h help · q quit"
	return styles.Footer.Width(m.width).Render(hints)
}

// renderPager renders the diff and revision views through the viewport.
func (m Model) renderPager() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(m.renderHeader(styles))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(styles.Footer.Width(m.width).Render("j/k scroll · esc back"))
	return b.String()
}

// renderDiffContent assembles the diff output for all requested items.
func (m Model) renderDiffContent() string {
	styles := m.theme.Styles()
	var b strings.Builder
	for i, res := range m.diffResults {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(styles.GroupTitle.Render(res.Title))
		b.WriteString("\n")
		b.WriteString(res.Output)
	}
	if len(m.diffResults) == 0 {
		return styles.MutedText.Render("Nothing to diff.")
	}
	return b.String()
}

// renderRevisionContent assembles a single revision's file content.
func (m Model) renderRevisionContent(rev vcs.Revision, content string) string {
	styles := m.theme.Styles()
	header := fmt.Sprintf("%s  %s  %s", shortCommit(rev.Hash), rev.Date, rev.Author)
	return styles.GroupTitle.Render(header) + "\n" + styles.MutedText.Render(rev.Subject) + "\n\n" + content
}

// renderHistory renders the upstream revision list.
func (m Model) renderHistory() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(m.renderHeader(styles))
	b.WriteString("\n")
	b.WriteString(styles.GroupTitle.Render("Upstream history: " + m.historyItem.Name))
	b.WriteString("\n\n")

	lines := make([]string, 0, len(m.history))
	for i, rev := range m.history {
		line := fmt.Sprintf("%s  %s  %s  %s",
			shortCommit(rev.Hash), rev.Date, rev.Author, rev.Subject)
		if i == m.historyCursor {
			line = styles.Selected.Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, styles.MutedText.Render("No upstream revisions since the last synchronization."))
	}
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n")
	b.WriteString(styles.Footer.Width(m.width).Render("enter show revision · esc back"))
	return b.String()
}

// renderHelp renders the full-screen help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.GroupTitle.Render("willdo — keys"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n",
				styles.AccentText.Render(h.Key), styles.Text.Render(h.Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.MutedText.Render("Press any key to close."))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
