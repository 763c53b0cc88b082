package ui

import (
	"fmt"

	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/session"
)

// rowKind distinguishes display rows in the list view.
type rowKind int

const (
	rowBlank rowKind = iota
	rowHeading
	rowGroup
	rowItem
)

// row is one display line of the list view. item and status are only
// meaningful for rowItem rows.
type row struct {
	kind   rowKind
	text   string
	item   intake.Item
	status session.Status
}

// buildRows flattens a snapshot into display rows: heading lines, then each
// group title followed by its items. Closed items are dropped unless
// showClosed is set.
func buildRows(snapshot *intake.ListSnapshot, classify func(intake.Item) session.Status, showClosed bool) []row {
	if snapshot == nil {
		return nil
	}

	rows := []row{
		{kind: rowHeading, text: snapshot.Title},
		{kind: rowHeading, text: fmt.Sprintf("Issue %s @ %s", snapshot.BTSIssue, shortCommit(snapshot.BaseCommit))},
	}

	for _, g := range snapshot.Groups {
		items := make([]row, 0, len(g.Items))
		for _, item := range g.Items {
			if item.Closed && !showClosed {
				continue
			}
			items = append(items, row{kind: rowItem, item: item, status: classify(item)})
		}
		if len(items) == 0 && !showClosed {
			continue
		}
		rows = append(rows, row{kind: rowBlank}, row{kind: rowGroup, text: g.Title})
		rows = append(rows, items...)
	}

	return rows
}

// shortCommit abbreviates a commit hash for display.
func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// firstItemRow returns the index of the first selectable row, or -1.
func firstItemRow(rows []row) int {
	for i, r := range rows {
		if r.kind == rowItem {
			return i
		}
	}
	return -1
}

// lastItemRow returns the index of the last selectable row, or -1.
func lastItemRow(rows []row) int {
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].kind == rowItem {
			return i
		}
	}
	return -1
}

// stepItemRow moves from index from by delta (+1 or -1), skipping
// non-item rows. It returns from when no further item row exists.
func stepItemRow(rows []row, from, delta int) int {
	for i := from + delta; i >= 0 && i < len(rows); i += delta {
		if rows[i].kind == rowItem {
			return i
		}
	}
	return from
}

// clampCursor keeps the cursor on an item row after the rows change,
// preferring the same item ID, then the nearest item row.
func clampCursor(rows []row, cursor int, itemID int64) int {
	for i, r := range rows {
		if r.kind == rowItem && r.item.ID == itemID {
			return i
		}
	}
	if cursor < len(rows) && cursor >= 0 && rows[cursor].kind == rowItem {
		return cursor
	}
	if i := stepItemRow(rows, cursor, -1); i != cursor && i >= 0 && i < len(rows) && rows[i].kind == rowItem {
		return i
	}
	return firstItemRow(rows)
}
