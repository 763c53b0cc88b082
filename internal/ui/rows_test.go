package ui

import (
	"testing"

	"github.com/intake-toolkit/willdo/internal/intake"
	"github.com/intake-toolkit/willdo/internal/session"
)

func testSnapshot() *intake.ListSnapshot {
	return &intake.ListSnapshot{
		BTSIssue:   "BTS-42",
		Title:      "Intake list",
		BaseCommit: "abcdef0123456789",
		Groups: []intake.Group{
			{Title: "ui", Items: []intake.Item{
				{ID: 1, Name: "src/a.cc"},
				{ID: 2, Name: "src/b.cc", Closed: true},
			}},
			{Title: "net", Items: []intake.Item{
				{ID: 3, Name: "src/c.cc", ClaimedBy: "alice bob"},
			}},
		},
	}
}

func classifyAll(status session.Status) func(intake.Item) session.Status {
	return func(intake.Item) session.Status { return status }
}

func TestBuildRows_NilSnapshot(t *testing.T) {
	if rows := buildRows(nil, classifyAll(session.StatusInvalid), true); rows != nil {
		t.Fatalf("buildRows(nil) = %v, want nil", rows)
	}
}

func TestBuildRows_Layout(t *testing.T) {
	rows := buildRows(testSnapshot(), classifyAll(session.StatusProcessed), true)

	wantKinds := []rowKind{
		rowHeading, rowHeading,
		rowBlank, rowGroup, rowItem, rowItem,
		rowBlank, rowGroup, rowItem,
	}
	if len(rows) != len(wantKinds) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(wantKinds))
	}
	for i, want := range wantKinds {
		if rows[i].kind != want {
			t.Fatalf("rows[%d].kind = %v, want %v", i, rows[i].kind, want)
		}
	}
	if rows[3].text != "ui" || rows[7].text != "net" {
		t.Fatalf("group titles = %q, %q", rows[3].text, rows[7].text)
	}
	if rows[4].item.ID != 1 || rows[5].item.ID != 2 || rows[8].item.ID != 3 {
		t.Fatalf("item order wrong: %d %d %d", rows[4].item.ID, rows[5].item.ID, rows[8].item.ID)
	}
	if rows[4].status != session.StatusProcessed {
		t.Fatalf("rows[4].status = %v, want processed", rows[4].status)
	}
}

func TestBuildRows_HidesClosedItems(t *testing.T) {
	rows := buildRows(testSnapshot(), classifyAll(session.StatusInvalid), false)
	for _, r := range rows {
		if r.kind == rowItem && r.item.Closed {
			t.Fatalf("closed item %q present with showClosed=false", r.item.Name)
		}
	}
}

func TestBuildRows_HidesEmptiedGroup(t *testing.T) {
	snapshot := &intake.ListSnapshot{
		Groups: []intake.Group{
			{Title: "done", Items: []intake.Item{{ID: 1, Name: "x", Closed: true}}},
		},
	}
	rows := buildRows(snapshot, classifyAll(session.StatusInvalid), false)
	for _, r := range rows {
		if r.kind == rowGroup {
			t.Fatalf("group %q present though all its items are hidden", r.text)
		}
	}
}

func TestStepItemRow_SkipsNonItemRows(t *testing.T) {
	rows := buildRows(testSnapshot(), classifyAll(session.StatusInvalid), true)

	first := firstItemRow(rows)
	if first != 4 {
		t.Fatalf("firstItemRow = %d, want 4", first)
	}
	if got := lastItemRow(rows); got != 8 {
		t.Fatalf("lastItemRow = %d, want 8", got)
	}

	// Moving down from the last row of a group jumps over blank and group rows.
	if got := stepItemRow(rows, 5, 1); got != 8 {
		t.Fatalf("stepItemRow(5, +1) = %d, want 8", got)
	}
	if got := stepItemRow(rows, 8, -1); got != 5 {
		t.Fatalf("stepItemRow(8, -1) = %d, want 5", got)
	}
	// No further rows: cursor stays put.
	if got := stepItemRow(rows, 8, 1); got != 8 {
		t.Fatalf("stepItemRow(8, +1) = %d, want 8", got)
	}
	if got := stepItemRow(rows, 4, -1); got != 4 {
		t.Fatalf("stepItemRow(4, -1) = %d, want 4", got)
	}
}

func TestClampCursor_PrefersSameItem(t *testing.T) {
	before := buildRows(testSnapshot(), classifyAll(session.StatusInvalid), true)
	cursor := 8 // item 3

	// After hiding closed items the rows shift but item 3 is still present.
	after := buildRows(testSnapshot(), classifyAll(session.StatusInvalid), false)
	got := clampCursor(after, cursor, before[cursor].item.ID)
	if after[got].kind != rowItem || after[got].item.ID != 3 {
		t.Fatalf("clampCursor landed on %+v, want item 3", after[got])
	}
}

func TestClampCursor_FallsBackToNearestItem(t *testing.T) {
	rows := buildRows(testSnapshot(), classifyAll(session.StatusInvalid), true)
	// Item ID 99 no longer exists and the cursor index is past the end.
	got := clampCursor(rows, len(rows)+5, 99)
	if got < 0 || rows[got].kind != rowItem {
		t.Fatalf("clampCursor = %d, want some item row", got)
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("abcdef0123456789"); got != "abcdef012345" {
		t.Fatalf("shortCommit = %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Fatalf("shortCommit short input = %q", got)
	}
}
