package intake

import (
	"reflect"
	"testing"
)

func TestToggleClaim(t *testing.T) {
	tests := []struct {
		name      string
		claimedBy string
		identity  string
		want      string
	}{
		{"removes present identity", "alice bob", "alice", "bob"},
		{"appends missing identity", "bob", "alice", "bob alice"},
		{"appends to empty list", "", "alice", "alice"},
		{"removes sole identity", "alice", "alice", ""},
		{"preserves order of others", "carol alice bob", "alice", "carol bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToggleClaim(tt.claimedBy, tt.identity)
			if got != tt.want {
				t.Errorf("ToggleClaim(%q, %q) = %q, want %q", tt.claimedBy, tt.identity, got, tt.want)
			}
		})
	}
}

func TestSnapshotPaths(t *testing.T) {
	snap := &ListSnapshot{
		Groups: []Group{
			{Title: "ui", Items: []Item{
				{ID: 1, Name: "src/a.cc"},
				{ID: 2, Name: "src/b.cc"},
			}},
			{Title: "net", Items: []Item{
				{ID: 3, Name: "src/a.cc"}, // duplicate across groups
				{ID: 4, Name: "net/c.cc"},
			}},
		},
	}

	got := snap.Paths()
	want := []string{"src/a.cc", "src/b.cc", "net/c.cc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}
}

func TestSnapshotPaths_Nil(t *testing.T) {
	var snap *ListSnapshot
	if got := snap.Paths(); got != nil {
		t.Fatalf("Paths() on nil snapshot = %v, want nil", got)
	}
}

func TestItemClaimants(t *testing.T) {
	item := Item{ClaimedBy: "alice bob"}
	got := item.Claimants()
	want := []string{"alice", "bob"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Claimants() = %v, want %v", got, want)
	}
	if got := (Item{}).Claimants(); len(got) != 0 {
		t.Fatalf("Claimants() on empty field = %v, want empty", got)
	}
}
