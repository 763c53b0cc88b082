package intake

import "strings"

// ListSnapshot is one fetched, consistent copy of the remote intake list.
// A snapshot is replaced wholesale on every successful fetch and is never
// mutated afterwards, so it is safe to share across goroutines.
type ListSnapshot struct {
	BTSIssue   string  `json:"bts_issue"`
	Title      string  `json:"title"`
	BaseCommit string  `json:"base_commit"`
	Groups     []Group `json:"groups"`
}

// Group is a titled, ordered section of the intake list.
type Group struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is one tracked file in the intake list. Name is the path relative to
// the repository root. ClaimedBy carries the space-joined identities exactly
// as the remote stores them.
type Item struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ClaimedBy string `json:"claimed_by"`
	Closed    bool   `json:"closed"`
}

// Claimants splits the claimed-by field into individual identities.
func (i Item) Claimants() []string {
	return strings.Fields(i.ClaimedBy)
}

// Paths returns the deduplicated set of tracked paths across all groups,
// preserving first-seen order.
func (s *ListSnapshot) Paths() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var paths []string
	for _, g := range s.Groups {
		for _, item := range g.Items {
			if _, ok := seen[item.Name]; ok {
				continue
			}
			seen[item.Name] = struct{}{}
			paths = append(paths, item.Name)
		}
	}
	return paths
}

// ToggleClaim removes identity from the space-joined claim list when present,
// otherwise appends it. The order of the remaining identities is preserved.
func ToggleClaim(claimedBy, identity string) string {
	users := strings.Fields(claimedBy)
	out := users[:0]
	found := false
	for _, u := range users {
		if u == identity {
			found = true
			continue
		}
		out = append(out, u)
	}
	if !found {
		out = append(out, identity)
	}
	return strings.Join(out, " ")
}
