package ui

import "testing"

func TestGetTheme_FallsBackToDracula(t *testing.T) {
	if got := GetTheme("NoSuchTheme").Name; got != "Dracula" {
		t.Fatalf("GetTheme fallback = %q, want Dracula", got)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	seen := map[string]bool{}
	name := themeOrder[0]
	for range themeOrder {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != themeOrder[0] {
		t.Fatalf("cycle did not wrap: ended at %q", name)
	}
	for _, want := range themeOrder {
		if !seen[want] {
			t.Fatalf("theme %q never visited", want)
		}
	}
}

func TestThemes_HaveAllStatusColors(t *testing.T) {
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, status := range []string{"processed", "unprocessed", "invalid"} {
			if theme.StatusColors[status] == "" {
				t.Fatalf("theme %q missing color for %q", name, status)
			}
		}
	}
}
