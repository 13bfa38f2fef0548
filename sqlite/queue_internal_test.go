package sqlite

import "testing"

func TestMakePlaceholders(t *testing.T) {
	if got := makePlaceholders(1); got != "?" {
		t.Fatalf("unexpected placeholders: %s", got)
	}
	if got := makePlaceholders(3); got != "?,?,?" {
		t.Fatalf("unexpected placeholders: %s", got)
	}
	if got := makePlaceholders(0); got != "" {
		t.Fatalf("unexpected placeholders: %s", got)
	}
}
