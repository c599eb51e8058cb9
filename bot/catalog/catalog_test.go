package catalog

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() != 20 {
		t.Fatalf("Len = %d, want 20", c.Len())
	}
	seen := map[string]bool{}
	for _, e := range c.Entries() {
		if e.Label == "" || e.Term == "" {
			t.Fatalf("empty entry: %+v", e)
		}
		if strings.Contains(e.Term, "|") {
			t.Fatalf("term %q contains the token separator", e.Term)
		}
		if seen[e.Term] {
			t.Fatalf("duplicate term %q", e.Term)
		}
		seen[e.Term] = true
	}
	if c.Entries()[0].Term != "Influential People Celebrity" || c.Entries()[19].Term != "Abstract Fluid Art" {
		t.Fatal("catalog order changed")
	}
}

func TestContainsAndLabel(t *testing.T) {
	c := Default()
	if !c.Contains("Cyberpunk Futuristic City") || c.Contains("cyberpunk") {
		t.Fatal("Contains mismatch")
	}
	if got := c.Label("Cute Pets"); got != "🐱 Pets" {
		t.Fatalf("Label = %q", got)
	}
	if got := c.Label("unknown"); got != "unknown" {
		t.Fatalf("Label(unknown) = %q", got)
	}
}

func TestEntriesIsACopy(t *testing.T) {
	c := Default()
	list := c.Entries()
	list[0].Term = "changed"
	if c.Entries()[0].Term == "changed" {
		t.Fatal("Entries exposed internal slice")
	}
}

func TestDeviceOrientation(t *testing.T) {
	if Mobile.Orientation() != "portrait" || Laptop.Orientation() != "landscape" {
		t.Fatal("orientation mismatch")
	}
	if Device("tablet").Valid() || !Mobile.Valid() {
		t.Fatal("Valid mismatch")
	}
}
