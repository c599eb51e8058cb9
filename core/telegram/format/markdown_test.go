package format

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		in      string
		version int
		want    string
	}{
		{"Gaming Setup 4k", MarkdownV2, "Gaming Setup 4k"},
		{"a.b-c!", MarkdownV2, `a\.b\-c\!`},
		{"(x)", MarkdownV2, `\(x\)`},
		{"snake_case *bold*", MarkdownV1, `snake\_case \*bold\*`},
	}
	for _, tt := range tests {
		got, err := EscapeMarkdown(tt.in, tt.version)
		if err != nil {
			t.Fatalf("EscapeMarkdown(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("EscapeMarkdown(%q, %d) = %q, want %q", tt.in, tt.version, got, tt.want)
		}
	}
	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Fatal("expected error for unknown version")
	}
}
