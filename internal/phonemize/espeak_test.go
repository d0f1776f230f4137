package phonemize

import "testing"

func TestCleanOutput_SingleClause(t *testing.T) {
	got := cleanOutput("h_ə_l_ˈoʊ\n")
	if got != "həlˈoʊ" {
		t.Fatalf("cleanOutput: got %q, want %q", got, "həlˈoʊ")
	}
}

func TestCleanOutput_MultipleClauses(t *testing.T) {
	got := cleanOutput("h_ə_l_ˈoʊ\nw_ˈɜːld\n")
	if got != "həlˈoʊ wˈɜːld" {
		t.Fatalf("cleanOutput: got %q, want %q", got, "həlˈoʊ wˈɜːld")
	}
}

func TestCleanOutput_EmptyAndWhitespace(t *testing.T) {
	if got := cleanOutput("\n  \n"); got != "" {
		t.Fatalf("cleanOutput of blank input: got %q, want empty", got)
	}
}
