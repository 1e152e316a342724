package suggestions

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"
)

var knownNames = []string{"Ketamine", "LSD", "MDMA", "Psilocybin mushrooms", "DMT", "2C-B"}

func TestSuggest(t *testing.T) {
	e := NewEngine(3, 0.6)

	tests := []struct {
		name  string
		input string
		known []string
		want  []string
	}{
		{name: "nothing close", input: "qwxyz", known: knownNames, want: []string{}},
		{name: "typo", input: "ketamin", known: knownNames, want: []string{"Ketamine"}},
		{name: "case-insensitive through normalization", input: "mdma", known: knownNames, want: []string{"MDMA"}},
		{name: "diacritics ignored, canonical spelling returned", input: "ketamina", known: []string{"Kétamina"}, want: []string{"Kétamina"}},
		{name: "empty known names", input: "lsd", known: nil, want: []string{}},
		{
			name:  "limit respected, ties keep first-seen order",
			input: "aaaa",
			known: []string{"aaab", "aaaa", "aaac", "aaad", "aaae"},
			want:  []string{"aaaa", "aaab", "aaac"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Suggest(tt.input, tt.known)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Suggest(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestSuggestResultsClearCutoff(t *testing.T) {
	e := NewEngine(10, 0.6)
	input := "dmt"
	known := []string{"DMT", "5-MeO-DMT", "DPT", "MDMA", "DXM", "4-AcO-DMT"}

	got := e.Suggest(input, known)
	if len(got) == 0 {
		t.Fatal("Expected at least one suggestion")
	}
	if got[0] != "DMT" {
		t.Errorf("Expected exact match first, got %v", got)
	}

	prev := 2.0
	for _, name := range got {
		m := difflib.NewMatcher(strings.Split(strings.ToLower(name), ""), strings.Split(input, ""))
		ratio := m.Ratio()
		if ratio < 0.6 {
			t.Errorf("Suggestion %q has ratio %.3f below cutoff", name, ratio)
		}
		if ratio > prev {
			t.Errorf("Suggestions not sorted by ratio: %v", got)
		}
		prev = ratio
	}
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(0, 1.5)
	if e.Limit != DefaultLimit || e.Cutoff != DefaultCutoff {
		t.Errorf("Expected defaults, got limit=%d cutoff=%v", e.Limit, e.Cutoff)
	}
}
