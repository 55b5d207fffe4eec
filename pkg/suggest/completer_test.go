package suggest

import (
	"testing"

	"github.com/bastiangx/ternserve/pkg/dict"
)

// buildDict inserts words in a fixed order so tests are reproducible.
func buildDict(t *testing.T, words []struct {
	word string
	freq int
}) *dict.Dictionary {
	t.Helper()
	d := dict.New()
	for _, w := range words {
		if err := d.SetWord(w.word, w.freq); err != nil {
			t.Fatalf("SetWord(%q): %v", w.word, err)
		}
	}
	return d
}

func suggestionWords(suggestions []Suggestion) []string {
	words := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		words = append(words, s.Word)
	}
	return words
}

func sameWords(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestComplete(t *testing.T) {
	d := buildDict(t, []struct {
		word string
		freq int
	}{
		{"hel", 50},
		{"hello", 100},
		{"helmet", 30},
		{"help", 80},
		{"helix", 10},
		{"hex", 22},
	})
	completer := NewCompleter(d)

	testCases := []struct {
		prefix      string
		limit       int
		expected    []string
		description string
	}{
		// helix (10) falls under the frequency floor, and the prefix word
		// itself is never suggested
		{"hel", 10, []string{"hello", "help", "helmet"}, "Plain prefix, frequency order"},
		{"hel", 2, []string{"hello", "help"}, "Limit truncates"},
		{"Hel", 10, []string{"Hello", "Help", "Helmet"}, "Input capitalization re-applied"},
		{"HEl", 10, []string{"HEllo", "HElp", "HElmet"}, "Multiple capitals re-applied"},
		// two character prefixes raise the floor, which drops hex (22)
		{"he", 10, []string{"hello", "help", "hel", "helmet"}, "Short prefix raises threshold"},
		{"zz", 10, nil, "No matches"},
		{"", 10, nil, "Empty prefix"},
	}

	for _, tc := range testCases {
		got := suggestionWords(completer.Complete(tc.prefix, tc.limit))
		if !sameWords(got, tc.expected) {
			t.Errorf("%s: Complete(%q, %d) = %v, want %v",
				tc.description, tc.prefix, tc.limit, got, tc.expected)
		}
	}
}

func TestCompleteMinFrequencyOverride(t *testing.T) {
	d := buildDict(t, []struct {
		word string
		freq int
	}{
		{"care", 25},
		{"cart", 60},
		{"carp", 5},
	})
	completer := NewCompleter(d)
	completer.SetMinFrequency(30)

	got := suggestionWords(completer.Complete("car", 10))
	want := []string{"cart"}
	if !sameWords(got, want) {
		t.Errorf("Complete with raised floor = %v, want %v", got, want)
	}
}

func TestMatchPatterns(t *testing.T) {
	d := buildDict(t, []struct {
		word string
		freq int
	}{
		{"for", 10},
		{"ford", 20},
		{"form", 30},
		{"four", 40},
		{"from", 50},
	})
	completer := NewCompleter(d)

	testCases := []struct {
		pattern     string
		limit       int
		expected    []string
		description string
	}{
		{"f..m", 10, []string{"from", "form"}, "Single char wildcards, frequency order"},
		{"f*", 10, []string{"from", "four", "form", "ford", "for"}, "Star matches everything"},
		{"f*", 2, []string{"from", "four"}, "Star with limit"},
		{".o..", 10, []string{"four", "form", "ford"}, "Leading wildcard"},
		{"z*", 10, nil, "No matches"},
	}

	for _, tc := range testCases {
		got := suggestionWords(completer.Match(tc.pattern, tc.limit))
		if !sameWords(got, tc.expected) {
			t.Errorf("%s: Match(%q, %d) = %v, want %v",
				tc.description, tc.pattern, tc.limit, got, tc.expected)
		}
	}
}

func TestCorrect(t *testing.T) {
	d := buildDict(t, []struct {
		word string
		freq int
	}{
		{"for", 10},
		{"ford", 20},
		{"form", 30},
		{"four", 40},
		{"from", 50},
	})
	completer := NewCompleter(d)

	testCases := []struct {
		input       string
		dist        int
		expected    string
		corrected   bool
		description string
	}{
		// ford (20) and form (30) are both one substitution away
		{"forn", 1, "form", true, "Picks the most frequent candidate"},
		{"Forn", 1, "Form", true, "Capitalization re-applied"},
		{"form", 1, "form", false, "Exact word is not corrected"},
		{"zzzz", 1, "zzzz", false, "Nothing in range"},
		{"f", 2, "f", false, "Too short to correct"},
		{"", 2, "", false, "Empty input"},
	}

	for _, tc := range testCases {
		got, corrected := completer.Correct(tc.input, tc.dist)
		if got != tc.expected || corrected != tc.corrected {
			t.Errorf("%s: Correct(%q, %d) = (%q, %v), want (%q, %v)",
				tc.description, tc.input, tc.dist, got, corrected, tc.expected, tc.corrected)
		}
	}
}

func TestStats(t *testing.T) {
	d := buildDict(t, []struct {
		word string
		freq int
	}{
		{"alpha", 30},
		{"beta", 40},
	})
	completer := NewCompleter(d)
	completer.WarmCache()

	stats := completer.Stats()
	if stats["totalWords"] != 2 {
		t.Errorf("totalWords = %d, want 2", stats["totalWords"])
	}
	if stats["hotCacheWords"] != 2 {
		t.Errorf("hotCacheWords = %d, want 2", stats["hotCacheWords"])
	}
	if _, ok := stats["maxHotWords"]; !ok {
		t.Error("missing maxHotWords counter")
	}
}

func TestApplyCapitalization(t *testing.T) {
	testCases := []struct {
		word        string
		input       string
		expected    string
		description string
	}{
		{"hello", "He", "Hello", "Leading capital"},
		{"hello", "hE", "hEllo", "Inner capital"},
		{"hello", "", "hello", "No mask"},
		{"hi", "HELLO", "HI", "Mask longer than word"},
	}

	for _, tc := range testCases {
		got := ApplyCapitalization(tc.word, capitalMask(tc.input))
		if got != tc.expected {
			t.Errorf("%s: ApplyCapitalization(%q, mask(%q)) = %q, want %q",
				tc.description, tc.word, tc.input, got, tc.expected)
		}
	}
}
