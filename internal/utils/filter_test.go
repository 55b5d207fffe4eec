package utils

import "testing"

func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		input       string
		expected    bool
		description string
	}{
		{"hello", true, "Plain word"},
		{"user-name", true, "Separator allowed"},
		{"word2vec", true, "Digits mixed with letters"},
		{"", false, "Empty input"},
		{"12345", false, "Only numbers"},
		{"email@example.com", false, "Special characters"},
		{"wwww", false, "Repetitive characters"},
		{"ww", true, "Two repeats are fine"},
	}

	for _, tc := range testCases {
		if got := IsValidInput(tc.input); got != tc.expected {
			t.Errorf("%s: IsValidInput(%q) = %v, want %v", tc.description, tc.input, got, tc.expected)
		}
	}
}

func TestIsRepetitive(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"aaa", true},
		{"dddd", true},
		{"aa", false},
		{"aab", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := IsRepetitive(tc.input); got != tc.expected {
			t.Errorf("IsRepetitive(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestSuggestionFilter(t *testing.T) {
	filter := NewSuggestionFilter("Hello")

	if filter.ShouldInclude("hello") {
		t.Error("input word itself should be excluded")
	}
	if !filter.ShouldInclude("help") {
		t.Error("first occurrence should be included")
	}
	if filter.ShouldInclude("Help") {
		t.Error("case-folded duplicate should be excluded")
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-54321, "-54,321"},
	}

	for _, tc := range testCases {
		if got := FormatWithCommas(tc.input); got != tc.expected {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestCreateRankList(t *testing.T) {
	ranks := CreateRankList(3)
	if len(ranks) != 3 || ranks[0] != 1 || ranks[2] != 3 {
		t.Errorf("CreateRankList(3) = %v, want [1 2 3]", ranks)
	}
	if len(CreateRankList(0)) != 0 {
		t.Error("CreateRankList(0) should be empty")
	}
}
