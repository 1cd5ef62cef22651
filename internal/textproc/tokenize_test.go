package textproc

import (
	"reflect"
	"testing"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"hello", 1},
		{"hello world", 2},
		{"  spaced \t out\nlines  ", 3},
		{"Love this! #AI #ml @bob check it out", 8},
	}

	for _, tt := range tests {
		if got := CountWords(tt.input); got != tt.expected {
			t.Errorf("CountWords(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"no terminator", 0},
		{"One.", 1},
		{"One. Two! Three?", 3},
		{"Wait... what?!", 2},
		{"Version 1.2.3 shipped", 2},
	}

	for _, tt := range tests {
		if got := CountSentences(tt.input); got != tt.expected {
			t.Errorf("CountSentences(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestCountCharacters(t *testing.T) {
	if got := CountCharacters("héllo 😀"); got != 7 {
		t.Errorf("expected 7 code points, got %d", got)
	}
}

func TestAlphaTokens(t *testing.T) {
	got := AlphaTokens("Don't STOP believing, 2024 was great_ish! abc123")
	expected := []string{"don", "t", "stop", "believing", "was"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	if tokens := AlphaTokens(""); len(tokens) != 0 {
		t.Errorf("expected no tokens for empty input, got %v", tokens)
	}
}

func TestAlphaTokens_NonASCIIWords(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"café naïve résumé über", nil},
		{"Café society, café culture", []string{"society", "culture"}},
		{"日本 is great", []string{"is", "great"}},
		{"x² plus y", []string{"plus", "y"}},
	}

	for _, tt := range tests {
		got := AlphaTokens(tt.text)
		if len(got) != len(tt.expected) || (len(got) > 0 && !reflect.DeepEqual(got, tt.expected)) {
			t.Errorf("AlphaTokens(%q) = %v, want %v", tt.text, got, tt.expected)
		}
	}
}

func TestWordRuns(t *testing.T) {
	got := WordRuns("Hé_llo, wörld! 42x")
	expected := []string{"Hé_llo", "wörld", "42x"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}
