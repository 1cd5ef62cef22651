package readability

import (
	"errors"
	"math"
	"testing"
)

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word     string
		expected int
	}{
		{"cat", 1},
		{"make", 1},
		{"table", 2},
		{"readability", 5},
		{"rhythm", 1},
		{"the", 1},
		{"HELLO", 2},
		{"123", 1},
	}

	for _, tt := range tests {
		if got := CountSyllables(tt.word); got != tt.expected {
			t.Errorf("CountSyllables(%q) = %d, want %d", tt.word, got, tt.expected)
		}
	}
}

func TestCount(t *testing.T) {
	c := Count("The cat sat. The dog ran!")
	if c.Words != 6 {
		t.Errorf("expected 6 words, got %d", c.Words)
	}
	if c.Sentences != 2 {
		t.Errorf("expected 2 sentences, got %d", c.Sentences)
	}
	if c.Syllables != 6 {
		t.Errorf("expected 6 syllables, got %d", c.Syllables)
	}
}

func TestCount_SkipsPunctuationOnlyTokens(t *testing.T) {
	c := Count("Hello - world !")
	if c.Words != 2 {
		t.Errorf("expected 2 words, got %d", c.Words)
	}
}

func TestFromCounts(t *testing.T) {
	scores, err := FromCounts(Counts{Words: 6, Sentences: 2, Syllables: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 206.835 - 1.015*3 - 84.6*1
	if math.Abs(scores.ReadingEase-119.19) > 1e-9 {
		t.Errorf("expected reading ease 119.19, got %f", scores.ReadingEase)
	}
	// 0.39*3 + 11.8*1 - 15.59
	if math.Abs(scores.GradeLevel-(-2.62)) > 1e-9 {
		t.Errorf("expected grade level -2.62, got %f", scores.GradeLevel)
	}
}

func TestCompute_NoSentences(t *testing.T) {
	_, err := Compute("hello")
	if !errors.Is(err, ErrNoSentences) {
		t.Errorf("expected ErrNoSentences, got %v", err)
	}
}

func TestCompute_NoWords(t *testing.T) {
	_, err := Compute("... !!!")
	if !errors.Is(err, ErrNoWords) {
		t.Errorf("expected ErrNoWords, got %v", err)
	}
}

func TestScore_FallsBackToZero(t *testing.T) {
	for _, input := range []string{"hello", "", "?!"} {
		scores := Score(input)
		if scores != (Scores{}) {
			t.Errorf("Score(%q) = %+v, want zero scores", input, scores)
		}
	}
}

func TestScore_ComplexTextIsHarder(t *testing.T) {
	simple := Score("The cat sat on the mat. It was warm.")
	dense := Score("Institutional interoperability necessitates comprehensive organizational standardization.")

	if simple.ReadingEase <= dense.ReadingEase {
		t.Errorf("expected simple text to be easier: simple=%f dense=%f", simple.ReadingEase, dense.ReadingEase)
	}
	if simple.GradeLevel >= dense.GradeLevel {
		t.Errorf("expected simple text to have lower grade: simple=%f dense=%f", simple.GradeLevel, dense.GradeLevel)
	}
}
