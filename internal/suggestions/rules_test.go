package suggestions

import (
	"reflect"
	"testing"
)

func TestGenerate_AllRulesFireInOrder(t *testing.T) {
	in := Input{
		WordCount:   5,
		Readability: 20,
		Compound:    -0.5,
		Text:        "Nothing to see here",
	}

	got := Generate(in)
	expected := []string{
		"Consider expanding your content - posts with 20-40 words tend to perform better",
		"Your content is complex - try using simpler words and shorter sentences for better engagement",
		"Consider adding more positive elements to balance the tone and improve engagement",
		"Add relevant hashtags to increase discoverability (aim for 3-5 hashtags)",
		"Add a call-to-action (e.g., 'What do you think?', 'Share your thoughts') to encourage engagement",
		"Consider ending with a question to encourage comments and discussions",
		"Consider adding relevant emojis to make your post more visually appealing",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %d suggestions in rule order, got %d:\n%v", len(expected), len(got), got)
	}

	ids := Fired(in)
	if !reflect.DeepEqual(ids, []string{"SUG001", "SUG002", "SUG003", "SUG004", "SUG005", "SUG006", "SUG007"}) {
		t.Errorf("unexpected fired rules: %v", ids)
	}
}

func TestGenerate_Fallback(t *testing.T) {
	in := Input{
		WordCount:   50,
		Readability: 60,
		Compound:    0.0,
		Hashtags:    []string{"#a", "#b", "#c", "#d"},
		Text:        "Please share this with friends? 😀",
	}

	got := Generate(in)
	if !reflect.DeepEqual(got, []string{FALLBACK_MESSAGE}) {
		t.Errorf("expected only the fallback, got %v", got)
	}
	if ids := Fired(in); len(ids) != 0 {
		t.Errorf("expected no rules to fire, got %v", ids)
	}
}

func TestGenerate_OppositeBranches(t *testing.T) {
	hashtags := make([]string, 11)
	for i := range hashtags {
		hashtags[i] = "#tag"
	}
	in := Input{
		WordCount:   101,
		Readability: 95,
		Compound:    0.8,
		Hashtags:    hashtags,
		Text:        "Follow us? 🚀",
	}

	got := Generate(in)
	expected := []string{
		"Your content is quite long - consider breaking it into shorter, more digestible posts",
		"Your content is very easy to read - great for broad audience engagement!",
		"Great positive tone! This should resonate well with your audience",
		"You're using many hashtags - consider reducing to 5-7 most relevant ones",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestGenerate_Boundaries(t *testing.T) {
	base := Input{
		Hashtags: []string{"#a"},
		Text:     "check it? 😀",
	}

	tests := []struct {
		name     string
		mutate   func(in *Input)
		expected []string
	}{
		{"20 words", func(in *Input) { in.WordCount = 20; in.Readability = 50 }, nil},
		{"100 words", func(in *Input) { in.WordCount = 100; in.Readability = 50 }, nil},
		{"readability 30", func(in *Input) { in.WordCount = 50; in.Readability = 30 }, nil},
		{"readability 90", func(in *Input) { in.WordCount = 50; in.Readability = 90 }, nil},
		{"compound 0.3", func(in *Input) { in.WordCount = 50; in.Readability = 50; in.Compound = 0.3 }, nil},
		{"compound -0.3", func(in *Input) { in.WordCount = 50; in.Readability = 50; in.Compound = -0.3 }, nil},
		{"10 hashtags", func(in *Input) {
			in.WordCount = 50
			in.Readability = 50
			in.Hashtags = make([]string, 10)
		}, nil},
		{"19 words", func(in *Input) { in.WordCount = 19; in.Readability = 50 }, []string{"SUG001"}},
		{"readability 29.99", func(in *Input) { in.WordCount = 50; in.Readability = 29.99 }, []string{"SUG002"}},
	}

	for _, tt := range tests {
		in := base
		tt.mutate(&in)
		if got := Fired(in); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestCallToAction(t *testing.T) {
	tests := []struct {
		text  string
		fires bool
	}{
		{"Please SHARE this", false},
		{"check out the link", false},
		{"Subscribe!", false},
		{"we liked it", true},
		{"sharing is caring", true},
		{"nothing to do here", true},
		{"un commentaire: commenté", true},
		{"tryé this", true},
		{"Café? Share it", false},
	}

	for _, tt := range tests {
		_, fired := checkCallToAction(Input{Text: tt.text})
		if fired != tt.fires {
			t.Errorf("checkCallToAction(%q) fired=%v, want %v", tt.text, fired, tt.fires)
		}
	}
}

func TestContainsEmoji(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"plain text", false},
		{"smile 😀", true},
		{"party 🎉", true},
		{"rocket 🚀", true},
		{"flag 🇺🇸", true},
		{"heart ❤", false},
		{"newer 🥳", false},
	}

	for _, tt := range tests {
		if got := ContainsEmoji(tt.text); got != tt.expected {
			t.Errorf("ContainsEmoji(%q) = %v, want %v", tt.text, got, tt.expected)
		}
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	r := Rules()
	if len(r) != 7 {
		t.Fatalf("expected 7 rules, got %d", len(r))
	}
	r[0].ID = "changed"
	if Rules()[0].ID != "SUG001" {
		t.Error("Rules() must not expose the internal table")
	}
}
