package sentiment

const (
	POSITIVE_THRESHOLD = 0.05
	NEGATIVE_THRESHOLD = -0.05
)

type Label string

const (
	LabelPositive Label = "Positive"
	LabelNeutral  Label = "Neutral"
	LabelNegative Label = "Negative"
)

// Scores are unrounded VADER proportions plus the derived label.
type Scores struct {
	Compound float64
	Positive float64
	Neutral  float64
	Negative float64
	Label    Label
}

type Scorer struct {
	lexicon *Lexicon
}

func NewScorer(lexicon *Lexicon) *Scorer {
	return &Scorer{lexicon: lexicon}
}

func (s *Scorer) Lexicon() *Lexicon {
	return s.lexicon
}

// Score rates text against the lexicon. Text without any scorable token comes
// back from VADER as all zeros; it is reported as fully neutral so the three
// proportions always sum to one.
func (s *Scorer) Score(text string) Scores {
	sentiment := s.lexicon.polarity(text)

	scores := Scores{
		Compound: sentiment.Compound,
		Positive: sentiment.Positive,
		Neutral:  sentiment.Neutral,
		Negative: sentiment.Negative,
	}
	if scores.Positive+scores.Neutral+scores.Negative == 0 {
		scores.Neutral = 1
	}
	scores.Label = LabelFor(scores.Compound)

	return scores
}

// LabelFor maps a compound score onto a label using fixed ±0.05 thresholds.
func LabelFor(compound float64) Label {
	if compound >= POSITIVE_THRESHOLD {
		return LabelPositive
	} else if compound <= NEGATIVE_THRESHOLD {
		return LabelNegative
	}
	return LabelNeutral
}
