package news

import (
	"math"
	"strings"
	"unicode"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

const (
	// compoundAlpha normalizes the summed valence onto (-1, 1).
	compoundAlpha = 15.0
	// Classification cutoffs for the compound score.
	positiveThreshold = 0.05
	negativeThreshold = -0.05
	// negationScope is how many preceding words a negator reaches over.
	negationScope = 3
)

// Analyzer scores text against the embedded word lexicon. No external
// services; headlines are short enough that a valence sum is adequate.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Compound returns the normalized valence sum for the text, in (-1, 1).
func (a *Analyzer) Compound(text string) float64 {
	words := tokenize(text)

	var sum float64
	for i, w := range words {
		valence, ok := lexicon[w]
		if !ok {
			continue
		}
		for j := i - 1; j >= 0 && j >= i-negationScope; j-- {
			if negators[words[j]] {
				valence = -valence
				break
			}
			if b, ok := boosters[words[j]]; ok && j == i-1 {
				if valence > 0 {
					valence += b
				} else {
					valence -= b
				}
			}
		}
		sum += valence
	}

	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+compoundAlpha)
}

// Classify maps a compound score to a sentiment label.
func (a *Analyzer) Classify(compound float64) domain.Sentiment {
	switch {
	case compound >= positiveThreshold:
		return domain.SentimentPositive
	case compound <= negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// Report scores a batch of headlines as one document.
func (a *Analyzer) Report(headlines []string) domain.SentimentReport {
	if len(headlines) == 0 {
		return domain.SentimentReport{Sentiment: domain.SentimentUnavailable}
	}
	compound := a.Compound(strings.Join(headlines, ". "))
	return domain.SentimentReport{
		Sentiment: a.Classify(compound),
		Compound:  compound,
		Headlines: headlines,
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
