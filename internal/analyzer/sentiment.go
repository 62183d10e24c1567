package analyzer

import (
	"regexp"
	"strings"

	"github.com/brandpulse/ai-visibility/internal/models"
)

// SentimentClassifier labels the tone of a response
type SentimentClassifier interface {
	Classify(text string) models.Sentiment
}

// ClassifierFunc adapts a function to SentimentClassifier
type ClassifierFunc func(text string) models.Sentiment

// Classify calls f(text)
func (f ClassifierFunc) Classify(text string) models.Sentiment {
	return f(text)
}

var positiveTerms = []string{
	"excellent", "great", "best", "top", "leading", "recommended", "highly rated",
	"trusted", "reliable", "popular", "outstanding", "favorite", "love", "loved",
	"high quality", "innovative", "reputable", "well-known", "standout", "impressive",
}

var negativeTerms = []string{
	"poor", "bad", "worst", "avoid", "complaint", "complaints", "issues", "problems",
	"overpriced", "unreliable", "disappointing", "scam", "lawsuit", "recall",
	"negative reviews", "lacking", "low quality", "inconsistent", "criticized", "declining",
}

// LexiconClassifier is a lexical heuristic, not a model: it counts
// whole-word occurrences of fixed positive and negative term lists over the
// whole response and only leans one way when one side leads by more than one.
type LexiconClassifier struct {
	positive []*regexp.Regexp
	negative []*regexp.Regexp
}

// NewLexiconClassifier builds the default word-list classifier
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{
		positive: compileTerms(positiveTerms),
		negative: compileTerms(negativeTerms),
	}
}

func compileTerms(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return out
}

// Classify returns positive or negative when one list outnumbers the other by more than one
func (c *LexiconClassifier) Classify(text string) models.Sentiment {
	lower := strings.ToLower(text)
	positive := countTerms(lower, c.positive)
	negative := countTerms(lower, c.negative)

	switch {
	case positive-negative > 1:
		return models.SentimentPositive
	case negative-positive > 1:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func countTerms(text string, terms []*regexp.Regexp) int {
	count := 0
	for _, re := range terms {
		count += len(re.FindAllStringIndex(text, -1))
	}
	return count
}
