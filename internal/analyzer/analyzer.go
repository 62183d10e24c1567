// Package analyzer derives structured visibility signals from one free-form
// model response: brand mention, list position, snippet, sentiment,
// competitors and citations. Every function here is pure.
package analyzer

import (
	"github.com/brandpulse/ai-visibility/internal/models"
)

// Target is the brand a response is analyzed for
type Target struct {
	Brand       string
	Domain      string
	Competitors []string
}

// Analysis is the structured outcome of analyzing one response
type Analysis struct {
	Mentioned   bool
	Position    *int
	Sentiment   models.Sentiment
	Snippet     string
	Competitors []string
	Citations   []models.Citation
}

// Analyzer runs the full analysis pipeline over a response
type Analyzer struct {
	classifier       SentimentClassifier
	knownCompetitors []string
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithClassifier swaps the sentiment strategy
func WithClassifier(c SentimentClassifier) Option {
	return func(a *Analyzer) {
		a.classifier = c
	}
}

// WithKnownCompetitors replaces the static competitor list
func WithKnownCompetitors(names []string) Option {
	return func(a *Analyzer) {
		a.knownCompetitors = names
	}
}

// New creates an analyzer with the lexicon sentiment classifier and the
// static marketplace/SEO-tool competitor list
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		classifier:       NewLexiconClassifier(),
		knownCompetitors: KnownCompetitors,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze derives every signal for one response. Sentiment and position are
// only evaluated when the brand is mentioned.
func (a *Analyzer) Analyze(text string, target Target) Analysis {
	variants := Variants(target.Brand)

	result := Analysis{
		Sentiment:   models.SentimentNeutral,
		Competitors: ExtractCompetitors(text, target.Brand, a.knownCompetitors, target.Competitors),
		Citations:   ExtractCitations(text, target.Domain),
	}

	if !containsVariant(text, variants) {
		return result
	}

	result.Mentioned = true
	result.Position = FindPosition(text, variants)
	result.Snippet = Snippet(text, variants)
	result.Sentiment = a.classifier.Classify(text)

	return result
}
