package scoring

import (
	"fmt"

	"github.com/brandpulse/ai-visibility/internal/models"
)

const (
	maxRecommendations  = 8
	maxNamedPlatforms   = 3
	maxNamedCompetitors = 5
)

// Recommendations applies the rule set in fixed order and caps the list at 8
func Recommendations(subject Subject, results []models.PlatformResult, breakdown map[models.JourneyStage]models.StageScore, gaps []models.GapAnalysis) []string {
	if len(results) == 0 {
		return []string{fmt.Sprintf("No AI platform answered for %s. Re-run the check once the providers are reachable.", subject.Brand)}
	}

	var recs []string

	if missing := platformsWithoutMention(results); len(missing) > 0 {
		if len(missing) > maxNamedPlatforms {
			missing = missing[:maxNamedPlatforms]
		}
		recs = append(recs, fmt.Sprintf("Invest in content AI assistants learn from: %s never mentioned %s.",
			joinNames(missing), subject.Brand))
	}

	notMentioned, withoutOwnCitation, negative := 0, 0, 0
	for _, r := range results {
		if !r.Mentioned {
			notMentioned++
		}
		if !hasOwnCitation(r) {
			withoutOwnCitation++
		}
		if r.Mentioned && r.Sentiment == models.SentimentNegative {
			negative++
		}
	}

	if notMentioned*2 >= len(results) {
		recs = append(recs, fmt.Sprintf("Add machine-readable brand metadata (schema.org Organization and Product markup) and structured data so assistants can identify %s.",
			subject.Brand))
	}

	if withoutOwnCitation*2 > len(results) {
		site := "your site"
		if subject.Domain != "" {
			site = subject.Domain
		}
		recs = append(recs, fmt.Sprintf("Build citation-worthy content (original research, detailed guides, FAQs) on %s so assistants link to it as a source.", site))
	}

	if negative > 0 {
		recs = append(recs, fmt.Sprintf("Address negative perception: %d answers described %s negatively. Respond to common complaints publicly and refresh review coverage.",
			negative, subject.Brand))
	}

	if len(gaps) > 0 {
		recs = append(recs, gaps[0].Recommendation)
	}

	awareness, consideration := breakdown[models.StageAwareness], breakdown[models.StageConsideration]
	decision, branded := breakdown[models.StageDecision], breakdown[models.StageBranded]
	askedEarlyStages := awareness.Results > 0 || consideration.Results > 0
	if askedEarlyStages && awareness.Score == 0 && consideration.Score == 0 && (decision.Score > 0 || branded.Score > 0) {
		recs = append(recs, fmt.Sprintf("%s only shows up once shoppers already know the name. Target category-level awareness and comparison questions.",
			subject.Brand))
	}

	if names := detectedCompetitors(results); len(names) > 0 {
		recs = append(recs, fmt.Sprintf("Competitors appearing in AI answers: %s. Study the content and listings that earn them recommendations.",
			joinNames(names)))
	}

	if len(recs) == 0 {
		recs = append(recs, fmt.Sprintf("Strong AI visibility: %s is mentioned consistently and favorably. Keep content fresh and keep monitoring.", subject.Brand))
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// platformsWithoutMention returns display names of platforms that never mentioned the brand, in result order
func platformsWithoutMention(results []models.PlatformResult) []string {
	var order []models.Platform
	names := make(map[models.Platform]string)
	mentioned := make(map[models.Platform]bool)
	for _, r := range results {
		if _, ok := names[r.Platform]; !ok {
			order = append(order, r.Platform)
			names[r.Platform] = r.DisplayName
		}
		mentioned[r.Platform] = mentioned[r.Platform] || r.Mentioned
	}

	var out []string
	for _, p := range order {
		if !mentioned[p] {
			out = append(out, names[p])
		}
	}
	return out
}

func hasOwnCitation(r models.PlatformResult) bool {
	for _, c := range r.Citations {
		if c.IsOwnSite {
			return true
		}
	}
	return false
}

func detectedCompetitors(results []models.PlatformResult) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range results {
		for _, name := range r.Competitors {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
			if len(out) == maxNamedCompetitors {
				return out
			}
		}
	}
	return out
}
