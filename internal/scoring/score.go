// Package scoring turns per-platform results into the aggregate visibility
// score, journey breakdown, competitor gap analysis and recommendations.
package scoring

import (
	"math"

	"github.com/brandpulse/ai-visibility/internal/models"
)

const (
	// MaxResultScore is the ceiling of a single result's score
	MaxResultScore = 25

	baseMentionScore     = 15
	citationPoints       = 2
	maxCitationCredit    = 5
	positiveSentiment    = 5
	neutralSentiment     = 2
	firstPositionBonus   = 5
	secondPositionBonus  = 3
	topFivePositionBonus = 1
)

// ResultScore scores one result out of MaxResultScore; unmentioned results score 0
func ResultScore(r models.PlatformResult) int {
	if !r.Mentioned {
		return 0
	}

	score := baseMentionScore

	if r.Position != nil {
		switch p := *r.Position; {
		case p == 1:
			score += firstPositionBonus
		case p == 2:
			score += secondPositionBonus
		case p >= 3 && p <= 5:
			score += topFivePositionBonus
		}
	}

	switch r.Sentiment {
	case models.SentimentPositive:
		score += positiveSentiment
	case models.SentimentNeutral:
		score += neutralSentiment
	}

	credit := 0
	for _, c := range r.Citations {
		if c.IsOwnSite {
			credit += citationPoints
		}
	}
	if credit > maxCitationCredit {
		credit = maxCitationCredit
	}
	score += credit

	if score > MaxResultScore {
		score = MaxResultScore
	}
	return score
}

// AEOScore normalizes the summed result scores to a 0-100 percentage. Any
// mention keeps the score above zero.
func AEOScore(results []models.PlatformResult) int {
	if len(results) == 0 {
		return 0
	}

	total := 0
	for _, r := range results {
		total += ResultScore(r)
	}

	score := int(math.Round(float64(total) / float64(len(results)*MaxResultScore) * 100))
	if score == 0 && total > 0 {
		score = 1
	}
	return clamp(score, 0, 100)
}

// JourneyBreakdown scores each stage by its mention rate; all four stages are always present
func JourneyBreakdown(results []models.PlatformResult) map[models.JourneyStage]models.StageScore {
	type tally struct {
		total     int
		mentioned int
		platforms map[models.Platform]bool
	}

	tallies := make(map[models.JourneyStage]*tally, len(models.JourneyStages))
	for _, stage := range models.JourneyStages {
		tallies[stage] = &tally{platforms: make(map[models.Platform]bool)}
	}

	for _, r := range results {
		t, ok := tallies[r.JourneyStage]
		if !ok {
			continue
		}
		t.total++
		if r.Mentioned {
			t.mentioned++
			t.platforms[r.Platform] = true
		}
	}

	out := make(map[models.JourneyStage]models.StageScore, len(tallies))
	for stage, t := range tallies {
		out[stage] = models.StageScore{
			Score:               percent(t.mentioned, t.total),
			PlatformsMentioning: len(t.platforms),
			Results:             t.total,
		}
	}
	return out
}

// percent is round(part/whole*100), or 0 when whole is 0
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
