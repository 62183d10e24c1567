package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/brandpulse/ai-visibility/internal/analyzer"
	"github.com/brandpulse/ai-visibility/internal/models"
)

var stageContent = map[models.JourneyStage]string{
	models.StageAwareness:     "category guides and \"best of\" roundups",
	models.StageConsideration: "comparison and alternatives pages",
	models.StageDecision:      "pricing, review and buying-guide pages",
}

// GapAnalysis finds platform/stage groups (branded stage excluded) where the
// brand is absent and at least one supplied competitor is present. Each
// competitor is re-scanned in the raw responses independently of the
// pre-extracted competitor list.
func GapAnalysis(results []models.PlatformResult, brand string, competitors []string) []models.GapAnalysis {
	type groupKey struct {
		platform models.Platform
		stage    models.JourneyStage
	}

	var order []groupKey
	groups := make(map[groupKey][]models.PlatformResult)
	for _, r := range results {
		if r.JourneyStage == models.StageBranded {
			continue
		}
		k := groupKey{r.Platform, r.JourneyStage}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	names := uniqueNames(competitors)
	gaps := []models.GapAnalysis{}

	for _, k := range order {
		group := groups[k]

		brandSeen, competitorSeen := false, false
		for _, r := range group {
			brandSeen = brandSeen || r.Mentioned
			competitorSeen = competitorSeen || len(r.Competitors) > 0
		}
		if brandSeen || !competitorSeen {
			continue
		}

		var states []models.MentionState
		var visible []string
		for _, name := range names {
			state := models.MentionState{Name: name}
			for _, r := range group {
				if !analyzer.MentionsCompetitor(r.RawResponse, name) {
					continue
				}
				state.Mentioned = true
				if state.Position == nil {
					state.Position = analyzer.CompetitorPosition(r.RawResponse, name)
				}
			}
			if state.Mentioned {
				visible = append(visible, name)
			}
			states = append(states, state)
		}
		if len(visible) == 0 {
			continue
		}

		gaps = append(gaps, models.GapAnalysis{
			Platform:       k.platform,
			DisplayName:    group[0].DisplayName,
			JourneyStage:   k.stage,
			Query:          group[0].Query,
			YourBrand:      models.MentionState{Mentioned: false},
			Competitors:    states,
			Opportunity:    opportunityFor(len(visible)),
			Recommendation: gapRecommendation(brand, group[0].DisplayName, k.stage, visible),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Opportunity.Rank() > gaps[j].Opportunity.Rank()
	})
	return gaps
}

func opportunityFor(mentionedCompetitors int) models.Opportunity {
	switch {
	case mentionedCompetitors >= 2:
		return models.OpportunityHigh
	case mentionedCompetitors == 1:
		return models.OpportunityMedium
	default:
		return models.OpportunityLow
	}
}

func gapRecommendation(brand, platform string, stage models.JourneyStage, visible []string) string {
	content, ok := stageContent[stage]
	if !ok {
		content = "targeted content"
	}
	return fmt.Sprintf("%s recommends %s for %s queries but not %s. Publish %s that position %s against them.",
		platform, joinNames(visible), stage, brand, content, brand)
}

// CompetitorComparison reports how often each supplied competitor appears
// across all results. Sentiment toward competitors is not classified, so
// every mention is tallied as neutral.
func CompetitorComparison(results []models.PlatformResult, competitors []string) map[string]models.CompetitorStats {
	out := make(map[string]models.CompetitorStats)
	for _, name := range uniqueNames(competitors) {
		count := 0
		var positions []int
		for _, r := range results {
			if !analyzer.MentionsCompetitor(r.RawResponse, name) {
				continue
			}
			count++
			if p := analyzer.CompetitorPosition(r.RawResponse, name); p != nil {
				positions = append(positions, *p)
			}
		}

		stats := models.CompetitorStats{
			MentionRate:     percent(count, len(results)),
			SentimentCounts: models.SentimentCounts{Neutral: count},
		}
		if len(positions) > 0 {
			sum := 0
			for _, p := range positions {
				sum += p
			}
			avg := math.Round(float64(sum)/float64(len(positions))*10) / 10
			stats.AvgPosition = &avg
		}
		out[name] = stats
	}
	return out
}

// uniqueNames trims names and drops blanks and case-insensitive duplicates
func uniqueNames(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
