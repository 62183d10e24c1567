// Package traffic projects monthly visits from AI assistants out of a
// visibility check, using static market-share, click-through and sentiment
// tables.
package traffic

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/scoring"
)

// Options are the contextual assumptions of an estimate
type Options struct {
	// MonthlySearchVolume is the category's monthly searches; 0 uses the default
	MonthlySearchVolume int
	// CurrentMonthlyTraffic is echoed back for ROI reporting
	CurrentMonthlyTraffic int
	// Industry overrides the check's industry when set
	Industry string
	// History holds earlier checks of the same brand
	History []models.AICheckResult
	// Competitors are the names to project competitor traffic for
	Competitors []string
}

// Estimate converts a check into a traffic projection. The check is not modified.
func Estimate(check models.AICheckResult, opts Options) models.TrafficEstimate {
	assumptions := buildAssumptions(check, opts)
	_, benchmarked := IndustryShare(assumptions.Industry)

	platformEstimates := estimatePlatforms(check.Platforms, assumptions.EstimatedAISearches)

	total := 0
	for _, pe := range platformEstimates {
		total += pe.EstimatedVisits
	}

	return models.TrafficEstimate{
		Assumptions:          assumptions,
		TotalEstimatedVisits: total,
		Platforms:            platformEstimates,
		JourneyStages:        estimateStages(check.JourneyBreakdown, assumptions.EstimatedAISearches),
		Competitors:          estimateCompetitors(check.CompetitorComparison, opts.Competitors, assumptions.EstimatedAISearches),
		MissedOpportunity:    missedOpportunity(platformEstimates, check.JourneyBreakdown),
		Trend:                computeTrend(check, opts.History),
		Confidence:           rateConfidence(check, assumptions.SearchVolumeKnown, len(opts.History) > 0, benchmarked),
	}
}

func buildAssumptions(check models.AICheckResult, opts Options) models.EstimateAssumptions {
	industry := normalizeIndustry(opts.Industry)
	if industry == "" {
		industry = normalizeIndustry(check.Industry)
	}
	share, _ := IndustryShare(industry)

	volume, known := opts.MonthlySearchVolume, opts.MonthlySearchVolume > 0
	if !known {
		volume = DefaultMonthlySearchVolume
	}

	return models.EstimateAssumptions{
		MonthlySearchVolume:   volume,
		SearchVolumeKnown:     known,
		CurrentMonthlyTraffic: opts.CurrentMonthlyTraffic,
		Industry:              industry,
		IndustryShare:         share,
		EstimatedAISearches:   float64(volume) * share,
	}
}

// estimatePlatforms keeps the best-scoring result per platform so a platform
// queried in several stages is counted once
func estimatePlatforms(results []models.PlatformResult, aiSearches float64) []models.PlatformEstimate {
	var order []models.Platform
	best := make(map[models.Platform]models.PlatformResult)
	for _, r := range results {
		current, ok := best[r.Platform]
		if !ok {
			order = append(order, r.Platform)
			best[r.Platform] = r
			continue
		}
		if scoring.ResultScore(r) > scoring.ResultScore(current) {
			best[r.Platform] = r
		}
	}

	out := make([]models.PlatformEstimate, 0, len(order))
	for _, p := range order {
		r := best[p]
		share := MarketShare(p)
		addressable := aiSearches * share

		pe := models.PlatformEstimate{
			Platform:            p,
			DisplayName:         r.DisplayName,
			MarketShare:         share,
			AddressableSearches: round1(addressable),
			Mentioned:           r.Mentioned,
			VisibilityScore:     scoring.ResultScore(r) * 100 / scoring.MaxResultScore,
			Sentiment:           r.Sentiment,
			JourneyStage:        r.JourneyStage,
		}
		if r.Mentioned {
			pe.BestPosition = r.Position
			pe.ClickThroughRate = effectiveCTR(r)
			pe.EstimatedVisits = roundVisits(addressable * pe.ClickThroughRate)
		}
		out = append(out, pe)
	}
	return out
}

func effectiveCTR(r models.PlatformResult) float64 {
	sentiment, ok := sentimentMultiplier[r.Sentiment]
	if !ok {
		sentiment = sentimentMultiplier[models.SentimentNeutral]
	}
	return stageBaseCTR[r.JourneyStage] * positionMultiplier(r.Position) * sentiment
}

func estimateStages(breakdown map[models.JourneyStage]models.StageScore, aiSearches float64) []models.StageEstimate {
	out := make([]models.StageEstimate, 0, len(models.JourneyStages))
	for _, stage := range models.JourneyStages {
		searches := aiSearches * funnelWeight[stage]
		rate := float64(breakdown[stage].Score) / 100
		ctr := stageBaseCTR[stage]
		out = append(out, models.StageEstimate{
			JourneyStage:     stage,
			FunnelWeight:     funnelWeight[stage],
			StageSearches:    round1(searches),
			MentionRate:      rate,
			ClickThroughRate: ctr,
			EstimatedVisits:  roundVisits(searches * rate * ctr),
		})
	}
	return out
}

func estimateCompetitors(comparison map[string]models.CompetitorStats, names []string, aiSearches float64) []models.CompetitorEstimate {
	byKey := make(map[string]string, len(comparison))
	for name := range comparison {
		byKey[strings.ToLower(name)] = name
	}

	var out []models.CompetitorEstimate
	seen := make(map[string]bool)
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		original, ok := byKey[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true

		stats := comparison[original]
		if stats.MentionRate == 0 {
			continue
		}
		var position *int
		if stats.AvgPosition != nil {
			p := int(math.Round(*stats.AvgPosition))
			position = &p
		}
		out = append(out, models.CompetitorEstimate{
			Name:            original,
			MentionRate:     stats.MentionRate,
			EstimatedVisits: roundVisits(aiSearches * float64(stats.MentionRate) / 100 * competitorBaseCTR * positionMultiplier(position)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].EstimatedVisits > out[j].EstimatedVisits })
	return out
}

func missedOpportunity(platformEstimates []models.PlatformEstimate, breakdown map[models.JourneyStage]models.StageScore) models.MissedOpportunity {
	missed := models.MissedOpportunity{
		TopPlatforms: []models.MissedPlatform{},
		WeakStages:   []models.MissedStage{},
	}

	for _, pe := range platformEstimates {
		if pe.Mentioned {
			continue
		}
		potential := roundVisits(pe.AddressableSearches * missedOpportunityCTR)
		missed.PotentialVisits += potential
		missed.TopPlatforms = append(missed.TopPlatforms, models.MissedPlatform{
			Platform:        pe.Platform,
			DisplayName:     pe.DisplayName,
			PotentialVisits: potential,
			Advice:          platformAdvice[pe.Platform],
		})
	}
	sort.SliceStable(missed.TopPlatforms, func(i, j int) bool {
		return missed.TopPlatforms[i].PotentialVisits > missed.TopPlatforms[j].PotentialVisits
	})
	if len(missed.TopPlatforms) > maxMissedPlatforms {
		missed.TopPlatforms = missed.TopPlatforms[:maxMissedPlatforms]
	}

	stages := make([]models.JourneyStage, len(models.JourneyStages))
	copy(stages, models.JourneyStages)
	sort.SliceStable(stages, func(i, j int) bool { return funnelWeight[stages[i]] > funnelWeight[stages[j]] })

	for _, stage := range stages {
		s := breakdown[stage]
		if s.Results == 0 || s.Score >= weakStageMentionRate {
			continue
		}
		missed.WeakStages = append(missed.WeakStages, models.MissedStage{
			JourneyStage: stage,
			MentionRate:  s.Score,
			Advice:       stageAdvice[stage],
		})
		if len(missed.WeakStages) == maxWeakStages {
			break
		}
	}
	return missed
}

// computeTrend compares against the most recent historical check; nil without history
func computeTrend(check models.AICheckResult, history []models.AICheckResult) *models.TrendBlock {
	if len(history) == 0 {
		return nil
	}

	latest := history[0]
	for _, h := range history[1:] {
		if h.CheckedAt.After(latest.CheckedAt) {
			latest = h
		}
	}

	var change float64
	switch {
	case latest.AEOScore > 0:
		change = float64(check.AEOScore-latest.AEOScore) / float64(latest.AEOScore) * 100
	case check.AEOScore > 0:
		change = 100
	}
	change = round1(change)

	direction := models.TrendStable
	switch {
	case change > trendThreshold:
		direction = models.TrendUp
	case change < -trendThreshold:
		direction = models.TrendDown
	}

	return &models.TrendBlock{
		PreviousScore: latest.AEOScore,
		CurrentScore:  check.AEOScore,
		ChangePercent: change,
		Direction:     direction,
		DataPoints:    len(history) + 1,
	}
}

func rateConfidence(check models.AICheckResult, volumeKnown, hasHistory, benchmarked bool) models.ConfidenceRating {
	points := 0
	var factors []string

	covered := make(map[models.Platform]bool)
	for _, r := range check.Platforms {
		covered[r.Platform] = true
	}
	switch n := len(covered); {
	case n >= 8:
		points += 25
		factors = append(factors, fmt.Sprintf("Broad platform coverage (%d platforms)", n))
	case n >= 4:
		points += 15
		factors = append(factors, fmt.Sprintf("Moderate platform coverage (%d platforms)", n))
	default:
		points += 5
		factors = append(factors, fmt.Sprintf("Limited platform coverage (%d platforms)", n))
	}

	if volumeKnown {
		points += 25
		factors = append(factors, "Search volume supplied")
	} else {
		factors = append(factors, "Default search volume assumed")
	}

	if hasHistory {
		points += 20
		factors = append(factors, "Historical checks available for trend")
	}

	if benchmarked {
		points += 15
		factors = append(factors, "Industry benchmark available")
	} else {
		factors = append(factors, "Generic industry share assumed")
	}

	if check.Citations.Total > 0 {
		points += 15
		factors = append(factors, "Responses contained citations")
	}

	level := models.ConfidenceLow
	switch {
	case points >= 60:
		level = models.ConfidenceHigh
	case points >= 35:
		level = models.ConfidenceMedium
	}

	return models.ConfidenceRating{Level: level, Points: points, Factors: factors}
}

func normalizeIndustry(industry string) string {
	return strings.ToLower(strings.TrimSpace(industry))
}

func roundVisits(v float64) int {
	return int(math.Round(v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
