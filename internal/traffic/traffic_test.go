package traffic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/scoring"
)

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func mentioned(p models.Platform, name string, stage models.JourneyStage, position *int, sentiment models.Sentiment) models.PlatformResult {
	return models.PlatformResult{
		Platform: p, DisplayName: name, JourneyStage: stage,
		Mentioned: true, Position: position, Sentiment: sentiment,
		RawResponse: "Acme", Competitors: []string{}, Citations: []models.Citation{},
	}
}

func missed(p models.Platform, name string, stage models.JourneyStage) models.PlatformResult {
	return models.PlatformResult{
		Platform: p, DisplayName: name, JourneyStage: stage,
		Sentiment: models.SentimentNeutral, RawResponse: "nothing relevant",
		Competitors: []string{}, Citations: []models.Citation{},
	}
}

func checkOf(results ...models.PlatformResult) models.AICheckResult {
	return scoring.Aggregate(scoring.Subject{Brand: "Acme", Industry: "saas"}, results)
}

func TestEstimate_BetterVisibilityMeansMoreVisits(t *testing.T) {
	strong := Estimate(checkOf(mentioned(models.PlatformChatGPT, "ChatGPT", models.StageDecision, intPtr(1), models.SentimentPositive)), Options{})
	weak := Estimate(checkOf(mentioned(models.PlatformChatGPT, "ChatGPT", models.StageDecision, intPtr(3), models.SentimentNeutral)), Options{})

	// 10000 x 0.12 x 0.60 = 720 addressable searches
	assert.Equal(t, 69, strong.TotalEstimatedVisits)
	assert.Equal(t, 29, weak.TotalEstimatedVisits)
	assert.Greater(t, strong.TotalEstimatedVisits, weak.TotalEstimatedVisits)

	assert.Equal(t, DefaultMonthlySearchVolume, strong.Assumptions.MonthlySearchVolume)
	assert.False(t, strong.Assumptions.SearchVolumeKnown)
	assert.Equal(t, "saas", strong.Assumptions.Industry)
	assert.InDelta(t, 1200, strong.Assumptions.EstimatedAISearches, 0.001)
}

func TestEstimate_MergesPlatformAcrossStages(t *testing.T) {
	check := checkOf(
		mentioned(models.PlatformChatGPT, "ChatGPT", models.StageAwareness, intPtr(2), models.SentimentNeutral),
		mentioned(models.PlatformChatGPT, "ChatGPT", models.StageDecision, intPtr(1), models.SentimentPositive),
	)

	estimate := Estimate(check, Options{})

	require.Len(t, estimate.Platforms, 1)
	pe := estimate.Platforms[0]
	assert.Equal(t, models.StageDecision, pe.JourneyStage)
	assert.Equal(t, 100, pe.VisibilityScore)
	require.NotNil(t, pe.BestPosition)
	assert.Equal(t, 1, *pe.BestPosition)
	assert.InDelta(t, 0.096, pe.ClickThroughRate, 1e-9)
	assert.Equal(t, 69, pe.EstimatedVisits)
	assert.Equal(t, 69, estimate.TotalEstimatedVisits)
}

func TestEstimate_FullScenario(t *testing.T) {
	check := checkOf(
		mentioned(models.PlatformChatGPT, "ChatGPT", models.StageAwareness, intPtr(2), models.SentimentNeutral),
		mentioned(models.PlatformChatGPT, "ChatGPT", models.StageDecision, intPtr(1), models.SentimentPositive),
		missed(models.PlatformClaude, "Claude", models.StageAwareness),
		missed(models.PlatformGemini, "Gemini", models.StageConsideration),
		missed(models.PlatformPerplexity, "Perplexity", models.StageBranded),
	)

	estimate := Estimate(check, Options{})

	require.Len(t, estimate.Platforms, 4)
	assert.Equal(t, 69, estimate.TotalEstimatedVisits)
	for _, pe := range estimate.Platforms[1:] {
		assert.False(t, pe.Mentioned)
		assert.Equal(t, 0, pe.EstimatedVisits)
		assert.Nil(t, pe.BestPosition)
	}

	require.Len(t, estimate.JourneyStages, 4)
	decision := estimate.JourneyStages[2]
	assert.Equal(t, models.StageDecision, decision.JourneyStage)
	assert.InDelta(t, 1.0, decision.MentionRate, 1e-9)
	// 1200 x 0.35 x 1.0 x 0.08
	assert.Equal(t, 34, decision.EstimatedVisits)
	assert.InDelta(t, 0.5, estimate.JourneyStages[0].MentionRate, 1e-9)

	mo := estimate.MissedOpportunity
	require.Len(t, mo.TopPlatforms, 3)
	assert.Equal(t, models.PlatformGemini, mo.TopPlatforms[0].Platform)
	assert.Equal(t, 23, mo.TopPlatforms[0].PotentialVisits)
	assert.Equal(t, models.PlatformPerplexity, mo.TopPlatforms[1].Platform)
	assert.Equal(t, 14, mo.TopPlatforms[1].PotentialVisits)
	assert.Equal(t, models.PlatformClaude, mo.TopPlatforms[2].Platform)
	assert.Equal(t, 7, mo.TopPlatforms[2].PotentialVisits)
	assert.Equal(t, 44, mo.PotentialVisits)
	for _, mp := range mo.TopPlatforms {
		assert.NotEmpty(t, mp.Advice)
	}

	require.Len(t, mo.WeakStages, 2)
	assert.Equal(t, models.StageConsideration, mo.WeakStages[0].JourneyStage)
	assert.Equal(t, models.StageBranded, mo.WeakStages[1].JourneyStage)
	assert.NotEmpty(t, mo.WeakStages[0].Advice)

	assert.Nil(t, estimate.Trend)
	assert.Equal(t, models.ConfidenceLow, estimate.Confidence.Level)
	assert.Equal(t, 30, estimate.Confidence.Points)
}

func TestEstimate_MissedListsTopThreeOnly(t *testing.T) {
	check := checkOf(
		missed(models.PlatformChatGPT, "ChatGPT", models.StageAwareness),
		missed(models.PlatformClaude, "Claude", models.StageAwareness),
		missed(models.PlatformGemini, "Gemini", models.StageAwareness),
		missed(models.PlatformPerplexity, "Perplexity", models.StageAwareness),
		missed(models.PlatformMistral, "Mistral", models.StageAwareness),
	)

	mo := Estimate(check, Options{}).MissedOpportunity

	require.Len(t, mo.TopPlatforms, 3)
	assert.Equal(t, models.PlatformChatGPT, mo.TopPlatforms[0].Platform)
	// 108 + 7 + 23 + 14 + 2, including platforms past the top three
	assert.Equal(t, 154, mo.PotentialVisits)
	require.Len(t, mo.WeakStages, 1)
	assert.Equal(t, models.StageAwareness, mo.WeakStages[0].JourneyStage)
}

func TestEstimate_UnknownIndustryFallsBack(t *testing.T) {
	check := checkOf(mentioned(models.PlatformChatGPT, "ChatGPT", models.StageBranded, nil, models.SentimentNeutral))

	estimate := Estimate(check, Options{Industry: "Underwater Basket Weaving", MonthlySearchVolume: 20000})

	assert.Equal(t, DefaultIndustryShare, estimate.Assumptions.IndustryShare)
	assert.True(t, estimate.Assumptions.SearchVolumeKnown)
	assert.InDelta(t, 1600, estimate.Assumptions.EstimatedAISearches, 0.001)
	assert.Contains(t, estimate.Confidence.Factors, "Generic industry share assumed")
}

func TestEstimate_CompetitorProjection(t *testing.T) {
	check := checkOf(mentioned(models.PlatformChatGPT, "ChatGPT", models.StageAwareness, nil, models.SentimentNeutral))
	check.CompetitorComparison = map[string]models.CompetitorStats{
		"Globex":  {MentionRate: 50, AvgPosition: floatPtr(1.0)},
		"Initech": {MentionRate: 25},
		"Hooli":   {MentionRate: 0},
	}

	estimate := Estimate(check, Options{Competitors: []string{"initech", "Globex", "Hooli", "Unknown", "globex"}})

	require.Len(t, estimate.Competitors, 2)
	assert.Equal(t, models.CompetitorEstimate{Name: "Globex", MentionRate: 50, EstimatedVisits: 30}, estimate.Competitors[0])
	assert.Equal(t, models.CompetitorEstimate{Name: "Initech", MentionRate: 25, EstimatedVisits: 4}, estimate.Competitors[1])
}

func TestEstimate_Trend(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	history := []models.AICheckResult{
		{AEOScore: 50, CheckedAt: now.Add(-24 * time.Hour)},
		{AEOScore: 40, CheckedAt: now.Add(-72 * time.Hour)},
	}

	tests := []struct {
		name      string
		current   int
		history   []models.AICheckResult
		direction string
		change    float64
	}{
		{"down against most recent", 45, history, models.TrendDown, -10},
		{"within threshold is stable", 52, history, models.TrendStable, 4},
		{"up", 60, history, models.TrendUp, 20},
		{"from zero", 10, []models.AICheckResult{{AEOScore: 0, CheckedAt: now}}, models.TrendUp, 100},
		{"zero to zero", 0, []models.AICheckResult{{AEOScore: 0, CheckedAt: now}}, models.TrendStable, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := checkOf(missed(models.PlatformChatGPT, "ChatGPT", models.StageAwareness))
			check.AEOScore = tt.current

			trend := Estimate(check, Options{History: tt.history}).Trend

			require.NotNil(t, trend)
			assert.Equal(t, tt.direction, trend.Direction)
			assert.InDelta(t, tt.change, trend.ChangePercent, 0.001)
			assert.Equal(t, tt.current, trend.CurrentScore)
			assert.Equal(t, len(tt.history)+1, trend.DataPoints)
		})
	}
}

func TestEstimate_HighConfidence(t *testing.T) {
	results := []models.PlatformResult{
		mentioned(models.PlatformChatGPT, "ChatGPT", models.StageAwareness, nil, models.SentimentNeutral),
		missed(models.PlatformClaude, "Claude", models.StageAwareness),
		missed(models.PlatformGemini, "Gemini", models.StageAwareness),
		missed(models.PlatformPerplexity, "Perplexity", models.StageAwareness),
	}
	results[0].Citations = []models.Citation{{URL: "https://acme.com", Domain: "acme.com", IsOwnSite: true}}

	estimate := Estimate(checkOf(results...), Options{
		MonthlySearchVolume: 5000,
		History:             []models.AICheckResult{{AEOScore: 10}},
	})

	assert.Equal(t, models.ConfidenceHigh, estimate.Confidence.Level)
	assert.Equal(t, 90, estimate.Confidence.Points)
	assert.Len(t, estimate.Confidence.Factors, 5)
}

func TestEstimate_DoesNotModifyCheck(t *testing.T) {
	check := checkOf(mentioned(models.PlatformChatGPT, "ChatGPT", models.StageDecision, intPtr(1), models.SentimentPositive))
	before := check.AEOScore

	Estimate(check, Options{History: []models.AICheckResult{{AEOScore: 1}}})

	assert.Equal(t, before, check.AEOScore)
	assert.Len(t, check.Platforms, 1)
}

func TestCorrelate(t *testing.T) {
	report := Correlate([]models.CorrelationSample{
		{Platform: models.PlatformChatGPT, EstimatedVisits: 90, ActualVisits: 100},
		{Platform: models.PlatformClaude, EstimatedVisits: 0, ActualVisits: 0},
		{Platform: models.PlatformGemini, EstimatedVisits: 10, ActualVisits: 0},
		{Platform: models.PlatformPerplexity, EstimatedVisits: 120, ActualVisits: 100},
		{Platform: models.PlatformGrok, EstimatedVisits: 0, ActualVisits: 0},
	})

	require.Len(t, report.Platforms, 5)
	assert.Equal(t, 90.0, report.Platforms[0].AccuracyPercent)
	assert.Equal(t, 100.0, report.Platforms[1].AccuracyPercent)
	assert.Equal(t, 0.0, report.Platforms[2].AccuracyPercent)
	assert.Equal(t, 80.0, report.Platforms[3].AccuracyPercent)
	assert.Equal(t, 220, report.TotalEstimated)
	assert.Equal(t, 200, report.TotalActual)
	assert.Equal(t, 90.0, report.OverallAccuracy)
}

func TestCorrelate_NeverNegative(t *testing.T) {
	report := Correlate([]models.CorrelationSample{{Platform: models.PlatformChatGPT, EstimatedVisits: 500, ActualVisits: 100}})
	assert.Equal(t, 0.0, report.Platforms[0].AccuracyPercent)
	assert.Equal(t, 0.0, report.OverallAccuracy)

	empty := Correlate(nil)
	assert.NotNil(t, empty.Platforms)
	assert.Equal(t, 100.0, empty.OverallAccuracy)
}

func TestSamplesFromEstimate(t *testing.T) {
	estimate := Estimate(checkOf(
		mentioned(models.PlatformChatGPT, "ChatGPT", models.StageDecision, intPtr(1), models.SentimentPositive),
		missed(models.PlatformClaude, "Claude", models.StageDecision),
	), Options{})

	samples := SamplesFromEstimate(estimate, map[models.Platform]int{
		models.PlatformChatGPT: 80,
		models.PlatformGrok:    5,
	})

	require.Len(t, samples, 1)
	assert.Equal(t, models.CorrelationSample{Platform: models.PlatformChatGPT, EstimatedVisits: 69, ActualVisits: 80}, samples[0])
}
