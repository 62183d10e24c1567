package queries

import (
	"errors"
	"testing"

	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/platforms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_OnePromptPerStage(t *testing.T) {
	qs, err := Generate(Options{Brand: "Acme", Industry: "running shoes"})
	require.NoError(t, err)
	require.Len(t, qs, 4)

	for i, stage := range models.JourneyStages {
		assert.Equal(t, stage, qs[i].Stage)
		assert.NotContains(t, qs[i].Text, "{")
	}
	assert.Contains(t, qs[0].Text, "running shoes")
	assert.Contains(t, qs[3].Text, "Acme")
}

func TestGenerate_PerStageIsClamped(t *testing.T) {
	qs, err := Generate(Options{Brand: "Acme", Stages: []models.JourneyStage{models.StageDecision}, PerStage: 10})
	require.NoError(t, err)
	assert.Len(t, qs, 3)
	for _, q := range qs {
		assert.Equal(t, models.StageDecision, q.Stage)
	}
}

func TestGenerate_IndustryFallback(t *testing.T) {
	qs, err := Generate(Options{Brand: "Acme", Stages: []models.JourneyStage{models.StageAwareness}})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Contains(t, qs[0].Text, "products")
}

func TestGenerate_RegionLocalization(t *testing.T) {
	qs, err := Generate(Options{Brand: "Acme", Region: models.RegionDE, Stages: []models.JourneyStage{models.StageBranded}})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Contains(t, qs[0].Text, "Germany")
	assert.Equal(t, models.RegionDE, qs[0].Region)

	qs, err = Generate(Options{Brand: "Acme", Region: models.RegionUS, Stages: []models.JourneyStage{models.StageBranded}})
	require.NoError(t, err)
	assert.NotContains(t, qs[0].Text, "shopping in")
}

func TestGenerate_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{name: "Empty brand", opts: Options{Brand: ""}, field: "brand"},
		{name: "Whitespace brand", opts: Options{Brand: "   "}, field: "brand"},
		{name: "Unknown stage", opts: Options{Brand: "Acme", Stages: []models.JourneyStage{"retention"}}, field: "journey stage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.opts)
			var invalid *models.InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestPlan_AddsExtensionPrompts(t *testing.T) {
	opts := Options{Brand: "Acme", Industry: "coffee"}
	qs, err := Generate(opts)
	require.NoError(t, err)

	targets := []platforms.Info{
		platforms.MustLookup(models.PlatformChatGPT),
		platforms.MustLookup(models.PlatformAIOverview),
	}
	tasks := Plan(targets, qs, opts)

	// 4 regular prompts each, plus 2 search-style prompts for AI Overviews
	require.Len(t, tasks, 10)
	assert.Equal(t, models.PlatformChatGPT, tasks[0].Platform.Platform)
	assert.Equal(t, models.PlatformAIOverview, tasks[9].Platform.Platform)
	assert.Equal(t, "Acme reviews", tasks[9].Query)
}

func TestPlan_ExtensionRespectsStageFilter(t *testing.T) {
	opts := Options{Brand: "Acme", Stages: []models.JourneyStage{models.StageDecision}}
	qs, err := Generate(opts)
	require.NoError(t, err)

	tasks := Plan([]platforms.Info{platforms.MustLookup(models.PlatformAIOverview)}, qs, opts)
	assert.Len(t, tasks, 1)
}
