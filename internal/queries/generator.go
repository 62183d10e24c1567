// Package queries builds buyer-journey prompts for a brand and plans the calls
// that send them to each platform.
package queries

import (
	"strings"

	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/platforms"
)

const maxBrandLength = 100

// Query is one prompt tagged with the journey stage it represents
type Query struct {
	Stage  models.JourneyStage
	Text   string
	Region models.Region
}

// Options controls prompt generation
type Options struct {
	Brand    string
	Industry string
	Region   models.Region
	Stages   []models.JourneyStage // empty means all four
	PerStage int                   // prompts per stage, default 1
}

var templates = map[models.JourneyStage][]string{
	models.StageAwareness: {
		"What are the best {industry} brands right now?",
		"Which {industry} companies would you recommend, and why?",
		"I'm new to {industry}. Which brands should I look at first?",
	},
	models.StageConsideration: {
		"Compare the leading {industry} options, including {brand}. Which are the top choices?",
		"What are the best alternatives to {brand} for {industry}?",
		"How does {brand} stack up against other {industry} brands?",
	},
	models.StageDecision: {
		"Is {brand} worth buying? What are the best {industry} options to purchase today?",
		"Should I choose {brand} or another {industry} brand? Give me a ranked shortlist.",
		"Where is the best place to buy {brand} and what are the top {industry} deals?",
	},
	models.StageBranded: {
		"What is {brand} known for?",
		"What do customers say about {brand}? Are the reviews good?",
		"Tell me about {brand} and its most popular products.",
	},
}

// extension holds search-style prompts contributed by one platform
type extension struct {
	Stage    models.JourneyStage
	Template string
}

var extensions = map[models.Platform][]extension{
	models.PlatformAIOverview: {
		{Stage: models.StageAwareness, Template: "best {industry} brands"},
		{Stage: models.StageBranded, Template: "{brand} reviews"},
	},
}

// ValidateBrand rejects empty or oversized brand names
func ValidateBrand(brand string) error {
	trimmed := strings.TrimSpace(brand)
	if trimmed == "" {
		return models.NewInvalidInput("brand", brand, "brand name is required")
	}
	if len(trimmed) > maxBrandLength {
		return models.NewInvalidInput("brand", brand, "brand name is too long")
	}
	return nil
}

// ValidateStages rejects unknown journey stages
func ValidateStages(stages []models.JourneyStage) error {
	for _, stage := range stages {
		if _, ok := templates[stage]; !ok {
			return models.NewInvalidInput("journey stage", string(stage), "unknown journey stage")
		}
	}
	return nil
}

// Generate returns the prompts for every requested stage, in funnel order
func Generate(opts Options) ([]Query, error) {
	if err := ValidateBrand(opts.Brand); err != nil {
		return nil, err
	}
	if err := ValidateStages(opts.Stages); err != nil {
		return nil, err
	}

	perStage := opts.PerStage
	if perStage < 1 {
		perStage = 1
	}

	var out []Query
	for _, stage := range models.JourneyStages {
		if !wantsStage(opts.Stages, stage) {
			continue
		}
		stageTemplates := templates[stage]
		n := perStage
		if n > len(stageTemplates) {
			n = len(stageTemplates)
		}
		for _, tmpl := range stageTemplates[:n] {
			out = append(out, Query{
				Stage:  stage,
				Text:   localize(render(tmpl, opts.Brand, opts.Industry), opts.Region),
				Region: opts.Region,
			})
		}
	}

	return out, nil
}

// ExtensionQueries returns the extra prompts a platform contributes
func ExtensionQueries(p models.Platform, opts Options) []Query {
	var out []Query
	for _, ext := range extensions[p] {
		if !wantsStage(opts.Stages, ext.Stage) {
			continue
		}
		out = append(out, Query{
			Stage:  ext.Stage,
			Text:   localize(render(ext.Template, opts.Brand, opts.Industry), opts.Region),
			Region: opts.Region,
		})
	}
	return out
}

func wantsStage(stages []models.JourneyStage, stage models.JourneyStage) bool {
	if len(stages) == 0 {
		return true
	}
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

func render(tmpl, brand, industry string) string {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		industry = "products"
	}
	r := strings.NewReplacer("{brand}", strings.TrimSpace(brand), "{industry}", industry)
	return r.Replace(tmpl)
}

func localize(prompt string, region models.Region) string {
	if region == "" || region == models.RegionUS {
		return prompt
	}
	info, ok := platforms.LookupRegion(region)
	if !ok {
		return prompt
	}
	return prompt + " I'm shopping in " + info.Name + "."
}
