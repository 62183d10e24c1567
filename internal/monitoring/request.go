package monitoring

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/brandpulse/ai-visibility/internal/analyzer"
	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/platforms"
	"github.com/brandpulse/ai-visibility/internal/queries"
	"github.com/brandpulse/ai-visibility/internal/scoring"
	"github.com/brandpulse/ai-visibility/internal/traffic"
)

// CheckRequest asks for one visibility check of a brand
type CheckRequest struct {
	Brand           string   `json:"brand" validate:"required,max=100"`
	Domain          string   `json:"domain,omitempty" validate:"omitempty,max=253"`
	Industry        string   `json:"industry,omitempty" validate:"omitempty,max=60"`
	Region          string   `json:"region,omitempty" validate:"omitempty,max=8"`
	Competitors     []string `json:"competitors,omitempty" validate:"max=20,dive,required,max=100"`
	Stages          []string `json:"stages,omitempty" validate:"max=4,dive,required"`
	Platforms       []string `json:"platforms,omitempty" validate:"max=10,dive,required"`
	Tier            string   `json:"tier,omitempty"`
	PromptsPerStage int      `json:"promptsPerStage,omitempty" validate:"gte=0,lte=3"`
}

// EstimateRequest carries the traffic assumptions for an estimate
type EstimateRequest struct {
	MonthlySearchVolume   int      `json:"monthlySearchVolume,omitempty" validate:"gte=0"`
	CurrentMonthlyTraffic int      `json:"currentMonthlyTraffic,omitempty" validate:"gte=0"`
	Industry              string   `json:"industry,omitempty" validate:"omitempty,max=60"`
	Competitors           []string `json:"competitors,omitempty" validate:"max=20,dive,required"`
	// History overrides stored history when non-nil
	History []models.AICheckResult `json:"history,omitempty"`
	// UseHistory loads earlier checks of the brand from storage
	UseHistory bool `json:"useHistory,omitempty"`
}

// SampleInput is one measured platform in a correlation request
type SampleInput struct {
	Platform        string `json:"platform" validate:"required"`
	EstimatedVisits int    `json:"estimatedVisits" validate:"gte=0"`
	ActualVisits    int    `json:"actualVisits" validate:"gte=0"`
}

// CorrelateRequest compares estimates with analytics data, either as explicit
// samples or as an estimate plus measured visits per platform
type CorrelateRequest struct {
	Samples  []SampleInput           `json:"samples,omitempty" validate:"dive"`
	Estimate *models.TrafficEstimate `json:"estimate,omitempty"`
	Actual   map[string]int          `json:"actual,omitempty" validate:"dive,gte=0"`
}

// checkPlan is a validated request resolved against the registry
type checkPlan struct {
	subject scoring.Subject
	target  analyzer.Target
	tasks   []queries.Task
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// invalidInput converts validator failures into the domain's input error
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return models.NewInvalidInput(fe.Field(), fmt.Sprint(fe.Value()), fmt.Sprintf("failed %q validation", fe.Tag()))
	}
	return models.NewInvalidInput("request", "", err.Error())
}

func (s *Service) plan(req CheckRequest) (*checkPlan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}
	if err := queries.ValidateBrand(req.Brand); err != nil {
		return nil, err
	}

	region, err := platforms.ParseRegion(req.Region)
	if err != nil {
		return nil, err
	}

	targets, err := s.resolvePlatforms(req)
	if err != nil {
		return nil, err
	}

	var stages []models.JourneyStage
	for _, stage := range req.Stages {
		stages = append(stages, models.JourneyStage(strings.ToLower(strings.TrimSpace(stage))))
	}

	perStage := req.PromptsPerStage
	if perStage == 0 {
		perStage = s.config.PromptsPerStage
	}

	brand := strings.TrimSpace(req.Brand)
	opts := queries.Options{
		Brand:    brand,
		Industry: strings.TrimSpace(req.Industry),
		Region:   region,
		Stages:   stages,
		PerStage: perStage,
	}
	qs, err := queries.Generate(opts)
	if err != nil {
		return nil, err
	}

	var competitors []string
	for _, c := range req.Competitors {
		if c = strings.TrimSpace(c); c != "" {
			competitors = append(competitors, c)
		}
	}
	domain := analyzer.NormalizeDomain(req.Domain)

	return &checkPlan{
		subject: scoring.Subject{
			Brand:       brand,
			Domain:      domain,
			Industry:    opts.Industry,
			Region:      region,
			Competitors: competitors,
		},
		target: analyzer.Target{Brand: brand, Domain: domain, Competitors: competitors},
		tasks:  queries.Plan(targets, qs, opts),
	}, nil
}

// resolvePlatforms honors an explicit platform list, otherwise the tier ceiling
func (s *Service) resolvePlatforms(req CheckRequest) ([]platforms.Info, error) {
	if len(req.Platforms) > 0 {
		seen := make(map[models.Platform]bool)
		var out []platforms.Info
		for _, key := range req.Platforms {
			p, err := platforms.ParsePlatform(key)
			if err != nil {
				return nil, err
			}
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, platforms.MustLookup(p))
		}
		return out, nil
	}

	tierKey := req.Tier
	if tierKey == "" {
		tierKey = s.config.PlatformTier
	}
	tier, err := platforms.ParseTier(tierKey)
	if err != nil {
		return nil, err
	}
	return platforms.ForTier(tier), nil
}

func (s *Service) correlationSamples(req CorrelateRequest) ([]models.CorrelationSample, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	if req.Estimate != nil && len(req.Actual) > 0 {
		actual := make(map[models.Platform]int, len(req.Actual))
		for key, visits := range req.Actual {
			p, err := platforms.ParsePlatform(key)
			if err != nil {
				return nil, err
			}
			actual[p] = visits
		}
		return traffic.SamplesFromEstimate(*req.Estimate, actual), nil
	}

	if len(req.Samples) == 0 {
		return nil, models.NewInvalidInput("samples", "", "at least one sample or an estimate with actual visits is required")
	}

	samples := make([]models.CorrelationSample, 0, len(req.Samples))
	for _, in := range req.Samples {
		p, err := platforms.ParsePlatform(in.Platform)
		if err != nil {
			return nil, err
		}
		samples = append(samples, models.CorrelationSample{
			Platform:        p,
			EstimatedVisits: in.EstimatedVisits,
			ActualVisits:    in.ActualVisits,
		})
	}
	return samples, nil
}
