package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/ai-visibility/internal/analyzer"
	"github.com/brandpulse/ai-visibility/internal/completion"
	"github.com/brandpulse/ai-visibility/internal/config"
	"github.com/brandpulse/ai-visibility/internal/invoker"
	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/notifications"
	"github.com/brandpulse/ai-visibility/internal/scoring"
	"github.com/brandpulse/ai-visibility/internal/storage"
	"github.com/brandpulse/ai-visibility/internal/traffic"
)

const (
	historyLimit     = 12
	scheduledTimeout = 30 * time.Minute
)

// Service orchestrates visibility checks, traffic estimates, history and reporting
type Service struct {
	config              *config.Config
	history             *storage.History
	notificationService notifications.NotificationInterface
	invoker             *invoker.Invoker
	validate            *validator.Validate
	metrics             *Metrics
	mu                  sync.RWMutex
	now                 func() time.Time
}

// Metrics holds run metrics
type Metrics struct {
	TotalChecks      int            `json:"total_checks"`
	LastRun          time.Time      `json:"last_run"`
	LastRunDuration  string         `json:"last_run_duration"`
	LastBrand        string         `json:"last_brand,omitempty"`
	LastScore        int            `json:"last_score"`
	PlatformCalls    int            `json:"platform_calls"`
	FailedCalls      int            `json:"failed_calls"`
	PlatformMentions map[string]int `json:"platform_mentions"`
	ErrorCount       int            `json:"error_count"`
}

// NewService creates a new monitoring service. store may be nil, which
// disables history.
func NewService(cfg *config.Config, store storage.StorageInterface, notificationService notifications.NotificationInterface, completer completion.Completer) *Service {
	s := &Service{
		config:              cfg,
		notificationService: notificationService,
		invoker: invoker.New(completer, analyzer.New(), invoker.Config{
			MaxConcurrency:    cfg.MaxConcurrency,
			CallTimeout:       cfg.CallTimeout,
			MaxTokens:         cfg.MaxTokens,
			Temperature:       cfg.Temperature,
			RequestsPerSecond: cfg.RequestsPerSecond,
		}),
		validate: newValidator(),
		metrics:  &Metrics{PlatformMentions: make(map[string]int)},
		now:      time.Now,
	}
	if store != nil {
		s.history = storage.NewHistory(store)
	}
	return s
}

// RunCheck validates the request, queries every planned platform and scores
// the answers. Invalid input fails before any network activity; provider
// failures only lower the score.
func (s *Service) RunCheck(ctx context.Context, req CheckRequest) (*models.AICheckResult, error) {
	start := s.now()

	plan, err := s.plan(req)
	if err != nil {
		s.recordError()
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{"brand": plan.subject.Brand, "region": plan.subject.Region})
	log.Infof("Starting visibility check with %d platform calls", len(plan.tasks))

	results := s.invoker.Run(ctx, plan.tasks, plan.target)

	check := scoring.Aggregate(plan.subject, results)
	check.ID = uuid.NewString()
	check.CheckedAt = s.now().UTC()

	s.updateMetrics(&check, s.now().Sub(start))

	if s.history != nil {
		if key, err := s.history.Save(ctx, check); err != nil {
			log.WithError(err).Warn("Failed to store check history")
		} else {
			log.WithField("blob", key).Debug("Stored check history")
		}
	}

	log.WithFields(logrus.Fields{
		"check_id":     check.ID,
		"aeo_score":    check.AEOScore,
		"failed_calls": check.FailedCalls,
	}).Infof("Visibility check completed in %v", s.now().Sub(start))

	return &check, nil
}

// Estimate projects traffic for a check. Request fields left empty fall back
// to the configured brand defaults.
func (s *Service) Estimate(ctx context.Context, check *models.AICheckResult, req EstimateRequest) (*models.TrafficEstimate, error) {
	if check == nil {
		return nil, models.NewInvalidInput("check", "", "check result is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	opts := traffic.Options{
		MonthlySearchVolume:   req.MonthlySearchVolume,
		CurrentMonthlyTraffic: req.CurrentMonthlyTraffic,
		Industry:              req.Industry,
		History:               req.History,
		Competitors:           req.Competitors,
	}
	if opts.MonthlySearchVolume == 0 {
		opts.MonthlySearchVolume = s.config.MonthlySearchVolume
	}
	if opts.CurrentMonthlyTraffic == 0 {
		opts.CurrentMonthlyTraffic = s.config.CurrentMonthlyTraffic
	}
	if len(opts.Competitors) == 0 {
		for name := range check.CompetitorComparison {
			opts.Competitors = append(opts.Competitors, name)
		}
		sort.Strings(opts.Competitors)
	}

	if opts.History == nil && req.UseHistory {
		history, err := s.LoadHistory(ctx, check.Brand, historyLimit+1)
		if err != nil {
			logrus.WithError(err).WithField("brand", check.Brand).Warn("Estimating without history")
		}
		for _, h := range history {
			if h.ID != check.ID {
				opts.History = append(opts.History, h)
			}
		}
	}

	estimate := traffic.Estimate(*check, opts)
	return &estimate, nil
}

// Correlate compares estimates with measured analytics visits
func (s *Service) Correlate(req CorrelateRequest) (*models.CorrelationReport, error) {
	samples, err := s.correlationSamples(req)
	if err != nil {
		return nil, err
	}
	report := traffic.Correlate(samples)
	return &report, nil
}

// LoadHistory returns up to limit stored checks of a brand, newest first
func (s *Service) LoadHistory(ctx context.Context, brand string, limit int) ([]models.AICheckResult, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Load(ctx, brand, limit)
}

// RunScheduledCheck checks the configured brand, reports the result and
// raises an alert when visibility is trending down
func (s *Service) RunScheduledCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, scheduledTimeout)
	defer cancel()

	check, err := s.RunCheck(ctx, s.configuredRequest())
	if err != nil {
		return fmt.Errorf("scheduled check failed: %w", err)
	}

	estimate, err := s.Estimate(ctx, check, EstimateRequest{UseHistory: true})
	if err != nil {
		return fmt.Errorf("traffic estimate failed: %w", err)
	}

	report := &models.Report{
		GeneratedAt: s.now().UTC(),
		Period:      s.config.CheckSchedule,
		Brand:       check.Brand,
		Check:       check,
		Traffic:     estimate,
	}
	if err := s.notificationService.SendReport(report); err != nil {
		s.recordError()
		return fmt.Errorf("failed to send report: %w", err)
	}

	if trend := estimate.Trend; trend != nil && trend.Direction == models.TrendDown {
		alert := &models.Alert{
			ID:    uuid.NewString(),
			Type:  "urgent",
			Title: fmt.Sprintf("AI visibility dropped for %s", check.Brand),
			Message: fmt.Sprintf("AEO score fell from %d to %d (%.1f%%) since the previous check.",
				trend.PreviousScore, trend.CurrentScore, trend.ChangePercent),
			Brand:     check.Brand,
			CreatedAt: s.now().UTC(),
		}
		if err := s.notificationService.SendAlert(alert); err != nil {
			s.recordError()
			return fmt.Errorf("failed to send alert: %w", err)
		}
	}

	return nil
}

func (s *Service) configuredRequest() CheckRequest {
	return CheckRequest{
		Brand:       s.config.BrandName,
		Domain:      s.config.BrandDomain,
		Industry:    s.config.BrandIndustry,
		Region:      s.config.BrandRegion,
		Competitors: s.config.Competitors,
		Stages:      s.config.JourneyStages,
		Tier:        s.config.PlatformTier,
	}
}

func (s *Service) updateMetrics(check *models.AICheckResult, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalChecks++
	s.metrics.LastRun = check.CheckedAt
	s.metrics.LastRunDuration = duration.String()
	s.metrics.LastBrand = check.Brand
	s.metrics.LastScore = check.AEOScore
	s.metrics.PlatformCalls += len(check.Platforms)
	s.metrics.FailedCalls += check.FailedCalls

	for _, r := range check.Platforms {
		if r.Mentioned {
			s.metrics.PlatformMentions[string(r.Platform)]++
		}
	}
}

func (s *Service) recordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.ErrorCount++
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
