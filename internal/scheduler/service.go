package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/ai-visibility/internal/config"
)

// Runner is the scheduled visibility check
type Runner interface {
	RunScheduledCheck(ctx context.Context) error
}

// Service handles scheduling of visibility checks
type Service struct {
	config *config.Config
	runner Runner
	cron   *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, runner Runner) *Service {
	return &Service{
		config: cfg,
		runner: runner,
		cron:   cron.New(cron.WithSeconds()),
	}
}

// Expression returns the cron expression for a schedule name
func Expression(schedule string) string {
	if schedule == "daily" {
		// Run daily at 9 AM UTC
		return "0 0 9 * * *"
	}
	// Run weekly on Monday at 9 AM UTC
	return "0 0 9 * * MON"
}

// Start begins the scheduled checks
func (s *Service) Start() error {
	if s.config.BrandName == "" {
		logrus.Warn("BRAND_NAME is not set; scheduled checks are disabled")
		return nil
	}

	expr := Expression(s.config.CheckSchedule)
	_, err := s.cron.AddFunc(expr, func() {
		logrus.WithField("brand", s.config.BrandName).Info("Starting scheduled visibility check")
		if err := s.runner.RunScheduledCheck(context.Background()); err != nil {
			logrus.Errorf("Scheduled visibility check failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule (%s)", s.config.CheckSchedule, expr)
	return nil
}

// Entries reports how many jobs are registered
func (s *Service) Entries() int {
	return len(s.cron.Entries())
}

// Stop stops the scheduler and waits for a running check to finish
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
