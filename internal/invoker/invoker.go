// Package invoker fans (platform, stage, prompt) tasks out to the completion
// capability with bounded concurrency and isolates every call's failure.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/brandpulse/ai-visibility/internal/analyzer"
	"github.com/brandpulse/ai-visibility/internal/completion"
	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/platforms"
	"github.com/brandpulse/ai-visibility/internal/queries"
)

var errEmptyCompletion = errors.New("empty completion")

// Config bounds how the invoker talks to the completion capability
type Config struct {
	MaxConcurrency    int
	CallTimeout       time.Duration
	MaxTokens         int
	Temperature       float64
	RequestsPerSecond float64 // 0 disables the shared rate budget
}

// DefaultConfig returns the defaults: 5 in flight, 30s per call, no retries
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 5,
		CallTimeout:    30 * time.Second,
		MaxTokens:      800,
		Temperature:    0.7,
	}
}

// Invoker runs tasks against the completion capability
type Invoker struct {
	completer completion.Completer
	analyzer  *analyzer.Analyzer
	config    Config
	limiter   *rate.Limiter
}

// New creates an invoker; zero config fields fall back to DefaultConfig.
// Temperature 0 is a valid setting, only a negative one is replaced.
func New(c completion.Completer, a *analyzer.Analyzer, cfg Config) *Invoker {
	defaults := DefaultConfig()
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaults.MaxConcurrency
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaults.CallTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = defaults.Temperature
	}
	if a == nil {
		a = analyzer.New()
	}

	inv := &Invoker{
		completer: c,
		analyzer:  a,
		config:    cfg,
	}
	if cfg.RequestsPerSecond > 0 {
		inv.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return inv
}

// Run returns exactly one result per task, in dispatch order. Once ctx is
// done no further tasks are dispatched; those and any abandoned in-flight
// calls come back as neutral results.
func (inv *Invoker) Run(ctx context.Context, tasks []queries.Task, target analyzer.Target) []models.PlatformResult {
	results := make([]models.PlatformResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(inv.config.MaxConcurrency)

	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			results[i] = neutralResult(task, err)
			continue
		}
		g.Go(func() error {
			results[i] = inv.call(ctx, task, target)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (inv *Invoker) call(ctx context.Context, task queries.Task, target analyzer.Target) (result models.PlatformResult) {
	log := logrus.WithFields(logrus.Fields{
		"platform": task.Platform.Platform,
		"brand":    target.Brand,
		"stage":    task.Stage,
		"query":    task.Query,
	})

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Completion call panicked: %v", r)
			result = neutralResult(task, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return neutralResult(task, err)
	}

	if inv.limiter != nil {
		if err := inv.limiter.Wait(ctx); err != nil {
			log.Warnf("Rate limit wait abandoned: %v", err)
			return neutralResult(task, err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, inv.config.CallTimeout)
	defer cancel()

	start := time.Now()
	text, err := inv.completer.Complete(callCtx, completion.Request{
		SystemPrompt: platforms.SystemPrompt(task.Region),
		UserPrompt:   task.Query,
		Model:        task.Platform.ModelID,
		MaxTokens:    inv.config.MaxTokens,
		Temperature:  inv.config.Temperature,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyCompletion
	}
	if err != nil {
		log.Warnf("Completion call failed after %v: %v", time.Since(start), err)
		return neutralResult(task, err)
	}

	log.Debugf("Completion call succeeded in %v (%d chars)", time.Since(start), len(text))

	analysis := inv.analyzer.Analyze(text, target)
	return models.PlatformResult{
		Platform:     task.Platform.Platform,
		DisplayName:  task.Platform.DisplayName,
		Tier:         task.Platform.Tier,
		Mentioned:    analysis.Mentioned,
		Position:     analysis.Position,
		Sentiment:    analysis.Sentiment,
		Snippet:      analysis.Snippet,
		RawResponse:  text,
		Competitors:  analysis.Competitors,
		Citations:    analysis.Citations,
		JourneyStage: task.Stage,
		Region:       task.Region,
		Query:        task.Query,
	}
}

// neutralResult stands in for a call that failed or never ran
func neutralResult(task queries.Task, err error) models.PlatformResult {
	result := models.PlatformResult{
		Platform:     task.Platform.Platform,
		DisplayName:  task.Platform.DisplayName,
		Tier:         task.Platform.Tier,
		Sentiment:    models.SentimentNeutral,
		Competitors:  []string{},
		Citations:    []models.Citation{},
		JourneyStage: task.Stage,
		Region:       task.Region,
		Query:        task.Query,
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
