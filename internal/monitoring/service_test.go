package monitoring

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/ai-visibility/internal/completion"
	"github.com/brandpulse/ai-visibility/internal/config"
	"github.com/brandpulse/ai-visibility/internal/models"
	"github.com/brandpulse/ai-visibility/internal/storage"
)

// MockStorage is a mock implementation of the storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *MockStorage) Retrieve(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockNotificationService is a mock implementation of the notification service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockNotificationService) SendAlert(alert *models.Alert) error {
	args := m.Called(alert)
	return args.Error(0)
}

const rankedAnswer = "Top picks: 1. Globex 2. Acme 3. Initech. Pricing at https://acme.com/pricing"

func testConfig() *config.Config {
	return &config.Config{
		CheckSchedule:   "weekly",
		BrandName:       "Acme",
		BrandDomain:     "acme.com",
		BrandIndustry:   "saas",
		BrandRegion:     "us",
		Competitors:     []string{"Globex", "Initech"},
		JourneyStages:   []string{"awareness"},
		PlatformTier:    "core",
		MaxConcurrency:  2,
		CallTimeout:     time.Second,
		MaxTokens:       200,
		Temperature:     0.2,
		PromptsPerStage: 1,
	}
}

func countingCompleter(answer string, calls *int32) completion.Completer {
	return completion.Func(func(ctx context.Context, req completion.Request) (string, error) {
		atomic.AddInt32(calls, 1)
		return answer, nil
	})
}

func TestRunCheck_RejectsInvalidInputBeforeCalls(t *testing.T) {
	tests := []struct {
		name  string
		req   CheckRequest
		field string
	}{
		{"missing brand", CheckRequest{}, "brand"},
		{"blank brand", CheckRequest{Brand: "   "}, "brand"},
		{"brand too long", CheckRequest{Brand: strings.Repeat("a", 101)}, "brand"},
		{"unknown platform", CheckRequest{Brand: "Acme", Platforms: []string{"altavista"}}, "platform"},
		{"unknown region", CheckRequest{Brand: "Acme", Region: "mars"}, "region"},
		{"unknown stage", CheckRequest{Brand: "Acme", Stages: []string{"loyalty"}}, "journey stage"},
		{"unknown tier", CheckRequest{Brand: "Acme", Tier: "gold"}, "tier"},
		{"too many prompts", CheckRequest{Brand: "Acme", PromptsPerStage: 9}, "promptsPerStage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			mockStorage := &MockStorage{}
			svc := NewService(testConfig(), mockStorage, &MockNotificationService{}, countingCompleter(rankedAnswer, &calls))

			check, err := svc.RunCheck(context.Background(), tt.req)

			require.Error(t, err)
			assert.Nil(t, check)
			var invalid *models.InvalidInputError
			require.True(t, errors.As(err, &invalid), err.Error())
			assert.Equal(t, tt.field, invalid.Field)
			assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
			mockStorage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRunCheck_EndToEnd(t *testing.T) {
	var calls int32
	mockStorage := &MockStorage{}
	mockStorage.On("Store", mock.Anything, mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "checks/acme/")
	}), mock.Anything).Return(nil)

	svc := NewService(testConfig(), mockStorage, &MockNotificationService{}, countingCompleter(rankedAnswer, &calls))

	check, err := svc.RunCheck(context.Background(), CheckRequest{
		Brand:       "Acme",
		Domain:      "https://www.acme.com",
		Competitors: []string{"Globex"},
		Platforms:   []string{"chatgpt", "ChatGPT"},
		Stages:      []string{"awareness"},
	})
	require.NoError(t, err)

	_, err = uuid.Parse(check.ID)
	assert.NoError(t, err)
	assert.False(t, check.CheckedAt.IsZero())
	assert.Equal(t, "acme.com", check.Domain)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	require.Len(t, check.Platforms, 1)
	r := check.Platforms[0]
	assert.True(t, r.Mentioned)
	require.NotNil(t, r.Position)
	assert.Equal(t, 2, *r.Position)
	assert.Greater(t, check.AEOScore, 0)
	assert.Equal(t, 1, check.Citations.OwnSite)
	assert.Equal(t, 100, check.CompetitorComparison["Globex"].MentionRate)

	mockStorage.AssertExpectations(t)
	assert.Contains(t, svc.GetMetrics(), `"total_checks": 1`)
	assert.Contains(t, svc.GetMetrics(), `"chatgpt": 1`)
}

func TestRunCheck_StorageFailureIsNotFatal(t *testing.T) {
	var calls int32
	mockStorage := &MockStorage{}
	mockStorage.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("blob unavailable"))

	svc := NewService(testConfig(), mockStorage, &MockNotificationService{}, countingCompleter(rankedAnswer, &calls))

	check, err := svc.RunCheck(context.Background(), CheckRequest{Brand: "Acme", Platforms: []string{"claude"}})
	require.NoError(t, err)
	assert.NotNil(t, check)
	// one prompt per stage across all four stages
	assert.Len(t, check.Platforms, 4)
	mockStorage.AssertExpectations(t)
}

func TestRunCheck_ProviderFailuresLowerScoreOnly(t *testing.T) {
	completer := completion.Func(func(ctx context.Context, req completion.Request) (string, error) {
		return "", errors.New("upstream 503")
	})
	svc := NewService(testConfig(), nil, &MockNotificationService{}, completer)

	check, err := svc.RunCheck(context.Background(), CheckRequest{Brand: "Acme", Stages: []string{"branded"}})
	require.NoError(t, err)

	assert.Equal(t, 0, check.AEOScore)
	assert.Equal(t, len(check.Platforms), check.FailedCalls)
	assert.Len(t, check.Platforms, 4)
	assert.Contains(t, svc.GetMetrics(), `"failed_calls": 4`)
}

func TestEstimate_UsesStoredHistory(t *testing.T) {
	mem := storage.NewMemoryStorage()
	earlier := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	_, err := storage.NewHistory(mem).Save(context.Background(), models.AICheckResult{ID: "old", Brand: "Acme", AEOScore: 80, CheckedAt: earlier})
	require.NoError(t, err)

	var calls int32
	svc := NewService(testConfig(), mem, &MockNotificationService{}, countingCompleter("nothing relevant", &calls))
	svc.now = func() time.Time { return earlier.Add(7 * 24 * time.Hour) }

	check, err := svc.RunCheck(context.Background(), CheckRequest{Brand: "Acme", Industry: "saas", Competitors: []string{"Globex"}})
	require.NoError(t, err)

	estimate, err := svc.Estimate(context.Background(), check, EstimateRequest{UseHistory: true, MonthlySearchVolume: 5000})
	require.NoError(t, err)

	require.NotNil(t, estimate.Trend)
	assert.Equal(t, 80, estimate.Trend.PreviousScore)
	assert.Equal(t, models.TrendDown, estimate.Trend.Direction)
	assert.Equal(t, 2, estimate.Trend.DataPoints)
	assert.Equal(t, 5000, estimate.Assumptions.MonthlySearchVolume)
	assert.Equal(t, "saas", estimate.Assumptions.Industry)
}

func TestEstimate_RejectsNegativeVolume(t *testing.T) {
	svc := NewService(testConfig(), nil, &MockNotificationService{}, nil)

	_, err := svc.Estimate(context.Background(), &models.AICheckResult{Brand: "Acme"}, EstimateRequest{MonthlySearchVolume: -1})

	var invalid *models.InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "monthlySearchVolume", invalid.Field)

	_, err = svc.Estimate(context.Background(), nil, EstimateRequest{})
	assert.True(t, errors.As(err, &invalid))
}

func TestRunScheduledCheck_AlertsOnDownTrend(t *testing.T) {
	mem := storage.NewMemoryStorage()
	earlier := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	_, err := storage.NewHistory(mem).Save(context.Background(), models.AICheckResult{ID: "old", Brand: "Acme", AEOScore: 60, CheckedAt: earlier})
	require.NoError(t, err)

	mockNotifications := &MockNotificationService{}
	mockNotifications.On("SendReport", mock.MatchedBy(func(r *models.Report) bool {
		return r.Brand == "Acme" && r.Period == "weekly" && r.Check != nil && r.Traffic != nil
	})).Return(nil)
	mockNotifications.On("SendAlert", mock.MatchedBy(func(a *models.Alert) bool {
		return a.Type == "urgent" && a.Brand == "Acme" && strings.Contains(a.Message, "from 60 to 0")
	})).Return(nil)

	var calls int32
	svc := NewService(testConfig(), mem, mockNotifications, countingCompleter("No brands come to mind.", &calls))
	svc.now = func() time.Time { return earlier.Add(7 * 24 * time.Hour) }

	require.NoError(t, svc.RunScheduledCheck(context.Background()))
	mockNotifications.AssertExpectations(t)
	// four core platforms, awareness only
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestRunScheduledCheck_NoAlertWithoutHistory(t *testing.T) {
	mockNotifications := &MockNotificationService{}
	mockNotifications.On("SendReport", mock.Anything).Return(nil)

	var calls int32
	svc := NewService(testConfig(), storage.NewMemoryStorage(), mockNotifications, countingCompleter(rankedAnswer, &calls))

	require.NoError(t, svc.RunScheduledCheck(context.Background()))
	mockNotifications.AssertExpectations(t)
	mockNotifications.AssertNotCalled(t, "SendAlert", mock.Anything)
}

func TestRunScheduledCheck_ReportFailure(t *testing.T) {
	mockNotifications := &MockNotificationService{}
	mockNotifications.On("SendReport", mock.Anything).Return(errors.New("webhook down"))

	var calls int32
	svc := NewService(testConfig(), nil, mockNotifications, countingCompleter(rankedAnswer, &calls))

	err := svc.RunScheduledCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook down")
	assert.Contains(t, svc.GetMetrics(), `"error_count": 1`)
}

func TestCorrelate(t *testing.T) {
	svc := NewService(testConfig(), nil, &MockNotificationService{}, nil)

	report, err := svc.Correlate(CorrelateRequest{Samples: []SampleInput{
		{Platform: "chatgpt", EstimatedVisits: 100, ActualVisits: 100},
		{Platform: "Gemini", EstimatedVisits: 50, ActualVisits: 100},
	}})
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.Platforms[0].AccuracyPercent)
	assert.Equal(t, 50.0, report.Platforms[1].AccuracyPercent)
	assert.Equal(t, models.PlatformGemini, report.Platforms[1].Platform)

	report, err = svc.Correlate(CorrelateRequest{
		Estimate: &models.TrafficEstimate{Platforms: []models.PlatformEstimate{{Platform: models.PlatformChatGPT, EstimatedVisits: 40}}},
		Actual:   map[string]int{"chatgpt": 50},
	})
	require.NoError(t, err)
	require.Len(t, report.Platforms, 1)
	assert.Equal(t, 80.0, report.OverallAccuracy)
}

func TestCorrelate_InvalidInput(t *testing.T) {
	svc := NewService(testConfig(), nil, &MockNotificationService{}, nil)

	for name, req := range map[string]CorrelateRequest{
		"empty":            {},
		"unknown platform": {Samples: []SampleInput{{Platform: "altavista", ActualVisits: 1}}},
		"negative visits":  {Samples: []SampleInput{{Platform: "chatgpt", ActualVisits: -5}}},
	} {
		_, err := svc.Correlate(req)
		var invalid *models.InvalidInputError
		assert.True(t, errors.As(err, &invalid), name)
	}
}

func TestLoadHistory_WithoutStorage(t *testing.T) {
	svc := NewService(testConfig(), nil, &MockNotificationService{}, nil)

	history, err := svc.LoadHistory(context.Background(), "Acme", 5)
	assert.NoError(t, err)
	assert.Empty(t, history)
}
