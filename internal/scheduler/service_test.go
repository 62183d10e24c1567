package scheduler

import (
	"context"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/ai-visibility/internal/config"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) RunScheduledCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestExpression(t *testing.T) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	for _, schedule := range []string{"daily", "weekly", ""} {
		_, err := parser.Parse(Expression(schedule))
		assert.NoError(t, err, schedule)
	}
	assert.Equal(t, "0 0 9 * * *", Expression("daily"))
	assert.Equal(t, "0 0 9 * * MON", Expression("weekly"))
}

func TestStart_RegistersJob(t *testing.T) {
	runner := new(MockRunner)
	svc := NewService(&config.Config{BrandName: "Acme", CheckSchedule: "daily"}, runner)

	require.NoError(t, svc.Start())
	defer svc.Stop()

	assert.Equal(t, 1, svc.Entries())
	runner.AssertNotCalled(t, "RunScheduledCheck", mock.Anything)
}

func TestStart_WithoutBrandIsDisabled(t *testing.T) {
	svc := NewService(&config.Config{CheckSchedule: "weekly"}, new(MockRunner))

	require.NoError(t, svc.Start())
	assert.Equal(t, 0, svc.Entries())
	svc.Stop()
}
