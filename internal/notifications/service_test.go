package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/ai-visibility/internal/config"
	"github.com/brandpulse/ai-visibility/internal/models"
)

func sampleReport() *models.Report {
	check := &models.AICheckResult{
		Brand:       "Acme",
		AEOScore:    42,
		Platforms:   make([]models.PlatformResult, 8),
		FailedCalls: 1,
		Citations:   models.CitationSummary{Total: 3, OwnSite: 1},
		JourneyBreakdown: map[models.JourneyStage]models.StageScore{
			models.StageAwareness: {Score: 25, PlatformsMentioning: 1, Results: 4},
			models.StageBranded:   {Score: 100, PlatformsMentioning: 4, Results: 4},
		},
		GapAnalysis: []models.GapAnalysis{{
			DisplayName: "ChatGPT", JourneyStage: models.StageAwareness,
			Opportunity: models.OpportunityHigh, Recommendation: "ChatGPT recommends Globex and Initech",
		}},
		CompetitorComparison: map[string]models.CompetitorStats{"Globex": {MentionRate: 50}},
		Recommendations:      []string{"Add structured data", "Build citation-worthy content"},
	}
	return &models.Report{
		GeneratedAt: time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC),
		Period:      "weekly",
		Brand:       "Acme",
		Check:       check,
		Traffic: &models.TrafficEstimate{
			TotalEstimatedVisits: 120,
			MissedOpportunity:    models.MissedOpportunity{PotentialVisits: 300},
			Confidence:           models.ConfidenceRating{Level: models.ConfidenceMedium},
			Trend:                &models.TrendBlock{Direction: models.TrendDown, ChangePercent: -12.5},
		},
	}
}

func TestSendReport_Teams(t *testing.T) {
	var received TeamsMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewService(&config.Config{TeamsWebhookURL: server.URL})
	require.NoError(t, svc.SendReport(sampleReport()))

	assert.Equal(t, "MessageCard", received.Type)
	assert.Equal(t, "AI Visibility Report - Acme (Weekly)", received.Title)
	assert.Equal(t, "FFB900", received.ThemeColor)
	require.GreaterOrEqual(t, len(received.Sections), 4)
	assert.Contains(t, received.Sections[0].Facts, TeamsFact{Name: "AEO Score", Value: "42 / 100"})
	assert.Contains(t, received.Sections[0].Facts, TeamsFact{Name: "Trend", Value: "down (-12.5%)"})
	assert.Len(t, received.Sections[1].Facts, 4)
	assert.Contains(t, received.Sections[2].ActivityText, "Globex and Initech")
}

func TestSendReport_TeamsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewService(&config.Config{TeamsWebhookURL: server.URL}).SendReport(sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSendReport_RequiresCheck(t *testing.T) {
	err := NewService(&config.Config{}).SendReport(&models.Report{Brand: "Acme"})
	assert.Error(t, err)
}

func TestSendAlert_Teams(t *testing.T) {
	var received TeamsMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	err := NewService(&config.Config{TeamsWebhookURL: server.URL}).SendAlert(&models.Alert{
		Type: "urgent", Title: "Visibility dropped", Message: "Acme fell from 50 to 40", Brand: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "Visibility dropped", received.Title)
	assert.Equal(t, "D13438", received.ThemeColor)
}

func TestBuildEmailBodies(t *testing.T) {
	report := sampleReport()

	html, err := buildEmailHTML(report)
	require.NoError(t, err)
	assert.Contains(t, html, "AI Visibility Report: Acme")
	assert.Contains(t, html, "AEO Score: 42 / 100")
	assert.Contains(t, html, "Weekly report generated")
	assert.Contains(t, html, "Add structured data")

	text := buildEmailText(report)
	assert.Contains(t, text, "AEO Score: 42/100")
	assert.Contains(t, text, "Globex: mentioned in 50% of answers")
	assert.Contains(t, text, "2. Build citation-worthy content")
	assert.Contains(t, text, "Estimated AI visits / month: 120")
}
