package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/brandpulse/ai-visibility/internal/config"
	"github.com/brandpulse/ai-visibility/internal/models"
)

const (
	maxReportRecommendations = 5
	maxReportGaps            = 5
)

// Service handles sending notifications via various channels
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Sections   []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendReport sends a visibility report via configured notification channels
func (s *Service) SendReport(report *models.Report) error {
	if report == nil || report.Check == nil {
		return fmt.Errorf("report has no check result")
	}

	var errs []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postTeams(buildTeamsReport(report)); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errs = append(errs, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.WithField("brand", report.Brand).Info("Sent visibility report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendReportEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errs = append(errs, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.WithField("brand", report.Brand).Info("Sent visibility report via email")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SendAlert sends an alert via configured notification channels
func (s *Service) SendAlert(alert *models.Alert) error {
	var errs []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postTeams(buildTeamsAlert(alert)); err != nil {
			errs = append(errs, fmt.Sprintf("Teams: %v", err))
		}
	}

	if s.config.NotificationEmail != "" {
		subject := fmt.Sprintf("[%s] %s", strings.ToUpper(alert.Type), alert.Title)
		body := fmt.Sprintf("%s\n\nBrand: %s\nRaised: %s\n", alert.Message, alert.Brand, alert.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
		if err := s.sendEmail(subject, body, ""); err != nil {
			errs = append(errs, fmt.Sprintf("Email: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("alert errors: %s", strings.Join(errs, "; "))
	}

	logrus.WithFields(logrus.Fields{"type": alert.Type, "brand": alert.Brand}).Infof("Sent alert: %s", alert.Title)
	return nil
}

func (s *Service) postTeams(message *TeamsMessage) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)
	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

func buildTeamsReport(report *models.Report) *TeamsMessage {
	check := report.Check

	facts := []TeamsFact{
		{Name: "AEO Score", Value: fmt.Sprintf("%d / 100", check.AEOScore)},
		{Name: "Platform calls", Value: fmt.Sprintf("%d (%d failed)", len(check.Platforms), check.FailedCalls)},
		{Name: "Citations", Value: fmt.Sprintf("%d own site / %d total", check.Citations.OwnSite, check.Citations.Total)},
		{Name: "Generated", Value: report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
	}
	if t := report.Traffic; t != nil {
		facts = append(facts,
			TeamsFact{Name: "Estimated AI visits / month", Value: fmt.Sprintf("%d", t.TotalEstimatedVisits)},
			TeamsFact{Name: "Missed visits / month", Value: fmt.Sprintf("%d", t.MissedOpportunity.PotentialVisits)},
			TeamsFact{Name: "Confidence", Value: t.Confidence.Level},
		)
		if t.Trend != nil {
			facts = append(facts, TeamsFact{Name: "Trend", Value: fmt.Sprintf("%s (%+.1f%%)", t.Trend.Direction, t.Trend.ChangePercent)})
		}
	}

	message := &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: scoreColor(check.AEOScore),
		Title:      fmt.Sprintf("AI Visibility Report - %s (%s)", report.Brand, titleCase(report.Period)),
		Text:       fmt.Sprintf("%s scored %d/100 across %d AI answers", report.Brand, check.AEOScore, len(check.Platforms)),
		Sections: []TeamsSection{
			{ActivityTitle: "Summary", Facts: facts, Markdown: true},
			{ActivityTitle: "Journey stages", Facts: stageFacts(check), Markdown: true},
		},
	}

	if gaps := topGaps(check); len(gaps) > 0 {
		var lines []string
		for _, g := range gaps {
			lines = append(lines, fmt.Sprintf("**%s / %s** (%s): %s", g.DisplayName, g.JourneyStage, g.Opportunity, g.Recommendation))
		}
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Competitor gaps",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	if recs := topRecommendations(check); len(recs) > 0 {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Recommendations",
			ActivityText:  "- " + strings.Join(recs, "\n- "),
			Markdown:      true,
		})
	}

	return message
}

func buildTeamsAlert(alert *models.Alert) *TeamsMessage {
	color := "0078D4"
	if alert.Type == "critical" || alert.Type == "urgent" {
		color = "D13438"
	}
	return &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: color,
		Title:      alert.Title,
		Text:       alert.Message,
		Sections: []TeamsSection{{
			Facts: []TeamsFact{
				{Name: "Brand", Value: alert.Brand},
				{Name: "Type", Value: alert.Type},
				{Name: "Raised", Value: alert.CreatedAt.Format("2006-01-02 15:04:05 UTC")},
			},
		}},
	}
}

func stageFacts(check *models.AICheckResult) []TeamsFact {
	var facts []TeamsFact
	for _, stage := range models.JourneyStages {
		s := check.JourneyBreakdown[stage]
		facts = append(facts, TeamsFact{
			Name:  titleCase(string(stage)),
			Value: fmt.Sprintf("%d%% (%d platforms)", s.Score, s.PlatformsMentioning),
		})
	}
	return facts
}

func topGaps(check *models.AICheckResult) []models.GapAnalysis {
	if len(check.GapAnalysis) > maxReportGaps {
		return check.GapAnalysis[:maxReportGaps]
	}
	return check.GapAnalysis
}

func topRecommendations(check *models.AICheckResult) []string {
	if len(check.Recommendations) > maxReportRecommendations {
		return check.Recommendations[:maxReportRecommendations]
	}
	return check.Recommendations
}

func scoreColor(score int) string {
	switch {
	case score >= 60:
		return "107C10"
	case score >= 30:
		return "FFB900"
	}
	return "D13438"
}

func (s *Service) sendReportEmail(report *models.Report) error {
	subject := fmt.Sprintf("AI Visibility Report - %s (%s): %d/100",
		report.Brand, titleCase(report.Period), report.Check.AEOScore)

	htmlBody, err := buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	return s.sendEmail(subject, buildEmailText(report), htmlBody)
}

func (s *Service) sendEmail(subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>AI Visibility Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #0078d4; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .gap { border-left: 4px solid #d13438; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .medium { border-left-color: #ffb900; }
        table { border-collapse: collapse; }
        td, th { padding: 4px 12px; text-align: left; }
    </style>
</head>
<body>
    <div class="header">
        <h1>AI Visibility Report: {{.Brand}}</h1>
        <p>{{.Period | title}} report generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <h2>AEO Score: {{.Check.AEOScore}} / 100</h2>
        <p><strong>AI answers analyzed:</strong> {{len .Check.Platforms}} ({{.Check.FailedCalls}} failed)</p>
        <p><strong>Citations:</strong> {{.Check.Citations.OwnSite}} own site of {{.Check.Citations.Total}}</p>
        {{with .Traffic}}
        <p><strong>Estimated AI visits / month:</strong> {{.TotalEstimatedVisits}} (confidence: {{.Confidence.Level}})</p>
        <p><strong>Missed visits / month:</strong> {{.MissedOpportunity.PotentialVisits}}</p>
        {{with .Trend}}<p><strong>Trend:</strong> {{.Direction}} ({{printf "%+.1f" .ChangePercent}}%)</p>{{end}}
        {{end}}
    </div>

    <h2>Journey stages</h2>
    <table>
        <tr><th>Stage</th><th>Score</th><th>Platforms</th></tr>
        {{range .Stages}}
        <tr><td>{{.Name | title}}</td><td>{{.Score}}%</td><td>{{.PlatformsMentioning}}</td></tr>
        {{end}}
    </table>

    {{if .Check.GapAnalysis}}
    <h2>Competitor gaps</h2>
    {{range $index, $gap := .Check.GapAnalysis}}
        {{if lt $index 10}}
        <div class="gap {{$gap.Opportunity}}">
            <strong>{{$gap.DisplayName}} / {{$gap.JourneyStage}}</strong> ({{$gap.Opportunity}})
            <p>{{$gap.Recommendation}}</p>
        </div>
        {{end}}
    {{end}}
    {{end}}

    <h2>Recommendations</h2>
    <ol>
    {{range .Check.Recommendations}}<li>{{.}}</li>{{end}}
    </ol>

    <hr>
    <p><small>This report was generated automatically by the AI visibility monitor.</small></p>
</body>
</html>
`

type stageRow struct {
	Name                string
	Score               int
	PlatformsMentioning int
}

func buildEmailHTML(report *models.Report) (string, error) {
	t, err := template.New("email").Funcs(template.FuncMap{"title": titleCase}).Parse(emailTemplate)
	if err != nil {
		return "", err
	}

	var rows []stageRow
	for _, stage := range models.JourneyStages {
		s := report.Check.JourneyBreakdown[stage]
		rows = append(rows, stageRow{Name: string(stage), Score: s.Score, PlatformsMentioning: s.PlatformsMentioning})
	}

	data := struct {
		*models.Report
		Stages []stageRow
	}{report, rows}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildEmailText(report *models.Report) string {
	check := report.Check
	var text strings.Builder

	text.WriteString(fmt.Sprintf("AI Visibility Report - %s (%s)\n", report.Brand, titleCase(report.Period)))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("AEO Score: %d/100\n", check.AEOScore))
	text.WriteString(fmt.Sprintf("AI answers analyzed: %d (%d failed)\n", len(check.Platforms), check.FailedCalls))
	if t := report.Traffic; t != nil {
		text.WriteString(fmt.Sprintf("Estimated AI visits / month: %d (confidence: %s)\n", t.TotalEstimatedVisits, t.Confidence.Level))
		text.WriteString(fmt.Sprintf("Missed visits / month: %d\n", t.MissedOpportunity.PotentialVisits))
	}

	text.WriteString("\nJOURNEY STAGES\n")
	text.WriteString("==============\n")
	for _, stage := range models.JourneyStages {
		s := check.JourneyBreakdown[stage]
		text.WriteString(fmt.Sprintf("%-14s %3d%%  (%d platforms)\n", titleCase(string(stage)), s.Score, s.PlatformsMentioning))
	}

	if len(check.CompetitorComparison) > 0 {
		text.WriteString("\nCOMPETITORS\n")
		text.WriteString("===========\n")
		names := make([]string, 0, len(check.CompetitorComparison))
		for name := range check.CompetitorComparison {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			text.WriteString(fmt.Sprintf("%s: mentioned in %d%% of answers\n", name, check.CompetitorComparison[name].MentionRate))
		}
	}

	text.WriteString("\nRECOMMENDATIONS\n")
	text.WriteString("===============\n")
	for i, rec := range check.Recommendations {
		text.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
	}

	text.WriteString("\n---\nThis report was generated automatically by the AI visibility monitor.\n")
	return text.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
