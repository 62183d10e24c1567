package scoring

import (
	"sort"

	"github.com/brandpulse/ai-visibility/internal/models"
)

const maxTopDomains = 10

// Subject identifies the brand a check was run for
type Subject struct {
	Brand       string
	Domain      string
	Industry    string
	Region      models.Region
	Competitors []string
}

// Aggregate builds the check result from raw per-platform results. ID and
// CheckedAt are left for the caller to stamp.
func Aggregate(subject Subject, results []models.PlatformResult) models.AICheckResult {
	platforms := make([]models.PlatformResult, len(results))
	copy(platforms, results)

	breakdown := JourneyBreakdown(platforms)
	gaps := GapAnalysis(platforms, subject.Brand, subject.Competitors)

	failed := 0
	for _, r := range platforms {
		if r.Failed() {
			failed++
		}
	}

	return models.AICheckResult{
		Brand:                subject.Brand,
		Domain:               subject.Domain,
		Industry:             subject.Industry,
		Region:               subject.Region,
		AEOScore:             AEOScore(platforms),
		Platforms:            platforms,
		Citations:            SummarizeCitations(platforms),
		GapAnalysis:          gaps,
		JourneyBreakdown:     breakdown,
		CompetitorComparison: CompetitorComparison(platforms, subject.Competitors),
		Recommendations:      Recommendations(subject, platforms, breakdown, gaps),
		FailedCalls:          failed,
	}
}

// SummarizeCitations counts own-site and third-party citations and ranks cited domains
func SummarizeCitations(results []models.PlatformResult) models.CitationSummary {
	summary := models.CitationSummary{TopDomains: []models.DomainCount{}}
	counts := make(map[string]*models.DomainCount)

	for _, r := range results {
		for _, c := range r.Citations {
			summary.Total++
			if c.IsOwnSite {
				summary.OwnSite++
			} else {
				summary.ThirdParty++
			}

			dc, ok := counts[c.Domain]
			if !ok {
				dc = &models.DomainCount{Domain: c.Domain}
				counts[c.Domain] = dc
			}
			dc.Count++
			dc.IsOwnSite = dc.IsOwnSite || c.IsOwnSite
		}
	}

	for _, dc := range counts {
		summary.TopDomains = append(summary.TopDomains, *dc)
	}
	sort.Slice(summary.TopDomains, func(i, j int) bool {
		a, b := summary.TopDomains[i], summary.TopDomains[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Domain < b.Domain
	})
	if len(summary.TopDomains) > maxTopDomains {
		summary.TopDomains = summary.TopDomains[:maxTopDomains]
	}
	return summary
}
