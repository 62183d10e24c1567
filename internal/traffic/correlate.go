package traffic

import (
	"math"

	"github.com/brandpulse/ai-visibility/internal/models"
)

// Correlate measures how close estimates came to measured analytics traffic
func Correlate(samples []models.CorrelationSample) models.CorrelationReport {
	report := models.CorrelationReport{Platforms: make([]models.PlatformAccuracy, 0, len(samples))}
	for _, s := range samples {
		report.TotalEstimated += s.EstimatedVisits
		report.TotalActual += s.ActualVisits
		report.Platforms = append(report.Platforms, models.PlatformAccuracy{
			CorrelationSample: s,
			AccuracyPercent:   accuracy(s.EstimatedVisits, s.ActualVisits),
		})
	}
	report.OverallAccuracy = accuracy(report.TotalEstimated, report.TotalActual)
	return report
}

// SamplesFromEstimate pairs platform estimates with measured visits. Platforms
// without a measurement are skipped.
func SamplesFromEstimate(estimate models.TrafficEstimate, actual map[models.Platform]int) []models.CorrelationSample {
	var samples []models.CorrelationSample
	for _, pe := range estimate.Platforms {
		visits, ok := actual[pe.Platform]
		if !ok {
			continue
		}
		samples = append(samples, models.CorrelationSample{
			Platform:        pe.Platform,
			EstimatedVisits: pe.EstimatedVisits,
			ActualVisits:    visits,
		})
	}
	return samples
}

func accuracy(estimated, actual int) float64 {
	if actual == 0 {
		if estimated == 0 {
			return 100
		}
		return 0
	}
	errPct := math.Abs(float64(estimated-actual)) / float64(actual) * 100
	return round1(math.Max(0, 100-errPct))
}
