package models

// Confidence levels of a traffic estimate
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Trend directions
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// EstimateAssumptions echoes the inputs an estimate was computed from
type EstimateAssumptions struct {
	MonthlySearchVolume   int     `json:"monthlySearchVolume"`
	SearchVolumeKnown     bool    `json:"searchVolumeKnown"`
	CurrentMonthlyTraffic int     `json:"currentMonthlyTraffic,omitempty"`
	Industry              string  `json:"industry"`
	IndustryShare         float64 `json:"industryShare"`
	EstimatedAISearches   float64 `json:"estimatedAISearches"`
}

// PlatformEstimate is the projected monthly traffic from one platform
type PlatformEstimate struct {
	Platform            Platform     `json:"platform"`
	DisplayName         string       `json:"displayName"`
	MarketShare         float64      `json:"marketShare"`
	AddressableSearches float64      `json:"addressableSearches"`
	Mentioned           bool         `json:"mentioned"`
	VisibilityScore     int          `json:"visibilityScore"`
	BestPosition        *int         `json:"bestPosition"`
	Sentiment           Sentiment    `json:"sentiment"`
	JourneyStage        JourneyStage `json:"journeyStage,omitempty"`
	ClickThroughRate    float64      `json:"clickThroughRate"`
	EstimatedVisits     int          `json:"estimatedVisits"`
}

// StageEstimate is the projected monthly traffic for one journey stage
type StageEstimate struct {
	JourneyStage     JourneyStage `json:"journeyStage"`
	FunnelWeight     float64      `json:"funnelWeight"`
	StageSearches    float64      `json:"stageSearches"`
	MentionRate      float64      `json:"mentionRate"`
	ClickThroughRate float64      `json:"clickThroughRate"`
	EstimatedVisits  int          `json:"estimatedVisits"`
}

// CompetitorEstimate is the projected AI traffic of a known competitor
type CompetitorEstimate struct {
	Name            string `json:"name"`
	MentionRate     int    `json:"mentionRate"`
	EstimatedVisits int    `json:"estimatedVisits"`
}

// MissedPlatform is a platform where the brand was never mentioned
type MissedPlatform struct {
	Platform        Platform `json:"platform"`
	DisplayName     string   `json:"displayName"`
	PotentialVisits int      `json:"potentialVisits"`
	Advice          string   `json:"advice"`
}

// MissedStage is a journey stage with a weak mention rate
type MissedStage struct {
	JourneyStage JourneyStage `json:"journeyStage"`
	MentionRate  int          `json:"mentionRate"`
	Advice       string       `json:"advice"`
}

// MissedOpportunity estimates traffic lost to invisibility
type MissedOpportunity struct {
	PotentialVisits int              `json:"potentialVisits"`
	TopPlatforms    []MissedPlatform `json:"topPlatforms"`
	WeakStages      []MissedStage    `json:"weakStages"`
}

// TrendBlock compares the current score against history
type TrendBlock struct {
	PreviousScore int     `json:"previousScore"`
	CurrentScore  int     `json:"currentScore"`
	ChangePercent float64 `json:"changePercent"`
	Direction     string  `json:"direction"`
	DataPoints    int     `json:"dataPoints"`
}

// ConfidenceRating describes how much data backed an estimate
type ConfidenceRating struct {
	Level   string   `json:"level"`
	Points  int      `json:"points"`
	Factors []string `json:"factors"`
}

// TrafficEstimate is the projected monthly traffic derived from a check
type TrafficEstimate struct {
	Assumptions          EstimateAssumptions  `json:"assumptions"`
	TotalEstimatedVisits int                  `json:"totalEstimatedVisits"`
	Platforms            []PlatformEstimate   `json:"platforms"`
	JourneyStages        []StageEstimate      `json:"journeyStages"`
	Competitors          []CompetitorEstimate `json:"competitors,omitempty"`
	MissedOpportunity    MissedOpportunity    `json:"missedOpportunity"`
	Trend                *TrendBlock          `json:"trend,omitempty"`
	Confidence           ConfidenceRating     `json:"confidence"`
}

// CorrelationSample pairs an estimate with measured traffic for one platform
type CorrelationSample struct {
	Platform        Platform `json:"platform"`
	EstimatedVisits int      `json:"estimatedVisits"`
	ActualVisits    int      `json:"actualVisits"`
}

// PlatformAccuracy is the accuracy of one platform estimate
type PlatformAccuracy struct {
	CorrelationSample
	AccuracyPercent float64 `json:"accuracyPercent"`
}

// CorrelationReport compares estimates with actual analytics data
type CorrelationReport struct {
	Platforms       []PlatformAccuracy `json:"platforms"`
	TotalEstimated  int                `json:"totalEstimated"`
	TotalActual     int                `json:"totalActual"`
	OverallAccuracy float64            `json:"overallAccuracy"`
}
