package models

import "time"

// Platform identifies an AI assistant that is queried for brand visibility
type Platform string

const (
	PlatformChatGPT    Platform = "chatgpt"
	PlatformClaude     Platform = "claude"
	PlatformPerplexity Platform = "perplexity"
	PlatformGemini     Platform = "gemini"
	PlatformCopilot    Platform = "copilot"
	PlatformMetaAI     Platform = "meta_ai"
	PlatformGrok       Platform = "grok"
	PlatformDeepSeek   Platform = "deepseek"
	PlatformMistral    Platform = "mistral"
	PlatformAIOverview Platform = "ai_overview"
)

// Tier is the pricing/access tier of a platform
type Tier string

const (
	TierCore     Tier = "core"
	TierExtended Tier = "extended"
	TierPremium  Tier = "premium"
)

// Rank orders tiers so that a ceiling can be compared against a platform tier
func (t Tier) Rank() int {
	switch t {
	case TierCore:
		return 1
	case TierExtended:
		return 2
	case TierPremium:
		return 3
	}
	return 0
}

// Region is a market/locale used to steer prompt wording
type Region string

const (
	RegionUS Region = "us"
	RegionUK Region = "uk"
	RegionEU Region = "eu"
	RegionFR Region = "fr"
	RegionDE Region = "de"
	RegionES Region = "es"
	RegionCA Region = "ca"
	RegionAU Region = "au"
)

// JourneyStage is where in a buying funnel a query sits
type JourneyStage string

const (
	StageAwareness     JourneyStage = "awareness"
	StageConsideration JourneyStage = "consideration"
	StageDecision      JourneyStage = "decision"
	StageBranded       JourneyStage = "branded"
)

// JourneyStages lists all stages in funnel order
var JourneyStages = []JourneyStage{StageAwareness, StageConsideration, StageDecision, StageBranded}

// Sentiment is the lexical tone of a response toward the brand
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Opportunity classifies a gap by how many competitors are visible
type Opportunity string

const (
	OpportunityHigh   Opportunity = "high"
	OpportunityMedium Opportunity = "medium"
	OpportunityLow    Opportunity = "low"
)

// Rank orders opportunity tiers, highest first when sorted descending
func (o Opportunity) Rank() int {
	switch o {
	case OpportunityHigh:
		return 3
	case OpportunityMedium:
		return 2
	case OpportunityLow:
		return 1
	}
	return 0
}

// Citation is a URL extracted from a model response
type Citation struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	IsOwnSite bool   `json:"isOwnSite"`
	Context   string `json:"context"`
}

// PlatformResult is the outcome of one (platform, stage, query) call
type PlatformResult struct {
	Platform     Platform     `json:"platform"`
	DisplayName  string       `json:"displayName"`
	Tier         Tier         `json:"tier"`
	Mentioned    bool         `json:"mentioned"`
	Position     *int         `json:"position"`
	Sentiment    Sentiment    `json:"sentiment"`
	Snippet      string       `json:"snippet"`
	RawResponse  string       `json:"rawResponse"`
	Competitors  []string     `json:"competitors"`
	Citations    []Citation   `json:"citations"`
	JourneyStage JourneyStage `json:"journeyStage"`
	Region       Region       `json:"region"`
	Query        string       `json:"query"`
	Error        string       `json:"error,omitempty"`
}

// Failed reports whether the result was synthesized from a failed call
func (r PlatformResult) Failed() bool {
	return r.RawResponse == ""
}

// MentionState is the visibility of one brand inside a gap record
type MentionState struct {
	Name      string `json:"name,omitempty"`
	Mentioned bool   `json:"mentioned"`
	Position  *int   `json:"position"`
}

// GapAnalysis records a platform/stage where competitors show up and the brand does not
type GapAnalysis struct {
	Platform       Platform       `json:"platform"`
	DisplayName    string         `json:"displayName"`
	JourneyStage   JourneyStage   `json:"journeyStage"`
	Query          string         `json:"query"`
	YourBrand      MentionState   `json:"yourBrand"`
	Competitors    []MentionState `json:"competitors"`
	Opportunity    Opportunity    `json:"opportunity"`
	Recommendation string         `json:"recommendation"`
}

// StageScore is the visibility of the brand within one journey stage
type StageScore struct {
	Score               int `json:"score"`
	PlatformsMentioning int `json:"platformsMentioning"`
	Results             int `json:"results"`
}

// SentimentCounts tallies sentiment labels
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// CompetitorStats summarizes one competitor across all results
type CompetitorStats struct {
	MentionRate     int             `json:"mentionRate"`
	AvgPosition     *float64        `json:"avgPosition"`
	SentimentCounts SentimentCounts `json:"sentimentCounts"`
}

// DomainCount is a cited domain and how often it was cited
type DomainCount struct {
	Domain    string `json:"domain"`
	Count     int    `json:"count"`
	IsOwnSite bool   `json:"isOwnSite"`
}

// CitationSummary aggregates all citations of a check
type CitationSummary struct {
	Total      int           `json:"total"`
	OwnSite    int           `json:"ownSite"`
	ThirdParty int           `json:"thirdParty"`
	TopDomains []DomainCount `json:"topDomains"`
}

// AICheckResult is the root aggregate of one visibility check
type AICheckResult struct {
	ID                   string                      `json:"id"`
	Brand                string                      `json:"brand"`
	Domain               string                      `json:"domain,omitempty"`
	Industry             string                      `json:"industry,omitempty"`
	Region               Region                      `json:"region"`
	CheckedAt            time.Time                   `json:"checkedAt"`
	AEOScore             int                         `json:"aeoScore"`
	Platforms            []PlatformResult            `json:"platforms"`
	Citations            CitationSummary             `json:"citations"`
	GapAnalysis          []GapAnalysis               `json:"gapAnalysis"`
	JourneyBreakdown     map[JourneyStage]StageScore `json:"journeyBreakdown"`
	CompetitorComparison map[string]CompetitorStats  `json:"competitorComparison"`
	Recommendations      []string                    `json:"recommendations"`
	FailedCalls          int                         `json:"failedCalls"`
}
