package traffic

import "github.com/brandpulse/ai-visibility/internal/models"

const (
	// DefaultMonthlySearchVolume is assumed when the caller does not know the category volume
	DefaultMonthlySearchVolume = 10000
	// DefaultIndustryShare is the AI share of search used for unknown industries
	DefaultIndustryShare = 0.08

	missedOpportunityCTR = 0.15
	competitorBaseCTR    = 0.05
	weakStageMentionRate = 30
	maxMissedPlatforms   = 3
	maxWeakStages        = 2
	trendThreshold       = 5.0
)

// share of category searches that already happen through AI assistants
var industryShare = map[string]float64{
	"saas":       0.12,
	"software":   0.12,
	"b2b":        0.11,
	"fintech":    0.10,
	"education":  0.10,
	"travel":     0.09,
	"media":      0.09,
	"ecommerce":  0.08,
	"retail":     0.07,
	"healthcare": 0.06,
	"local":      0.05,
}

// share of AI-driven searches handled by each platform. Chat assistants sum
// to 1; ai_overview is measured against the same base as a separate surface.
var marketShare = map[models.Platform]float64{
	models.PlatformChatGPT:    0.60,
	models.PlatformGemini:     0.13,
	models.PlatformPerplexity: 0.08,
	models.PlatformCopilot:    0.07,
	models.PlatformClaude:     0.04,
	models.PlatformMetaAI:     0.03,
	models.PlatformGrok:       0.02,
	models.PlatformDeepSeek:   0.02,
	models.PlatformMistral:    0.01,
	models.PlatformAIOverview: 0.20,
}

var stageBaseCTR = map[models.JourneyStage]float64{
	models.StageAwareness:     0.03,
	models.StageConsideration: 0.05,
	models.StageDecision:      0.08,
	models.StageBranded:       0.12,
}

var funnelWeight = map[models.JourneyStage]float64{
	models.StageAwareness:     0.20,
	models.StageConsideration: 0.30,
	models.StageDecision:      0.35,
	models.StageBranded:       0.15,
}

var sentimentMultiplier = map[models.Sentiment]float64{
	models.SentimentPositive: 1.2,
	models.SentimentNeutral:  1.0,
	models.SentimentNegative: 0.6,
}

var platformAdvice = map[models.Platform]string{
	models.PlatformChatGPT:    "Earn coverage on high-authority publications and keep Wikipedia and review profiles current; ChatGPT leans on widely cited sources.",
	models.PlatformClaude:     "Publish clear, factual product documentation and comparison pages that Claude can summarize accurately.",
	models.PlatformPerplexity: "Perplexity cites live web results: target fresh, well-structured pages that rank for the category's questions.",
	models.PlatformGemini:     "Strengthen Google Search presence: Business Profile, schema markup and Merchant Center data feed Gemini answers.",
	models.PlatformCopilot:    "Improve Bing visibility with Bing Webmaster Tools, IndexNow and LinkedIn presence for Copilot answers.",
	models.PlatformMetaAI:     "Build community presence on Facebook, Instagram and Threads, which inform Meta AI answers.",
	models.PlatformGrok:       "Grow an active X presence; Grok draws on recent posts and discussion.",
	models.PlatformDeepSeek:   "Publish detailed technical and specification content that DeepSeek can ground answers in.",
	models.PlatformMistral:    "Strengthen European-language coverage and authoritative sources that Mistral is trained on.",
	models.PlatformAIOverview: "Answer common questions directly on your pages with FAQ and HowTo markup to qualify for AI Overviews.",
}

var stageAdvice = map[models.JourneyStage]string{
	models.StageAwareness:     "Get listed in category roundups and \"best of\" guides so assistants surface the brand to new buyers.",
	models.StageConsideration: "Publish comparison and alternatives pages that position the brand against named competitors.",
	models.StageDecision:      "Make pricing, reviews and purchase details easy to find and cite.",
	models.StageBranded:       "Keep brand facts consistent across your site, review platforms and knowledge bases.",
}

// positionMultiplier scales CTR by list rank; unranked mentions get the floor
func positionMultiplier(position *int) float64 {
	if position == nil {
		return 0.25
	}
	switch p := *position; {
	case p == 1:
		return 1.0
	case p == 2:
		return 0.7
	case p == 3:
		return 0.5
	case p == 4 || p == 5:
		return 0.35
	}
	return 0.25
}

// IndustryShare returns the AI search share for an industry and whether a
// benchmark exists for it
func IndustryShare(industry string) (float64, bool) {
	share, ok := industryShare[normalizeIndustry(industry)]
	if !ok {
		return DefaultIndustryShare, false
	}
	return share, true
}

// MarketShare returns the assumed share of AI searches handled by a platform
func MarketShare(p models.Platform) float64 {
	return marketShare[p]
}
