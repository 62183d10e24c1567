// Package platforms is the static catalogue of AI assistants and market regions.
package platforms

import (
	"fmt"
	"strings"

	"github.com/brandpulse/ai-visibility/internal/models"
)

// Info holds the fixed attributes of a platform
type Info struct {
	Platform    models.Platform
	ModelID     string
	DisplayName string
	Tier        models.Tier
	Icon        string
}

// registry order is the dispatch order used when planning a check
var registry = []Info{
	{Platform: models.PlatformChatGPT, ModelID: "openai/gpt-4o-mini", DisplayName: "ChatGPT", Tier: models.TierCore, Icon: "openai"},
	{Platform: models.PlatformClaude, ModelID: "anthropic/claude-3.5-haiku", DisplayName: "Claude", Tier: models.TierCore, Icon: "anthropic"},
	{Platform: models.PlatformPerplexity, ModelID: "perplexity/sonar", DisplayName: "Perplexity", Tier: models.TierCore, Icon: "perplexity"},
	{Platform: models.PlatformGemini, ModelID: "gemini-2.5-flash", DisplayName: "Gemini", Tier: models.TierCore, Icon: "google"},
	{Platform: models.PlatformCopilot, ModelID: "openai/gpt-4o", DisplayName: "Microsoft Copilot", Tier: models.TierExtended, Icon: "microsoft"},
	{Platform: models.PlatformMetaAI, ModelID: "meta-llama/llama-3.3-70b-instruct", DisplayName: "Meta AI", Tier: models.TierExtended, Icon: "meta"},
	{Platform: models.PlatformGrok, ModelID: "x-ai/grok-2", DisplayName: "Grok", Tier: models.TierExtended, Icon: "x"},
	{Platform: models.PlatformDeepSeek, ModelID: "deepseek/deepseek-chat", DisplayName: "DeepSeek", Tier: models.TierPremium, Icon: "deepseek"},
	{Platform: models.PlatformMistral, ModelID: "mistralai/mistral-large", DisplayName: "Le Chat (Mistral)", Tier: models.TierPremium, Icon: "mistral"},
	{Platform: models.PlatformAIOverview, ModelID: "gemini-2.5-flash-lite", DisplayName: "Google AI Overviews", Tier: models.TierPremium, Icon: "google-search"},
}

var byKey = make(map[models.Platform]Info, len(registry))

func init() {
	for _, info := range registry {
		if err := info.validate(); err != nil {
			panic(err)
		}
		if _, dup := byKey[info.Platform]; dup {
			panic(fmt.Sprintf("platforms: duplicate registry entry %q", info.Platform))
		}
		byKey[info.Platform] = info
	}
	for _, region := range regions {
		if region.Name == "" || region.Language == "" || region.MarketContext == "" {
			panic(fmt.Sprintf("platforms: incomplete region entry %q", region.Region))
		}
		regionsByKey[region.Region] = region
	}
}

func (i Info) validate() error {
	if i.Platform == "" || i.ModelID == "" || i.DisplayName == "" {
		return fmt.Errorf("platforms: incomplete registry entry %q", i.Platform)
	}
	if i.Tier.Rank() == 0 {
		return fmt.Errorf("platforms: entry %q has unknown tier %q", i.Platform, i.Tier)
	}
	return nil
}

// All returns every registered platform in registry order
func All() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the registry entry for a platform
func Lookup(p models.Platform) (Info, bool) {
	info, ok := byKey[p]
	return info, ok
}

// MustLookup returns the registry entry for a known platform and panics otherwise
func MustLookup(p models.Platform) Info {
	info, ok := byKey[p]
	if !ok {
		panic(fmt.Sprintf("platforms: unknown platform %q", p))
	}
	return info
}

// ParsePlatform resolves a user-supplied platform key
func ParsePlatform(key string) (models.Platform, error) {
	p := models.Platform(strings.ToLower(strings.TrimSpace(key)))
	if _, ok := byKey[p]; !ok {
		return "", models.NewInvalidInput("platform", key, "unknown platform")
	}
	return p, nil
}

// ParseTier resolves a tier ceiling; empty means core
func ParseTier(key string) (models.Tier, error) {
	t := models.Tier(strings.ToLower(strings.TrimSpace(key)))
	if t == "" {
		return models.TierCore, nil
	}
	if t.Rank() == 0 {
		return "", models.NewInvalidInput("tier", key, "must be core, extended or premium")
	}
	return t, nil
}

// ForTier returns the platforms at or below the tier ceiling, in registry order
func ForTier(ceiling models.Tier) []Info {
	var out []Info
	for _, info := range registry {
		if info.Tier.Rank() <= ceiling.Rank() {
			out = append(out, info)
		}
	}
	return out
}
