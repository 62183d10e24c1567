package platforms

import (
	"strings"

	"github.com/brandpulse/ai-visibility/internal/models"
)

// RegionInfo describes a market used to localize prompts
type RegionInfo struct {
	Region        models.Region
	Name          string
	Language      string
	MarketContext string
}

var regions = []RegionInfo{
	{Region: models.RegionUS, Name: "United States", Language: "en-US", MarketContext: "shoppers in the United States, prices in USD"},
	{Region: models.RegionUK, Name: "United Kingdom", Language: "en-GB", MarketContext: "shoppers in the United Kingdom, prices in GBP"},
	{Region: models.RegionEU, Name: "European Union", Language: "en", MarketContext: "shoppers across the European Union, prices in EUR"},
	{Region: models.RegionFR, Name: "France", Language: "fr-FR", MarketContext: "shoppers in France, prices in EUR"},
	{Region: models.RegionDE, Name: "Germany", Language: "de-DE", MarketContext: "shoppers in Germany, prices in EUR"},
	{Region: models.RegionES, Name: "Spain", Language: "es-ES", MarketContext: "shoppers in Spain, prices in EUR"},
	{Region: models.RegionCA, Name: "Canada", Language: "en-CA", MarketContext: "shoppers in Canada, prices in CAD"},
	{Region: models.RegionAU, Name: "Australia", Language: "en-AU", MarketContext: "shoppers in Australia, prices in AUD"},
}

var regionsByKey = make(map[models.Region]RegionInfo, len(regions))

// LookupRegion returns the catalogue entry for a region
func LookupRegion(r models.Region) (RegionInfo, bool) {
	info, ok := regionsByKey[r]
	return info, ok
}

// ParseRegion resolves a user-supplied region key; empty means us
func ParseRegion(key string) (models.Region, error) {
	r := models.Region(strings.ToLower(strings.TrimSpace(key)))
	if r == "" {
		return models.RegionUS, nil
	}
	if _, ok := regionsByKey[r]; !ok {
		return "", models.NewInvalidInput("region", key, "unknown region")
	}
	return r, nil
}

// SystemPrompt is the regionalized instruction sent with every query
func SystemPrompt(r models.Region) string {
	info, ok := regionsByKey[r]
	if !ok {
		info = regionsByKey[models.RegionUS]
	}
	return "You are a helpful shopping and research assistant. " +
		"Answer the way you normally would for " + info.MarketContext + ". " +
		"When you recommend brands, products or services, name them explicitly, " +
		"rank them when a ranking is natural, and cite sources with URLs when you know them. " +
		"Respond in the language of locale " + info.Language + "."
}
