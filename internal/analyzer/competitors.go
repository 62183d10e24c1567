package analyzer

import "strings"

// KnownCompetitors are marketplace and SEO-tool brands that commonly show up
// in shopping answers
var KnownCompetitors = []string{
	"amazon", "ebay", "walmart", "etsy", "alibaba", "aliexpress", "temu", "shein",
	"best buy", "costco", "wayfair", "shopify", "bigcommerce", "woocommerce",
	"squarespace", "semrush", "ahrefs", "hubspot", "similarweb", "yoast",
}

// ExtractCompetitors returns the de-duplicated, lower-cased names from the
// static and caller-supplied lists that appear in text, excluding the brand
func ExtractCompetitors(text, brand string, known, supplied []string) []string {
	out := []string{}
	if text == "" {
		return out
	}

	excluded := make(map[string]bool)
	for _, v := range Variants(brand) {
		excluded[v] = true
	}

	seen := make(map[string]bool)
	for _, list := range [][]string{known, supplied} {
		for _, name := range list {
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" || seen[key] || excluded[key] || excluded[strings.ReplaceAll(key, " ", "")] {
				continue
			}
			seen[key] = true
			if MentionsCompetitor(text, key) {
				out = append(out, key)
			}
		}
	}
	return out
}
