package analyzer

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/brandpulse/ai-visibility/internal/models"
)

const citationContext = 100

var (
	bareURLPattern      = regexp.MustCompile(`https?://[^\s<>"'\[\]()]+`)
	markdownLinkPattern = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)\)`)
	sourcePhrasePattern = regexp.MustCompile(`(?i)\b(?:sources?|from|via)\s*:?\s+((?:www\.)?[a-z0-9](?:[a-z0-9-]*[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]*[a-z0-9])?)*\.[a-z]{2,})\b`)
)

// ExtractCitations collects each distinct URL once, scanning bare URLs, then
// Markdown links, then "source/from/via <domain>" phrasing. Malformed URLs
// are skipped.
func ExtractCitations(text, ownDomain string) []models.Citation {
	out := []models.Citation{}
	if text == "" {
		return out
	}

	own := NormalizeDomain(ownDomain)
	seen := make(map[string]bool)

	add := func(raw string, start, end int) {
		raw = strings.TrimRight(raw, ".,;:!?*'\"")
		key := strings.TrimSuffix(raw, "/")
		if raw == "" || seen[key] {
			return
		}
		domain, ok := domainOf(raw)
		if !ok {
			return
		}
		seen[key] = true
		out = append(out, models.Citation{
			URL:       raw,
			Domain:    domain,
			IsOwnSite: IsOwnSite(domain, own),
			Context:   contextAround(text, start, end),
		})
	}

	for _, loc := range bareURLPattern.FindAllStringIndex(text, -1) {
		add(text[loc[0]:loc[1]], loc[0], loc[1])
	}

	for _, m := range markdownLinkPattern.FindAllStringSubmatchIndex(text, -1) {
		target := text[m[2]:m[3]]
		if strings.HasPrefix(target, "/") || strings.HasPrefix(target, "#") {
			continue
		}
		if !strings.Contains(target, "://") {
			target = "https://" + target
		}
		add(target, m[0], m[1])
	}

	for _, m := range sourcePhrasePattern.FindAllStringSubmatchIndex(text, -1) {
		add("https://"+strings.ToLower(text[m[2]:m[3]]), m[0], m[1])
	}

	return out
}

// NormalizeDomain lower-cases a domain or URL and strips scheme, path and a leading www.
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if i := strings.LastIndex(d, ":"); i >= 0 {
		d = d[:i]
	}
	return strings.TrimPrefix(d, "www.")
}

// IsOwnSite reports whether a citation domain belongs to the brand's domain
func IsOwnSite(domain, ownDomain string) bool {
	own := NormalizeDomain(ownDomain)
	if own == "" {
		return false
	}
	return strings.Contains(NormalizeDomain(domain), own)
}

func domainOf(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || !strings.Contains(host, ".") || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return "", false
	}
	return strings.TrimPrefix(host, "www."), true
}

func contextAround(text string, start, end int) string {
	from := runeFloor(text, start-citationContext)
	to := runeCeil(text, end+citationContext)
	return strings.Join(strings.Fields(text[from:to]), " ")
}
