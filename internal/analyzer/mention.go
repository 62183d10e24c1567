package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minVariantLength = 3
	snippetBefore    = 50
	snippetAfter     = 200
)

var (
	// ordered (1. / 1)), bullet (- * •) or bold-numbered (**1) marker at line
	// start, optionally behind a Markdown heading (### 1. Globex)
	listLineMarker = regexp.MustCompile(`^\s*(?:#{1,6}\s+)?(?:\d+[.)]|[-*•]\s|\*\*\d+)`)
	// ordered markers embedded in prose: "... are 1. A 2. B 3. C"
	inlineListMarker = regexp.MustCompile(`(?:^|\s)\d{1,2}[.)]\s`)
)

// Variants returns the lower-cased brand plus its no-space, hyphenated and
// underscored forms. Variants shorter than three characters are dropped.
func Variants(name string) []string {
	base := strings.ToLower(strings.Join(strings.Fields(name), " "))
	candidates := []string{
		base,
		strings.ReplaceAll(base, " ", ""),
		strings.ReplaceAll(base, " ", "-"),
		strings.ReplaceAll(base, " ", "_"),
	}

	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, v := range candidates {
		if len(v) < minVariantLength || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// IsMentioned reports whether text contains the name or one of its variants,
// case-insensitively
func IsMentioned(text, name string) bool {
	return containsVariant(text, Variants(name))
}

func containsVariant(text string, variants []string) bool {
	if len(variants) == 0 || text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, v := range variants {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// FindPosition returns the 1-based list position of the first list item that
// contains a variant, or nil when no list item does
func FindPosition(text string, variants []string) *int {
	if len(variants) == 0 {
		return nil
	}
	for i, item := range listItems(text) {
		if containsVariant(item, variants) {
			pos := i + 1
			return &pos
		}
	}
	return nil
}

// listItems splits a response into list entries. A line with two or more
// inline ordered markers yields one entry per marker.
func listItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		inline := inlineListMarker.FindAllStringIndex(line, -1)
		if len(inline) >= 2 {
			for i, loc := range inline {
				end := len(line)
				if i+1 < len(inline) {
					end = inline[i+1][0]
				}
				items = append(items, line[loc[0]:end])
			}
			continue
		}
		if listLineMarker.MatchString(line) {
			items = append(items, line)
		}
	}
	return items
}

// Snippet returns a window around the first variant occurrence, with an
// ellipsis on each side that was truncated
func Snippet(text string, variants []string) string {
	lower := strings.ToLower(text)

	idx, matchLen := -1, 0
	for _, v := range variants {
		if i := strings.Index(lower, v); i >= 0 && (idx < 0 || i < idx) {
			idx, matchLen = i, len(v)
		}
	}
	if idx < 0 {
		return ""
	}

	// offsets found in the lowered copy are mapped back so the caller sees
	// the original text
	matchStart := originalOffset(text, idx)
	matchEnd := originalOffset(text, idx+matchLen)
	start := runeFloor(text, matchStart-snippetBefore)
	end := runeCeil(text, matchEnd+snippetAfter)

	snippet := strings.TrimSpace(text[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet += "..."
	}
	return snippet
}

// originalOffset maps a byte offset in strings.ToLower(s) onto s
func originalOffset(s string, lowered int) int {
	pos := 0
	for i, r := range s {
		if pos >= lowered {
			return i
		}
		pos += utf8.RuneLen(unicode.ToLower(r))
	}
	return len(s)
}

// runeFloor clamps i into s and moves it back to a rune boundary
func runeFloor(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil clamps i into s and moves it forward to a rune boundary
func runeCeil(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	if i <= 0 {
		return 0
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

// nameMatcher reports whether a text names a competitor. Unlike brand
// variants, a name shorter than three characters is kept and only matches as
// a whole word, so "LG" is found in "1. LG" but not in "algorithm".
func nameMatcher(name string) func(text string) bool {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if key == "" {
		return func(string) bool { return false }
	}
	if len(key) >= minVariantLength {
		variants := Variants(key)
		return func(text string) bool { return containsVariant(text, variants) }
	}
	word := regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(key) + `(?:$|[^\p{L}\p{N}])`)
	return word.MatchString
}

// MentionsCompetitor reports whether text names the competitor, whatever the
// length of its name
func MentionsCompetitor(text, name string) bool {
	return nameMatcher(name)(text)
}

// CompetitorPosition returns the 1-based list position of the first list item
// naming the competitor, or nil
func CompetitorPosition(text, name string) *int {
	matches := nameMatcher(name)
	for i, item := range listItems(text) {
		if matches(item) {
			pos := i + 1
			return &pos
		}
	}
	return nil
}
