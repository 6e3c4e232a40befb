package teamname

import (
	"regexp"
	"strings"
)

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	bareURLRe      = regexp.MustCompile(`https?://\S+`)
)

// Clean strips markdown link syntax and bare URLs from a scraped team
// label, leaving the display name. Cleaning never fails: when stripping
// would leave nothing, the trimmed input is returned as-is.
func Clean(raw string) string {
	cleaned := markdownLinkRe.ReplaceAllString(raw, "$1")
	cleaned = bareURLRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return strings.TrimSpace(raw)
	}
	return cleaned
}

// Key is the canonical comparison form of a team name. Two labels refer
// to the same team exactly when their Keys are equal; display strings
// are never compared directly.
type Key string

// KeyOf lowercases the cleaned name and drops every rune outside
// [a-z0-9], so "Red Star  FC." and "[red star fc](http://x)" collide.
func KeyOf(raw string) Key {
	cleaned := strings.ToLower(Clean(raw))
	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return Key(b.String())
}

func (k Key) String() string { return string(k) }

// Zero reports whether the key carries no identifying characters.
func (k Key) Zero() bool { return k == "" }

// Same reports whether two raw labels normalize to the same team.
func Same(a, b string) bool {
	return KeyOf(a) == KeyOf(b)
}
