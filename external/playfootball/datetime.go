package playfootball

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ukDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
var ordinalSuffixRegex = regexp.MustCompile(`(\d)(st|nd|rd|th)\b`)

// Fallback layouts for prose date labels. Labels without a year cannot
// be resolved and stay nil.
var proseLayouts = []string{
	"Monday 2 January 2006 15:04",
	"2 January 2006 15:04",
	"January 2, 2006 15:04",
	"2006-01-02 15:04",
}

// resolveKickoff turns a scraped (date label, time) pair into a UTC
// instant. The portal's canonical form is DD/MM/YYYY with a 24h HH:MM
// time, interpreted as UTC calendar fields. Anything else runs through
// a short layout list. Unresolvable labels return nil; the caller keeps
// the record either way.
func resolveKickoff(dateLabel, timeLabel string) *time.Time {
	dateLabel = strings.TrimSpace(dateLabel)
	timeLabel = strings.TrimSpace(timeLabel)
	if dateLabel == "" || timeLabel == "" {
		return nil
	}

	if m := ukDateRegex.FindStringSubmatch(dateLabel); m != nil {
		hour, minute, ok := splitClock(timeLabel)
		if !ok {
			return nil
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return nil
		}
		at := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
		return &at
	}

	candidate := ordinalSuffixRegex.ReplaceAllString(dateLabel, "$1") + " " + timeLabel
	for _, layout := range proseLayouts {
		if at, err := time.Parse(layout, candidate); err == nil {
			at = at.UTC()
			return &at
		}
	}
	return nil
}

func splitClock(value string) (int, int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
