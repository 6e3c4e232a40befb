package snapshot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clubkit/league-sync/internal/domain/teamname"
)

// MergeFixtures reconciles the fixtures feed (upcoming matches, richer
// scheduling detail) with the results feed (played matches, final
// scores). Records describing the same match are identified by the
// unordered team pair plus the kickoff instant; when either side's
// kickoff is unresolved the literal date label and time stand in.
//
// The fixtures-side record is the base. Score, pitch and a resolved
// kickoff from the results side overlay it whenever the results side
// carries them. Records present on only one side pass through
// unchanged, so a nil feed is a no-op.
func MergeFixtures(fixtures, results []Fixture) []Fixture {
	if len(fixtures) == 0 {
		return append([]Fixture(nil), results...)
	}
	if len(results) == 0 {
		return append([]Fixture(nil), fixtures...)
	}

	merged := make([]Fixture, len(fixtures))
	copy(merged, fixtures)

	// Index on both key forms: a side that resolved the kickoff and a
	// side that did not must still meet on the literal labels.
	index := make(map[string]int, len(merged)*2)
	for i, f := range merged {
		if k := instantKey(f); k != "" {
			index[k] = i
		}
		index[labelKey(f)] = i
	}

	var extra []Fixture
	for _, r := range results {
		i, ok := index[instantKey(r)]
		if !ok {
			i, ok = index[labelKey(r)]
		}
		if !ok {
			extra = append(extra, r)
			continue
		}
		base := &merged[i]
		if r.HomeScore != nil && r.AwayScore != nil {
			// Results feed is authoritative for outcomes; orient the
			// score to the base record's home side.
			if sameOrientation(*base, r) {
				base.HomeScore, base.AwayScore = r.HomeScore, r.AwayScore
			} else {
				base.HomeScore, base.AwayScore = r.AwayScore, r.HomeScore
			}
		}
		if r.Pitch != "" {
			base.Pitch = r.Pitch
		}
		if r.KickoffAt != nil {
			base.KickoffAt = r.KickoffAt
		}
	}

	return append(merged, extra...)
}

func sameOrientation(a, b Fixture) bool {
	return teamname.KeyOf(a.HomeTeam) == teamname.KeyOf(b.HomeTeam)
}

func pairKey(f Fixture) string {
	home := string(teamname.KeyOf(f.HomeTeam))
	away := string(teamname.KeyOf(f.AwayTeam))
	if home > away {
		home, away = away, home
	}
	return home + "|" + away
}

func instantKey(f Fixture) string {
	if f.KickoffAt == nil {
		return ""
	}
	return pairKey(f) + fmt.Sprintf("|@%d", f.KickoffAt.Unix())
}

func labelKey(f Fixture) string {
	return pairKey(f) + "|" + strings.TrimSpace(f.DateLabel) + "|" + strings.TrimSpace(f.Time)
}

// SortByKickoff orders fixtures chronologically in place. Records
// without a resolved kickoff sort as the zero instant and therefore
// collect at the front; ties keep their source order.
func SortByKickoff(fixtures []Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		return kickoffOrDefault(fixtures[i]).Before(kickoffOrDefault(fixtures[j]))
	})
}
