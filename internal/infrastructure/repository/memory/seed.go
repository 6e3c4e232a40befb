package memory

import (
	"time"

	"github.com/clubkit/league-sync/internal/domain/season"
)

const SeasonIDSpring2026 = "spring-2026"

// SeedSeasons backs demo mode (no DB_URL). The portal URLs are real
// page shapes so a demo instance exercises the whole fetch path.
func SeedSeasons() []season.Season {
	return []season.Season{
		{
			ID:                 SeasonIDSpring2026,
			Slug:               "spring-2026",
			Name:               "Spring League 2026",
			TeamName:           "I think we struck goals here",
			SourceURLFixtures:  "portal.playfootball.net/Leagues/Fixtures?selectedLeague=1001",
			SourceURLResults:   "portal.playfootball.net/Leagues/Results?selectedLeague=1001",
			SourceURLStandings: "portal.playfootball.net/Leagues/Tables?selectedLeague=1001",
			IsActive:           true,
			CreatedAt:          time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "autumn-2025",
			Slug:      "autumn-2025",
			Name:      "Autumn League 2025",
			TeamName:  "I think we struck goals here",
			IsActive:  false,
			CreatedAt: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}
