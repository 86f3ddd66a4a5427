package store

import (
	"sort"

	"manygolf/internal/domain"
)

// RankRound orders players for round results: holed-out players first, then
// fewer strokes, then earlier finish, then join order.
func RankRound(players domain.PlayersMap) []domain.Player {
	ranked := players.Values()
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Scored != b.Scored {
			return a.Scored
		}
		if a.Strokes != b.Strokes {
			return a.Strokes < b.Strokes
		}
		if a.Scored && a.ScoreTime != b.ScoreTime {
			return a.ScoreTime < b.ScoreTime
		}
		return false
	})
	return ranked
}

// RankMatch orders players by match points, highest first, then join order.
func RankMatch(players domain.PlayersMap) []domain.Player {
	ranked := players.Values()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	return ranked
}

// roundPoints returns the points awarded for finishing at place (0-based)
// among scored players in a round of n players.
func roundPoints(n, place int) int {
	pts := n - place
	if pts < 1 {
		return 1
	}
	return pts
}
