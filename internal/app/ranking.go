package app

import (
	"manygolf/internal/domain"
	"manygolf/internal/protocol"
)

// roundResults builds the round-over rows. Previous points come from before,
// the snapshot taken ahead of the levelOver dispatch; a player missing from it
// counts as having had none.
func roundResults(before domain.PlayersMap, ranked []domain.Player) []protocol.RoundRankedPlayer {
	out := make([]protocol.RoundRankedPlayer, 0, len(ranked))
	for _, p := range ranked {
		prev := 0
		if old, ok := before.Get(p.ID); ok {
			prev = old.Points
		}
		out = append(out, protocol.RoundRankedPlayer{
			ID:          p.ID,
			Color:       p.Color,
			Name:        p.Name,
			Strokes:     p.Strokes,
			ScoreTime:   p.ScoreTime,
			Scored:      p.Scored,
			PrevPoints:  prev,
			AddedPoints: p.Points - prev,
		})
	}
	return out
}

// matchResults reduces ranked players to the fields shown on the match-over screen.
func matchResults(ranked []domain.Player) []protocol.MatchRankedPlayer {
	out := make([]protocol.MatchRankedPlayer, 0, len(ranked))
	for _, p := range ranked {
		out = append(out, protocol.MatchRankedPlayer{
			ID:     p.ID,
			Color:  p.Color,
			Name:   p.Name,
			Points: p.Points,
		})
	}
	return out
}
