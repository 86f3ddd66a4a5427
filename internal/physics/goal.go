package physics

import (
	"github.com/kvartborg/vector"
	"github.com/solarlune/resolv"

	"manygolf/internal/domain"
)

// GoalOverlaps maps each player id to whether its ball is in the cup of level:
// either its centre lies inside the cup or its outline crosses the cup's edges.
// Intersection alone misses a ball sitting wholly inside or resting tangent on
// the cup floor.
func (w *World) GoalOverlaps(level *domain.Level, players domain.PlayersMap) map[string]bool {
	out := make(map[string]bool, players.Len())
	if level == nil {
		return out
	}
	hole := level.Data.Hole
	cup := resolv.NewRectangle(hole.X-CupWidth/2, hole.Y, CupWidth, CupDepth)

	players.Each(func(p domain.Player) {
		if p.Body == nil {
			return
		}
		pos := p.Body.Position()
		if cup.PointInside(vector.Vector{pos.X, pos.Y}) {
			out[p.ID] = true
			return
		}
		ball := resolv.NewCircle(pos.X, pos.Y, BallRadius)
		out[p.ID] = ball.Intersection(0, 0, cup) != nil
	})
	return out
}
