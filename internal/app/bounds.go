package app

import "manygolf/internal/domain"

// EnsurePlayersInBounds hands every ball to the physics bounds check.
func (d *Director) EnsurePlayersInBounds(level *domain.Level, players domain.PlayersMap) {
	if level == nil {
		return
	}
	players.Each(func(p domain.Player) {
		if p.Body != nil {
			d.physics.EnsureBallInBounds(p.Body, level)
		}
	})
}
