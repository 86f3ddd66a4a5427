package app

import (
	"manygolf/internal/domain"
	"manygolf/internal/protocol"
)

// SendSync broadcasts the live position and velocity of every ball.
// The message depends only on the bodies and time, so repeating the call
// without a physics step sends the same payload.
func (d *Director) SendSync(players domain.PlayersMap, time int64) {
	d.sendAll(protocol.NewSync(syncPlayers(players), time))
}

func syncPlayers(players domain.PlayersMap) []protocol.SyncPlayer {
	out := make([]protocol.SyncPlayer, 0, players.Len())
	players.Each(func(p domain.Player) {
		sp := protocol.SyncPlayer{ID: p.ID}
		if p.Body != nil {
			sp.Position = p.Body.Position().Array()
			sp.Velocity = p.Body.Velocity().Array()
		}
		out = append(out, sp)
	})
	return out
}
