package app

import (
	"fmt"

	"go.uber.org/zap"

	"manygolf/internal/domain"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

// SweepInactivePlayers evicts every player that has not swung for longer than
// the idle timeout. Each eviction runs to completion (leave, disconnect notice,
// kick notice, spectate announcement) before the next player is looked at.
func (d *Director) SweepInactivePlayers(players domain.PlayersMap, now int64) {
	players.Each(func(p domain.Player) {
		if now <= p.LastSwingTime+d.timing.IdleKickMS {
			return
		}
		d.log.Info("idle kicking player", zap.String("player_id", p.ID), zap.String("name", p.Name))

		if _, err := d.store.Dispatch(store.LeaveGame{ID: p.ID}); err != nil {
			d.log.Error("leave dispatch failed", zap.String("player_id", p.ID), zap.Error(err))
			return
		}

		d.sendAll(protocol.NewPlayerDisconnected(p.ID))
		d.sendTo(p.ID, protocol.NewIdleKicked())
		d.sendAll(protocol.NewDisplayMessage(spectatingText(p.Name), p.Color))
	})
}

func spectatingText(name string) string {
	return fmt.Sprintf("{{%s}} is now spectating", name)
}
