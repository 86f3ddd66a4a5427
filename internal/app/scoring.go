package app

import (
	"fmt"

	"go.uber.org/zap"

	"manygolf/internal/domain"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

// CheckScored scores every unscored player whose ball overlaps the cup and
// has come to rest. A ball rolling over the cup does not count.
// elapsed is the time since the round started, in ms.
func (d *Director) CheckScored(overlapping map[string]bool, players domain.PlayersMap, elapsed int64) {
	players.Each(func(p domain.Player) {
		if p.Scored {
			return
		}
		if !overlapping[p.ID] || !d.physics.IsAtRest(p.Body) {
			return
		}

		if _, err := d.store.Dispatch(store.Scored{ID: p.ID, Elapsed: elapsed}); err != nil {
			d.log.Error("scored dispatch failed", zap.String("player_id", p.ID), zap.Error(err))
			return
		}
		d.log.Debug("player scored",
			zap.String("player_id", p.ID),
			zap.Int("strokes", p.Strokes),
			zap.Int64("elapsed_ms", elapsed))

		d.sendAll(protocol.NewDisplayMessage(scoredText(p.Name, p.Strokes, elapsed), p.Color))
	})
}

func scoredText(name string, strokes int, elapsed int64) string {
	label := "strokes"
	if strokes == 1 {
		label = "stroke"
	}
	return fmt.Sprintf("{{%s}} scored! (%d %s in %.2fs)", name, strokes, label, float64(elapsed)/1000)
}
