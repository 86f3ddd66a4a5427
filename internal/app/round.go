package app

import (
	"fmt"

	"go.uber.org/zap"

	"manygolf/internal/domain"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

// hurryUpRatio is the unscored share of players below which the round is cut short.
const hurryUpRatio = 0.25

// CycleLevel generates a new hole, starts a round of TimerMS on it and
// announces it to every client. The generated level is returned so the
// caller can load it into the physics world.
func (d *Director) CycleLevel() (domain.LevelData, error) {
	startTime := d.now()
	expTime := startTime + d.timing.TimerMS
	data := d.levels.Generate()

	if _, err := d.store.Dispatch(store.Level{Data: data, ExpTime: expTime, StartTime: startTime}); err != nil {
		return domain.LevelData{}, fmt.Errorf("start round: %w", err)
	}
	d.log.Info("level cycled", zap.Int64("exp_time", expTime), zap.Float64("hole_x", data.Hole.X))

	d.sendAll(protocol.NewLevel(protocol.FromLevelData(data), d.timing.TimerMS))
	return data, nil
}

// CheckHurryUp shortens the round to HurryUpMS from now once only one player
// (out of several) or under a quarter of the players have yet to score.
// The round is never lengthened, so a round already in hurry-up stays put.
func (d *Director) CheckHurryUp(players domain.PlayersMap, expTime int64) error {
	if !shouldHurryUp(players) {
		return nil
	}
	newTime := d.now() + d.timing.HurryUpMS
	if newTime >= expTime {
		return nil
	}

	if _, err := d.store.Dispatch(store.HurryUp{ExpTime: newTime}); err != nil {
		return fmt.Errorf("hurry up: %w", err)
	}
	d.log.Info("hurry up", zap.Int64("exp_time", newTime))

	d.sendAll(protocol.NewHurryUp(d.timing.HurryUpMS))
	return nil
}

func shouldHurryUp(players domain.PlayersMap) bool {
	size := players.Len()
	if size == 0 {
		return false
	}
	remaining := players.Count(func(p domain.Player) bool { return !p.Scored })
	return (size > 1 && remaining == 1) || float64(remaining)/float64(size) < hurryUpRatio
}

// LevelOver finalizes the round and broadcasts its results. before must be
// the players as they were ahead of this call: points are diffed against it,
// since the returned state already holds the awarded points.
func (d *Director) LevelOver(before domain.PlayersMap) error {
	state, err := d.store.Dispatch(store.LevelOver{})
	if err != nil {
		return fmt.Errorf("end round: %w", err)
	}

	d.sendAll(protocol.NewLevelOver(
		roundResults(before, state.RoundRankedPlayers),
		state.ExpTime,
		state.LeaderID,
	))
	return nil
}
