package app

import (
	"fmt"

	"go.uber.org/zap"

	"manygolf/internal/domain"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

// StartMatch opens a match of MatchLengthMS. Clients learn about it from the
// level that follows, so nothing is broadcast.
func (d *Director) StartMatch() error {
	endTime := d.now() + d.timing.MatchLengthMS
	if _, err := d.store.Dispatch(store.StartMatch{EndTime: endTime}); err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	d.log.Info("match started", zap.Int64("end_time", endTime))
	return nil
}

// EndMatch closes the match, schedules the next one after MatchOverMS and
// broadcasts the final standings. The resulting state is returned for
// callers that persist results.
func (d *Director) EndMatch() (domain.State, error) {
	nextMatchAt := d.now() + d.timing.MatchOverMS
	state, err := d.store.Dispatch(store.MatchOver{NextMatchAt: nextMatchAt})
	if err != nil {
		return state, fmt.Errorf("end match: %w", err)
	}
	d.log.Info("match over", zap.Int("players", len(state.MatchRankedPlayers)))

	d.sendAll(protocol.NewMatchOver(d.timing.MatchOverMS, matchResults(state.MatchRankedPlayers)))
	return state, nil
}
