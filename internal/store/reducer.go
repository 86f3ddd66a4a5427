package store

import (
	"errors"
	"fmt"

	"manygolf/internal/domain"
)

var (
	ErrUnknownPlayer  = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already joined")
	ErrAlreadyScored  = errors.New("player already scored this round")
	ErrRoundNotLive   = errors.New("round is not live")
	ErrHurryUpExtends = errors.New("hurry-up may only shorten the round")
	ErrUnknownAction  = errors.New("unknown action")
)

// Env carries the inputs a transition needs besides state and action.
type Env struct {
	Now         int64 // ms since epoch
	LevelOverMS int64
}

// Reduce applies action to state and returns the next snapshot.
// The input snapshot is never modified.
func Reduce(state domain.State, action Action, env Env) (domain.State, error) {
	switch a := action.(type) {
	case JoinGame:
		if state.Players.Has(a.ID) {
			return state, fmt.Errorf("%w: %s", ErrPlayerExists, a.ID)
		}
		state.Players = state.Players.With(domain.Player{
			ID:            a.ID,
			Name:          a.Name,
			Color:         a.Color,
			Body:          a.Body,
			LastSwingTime: a.Now,
		})
		return state, nil

	case LeaveGame:
		if !state.Players.Has(a.ID) {
			return state, fmt.Errorf("%w: %s", ErrUnknownPlayer, a.ID)
		}
		state.Players = state.Players.Without(a.ID)
		if state.LeaderID == a.ID {
			state.LeaderID = ""
		}
		return state, nil

	case Swing:
		if !state.Players.Has(a.ID) {
			return state, fmt.Errorf("%w: %s", ErrUnknownPlayer, a.ID)
		}
		state.Players = state.Players.Update(a.ID, func(p domain.Player) domain.Player {
			p.Strokes++
			p.LastSwingTime = a.Now
			return p
		})
		return state, nil

	case Scored:
		p, ok := state.Players.Get(a.ID)
		if !ok {
			return state, fmt.Errorf("%w: %s", ErrUnknownPlayer, a.ID)
		}
		if p.Scored {
			return state, fmt.Errorf("%w: %s", ErrAlreadyScored, a.ID)
		}
		state.Players = state.Players.Update(a.ID, func(q domain.Player) domain.Player {
			q.Scored = true
			q.ScoreTime = a.Elapsed
			return q
		})
		return state, nil

	case StartMatch:
		state.Phase = domain.PhaseInMatch
		state.Round = domain.RoundNone
		state.EndTime = a.EndTime
		state.NextMatchAt = 0
		state.LeaderID = ""
		state.MatchRankedPlayers = nil
		state.RoundRankedPlayers = nil
		state.Players = state.Players.Map(func(p domain.Player) domain.Player {
			p.Points = 0
			return p
		})
		return state, nil

	case MatchOver:
		state.Phase = domain.PhaseMatchOver
		state.Round = domain.RoundNone
		state.NextMatchAt = a.NextMatchAt
		state.MatchRankedPlayers = RankMatch(state.Players)
		return state, nil

	case Level:
		level := &domain.Level{Data: a.Data, StartTime: a.StartTime, ExpTime: a.ExpTime}
		state.Level = level
		state.Round = domain.RoundLive
		state.ExpTime = a.ExpTime
		state.HurryUp = false
		state.RoundRankedPlayers = nil
		state.Players = state.Players.Map(func(p domain.Player) domain.Player {
			p.Strokes = 0
			p.Scored = false
			p.ScoreTime = 0
			p.LastSwingTime = a.StartTime
			return p
		})
		return state, nil

	case HurryUp:
		if !state.RoundLive() {
			return state, ErrRoundNotLive
		}
		if a.ExpTime >= state.ExpTime {
			return state, fmt.Errorf("%w: %d >= %d", ErrHurryUpExtends, a.ExpTime, state.ExpTime)
		}
		level := *state.Level
		level.ExpTime = a.ExpTime
		state.Level = &level
		state.ExpTime = a.ExpTime
		state.HurryUp = true
		return state, nil

	case LevelOver:
		if !state.RoundLive() {
			return state, ErrRoundNotLive
		}
		players := state.Players
		n := players.Len()
		place := 0
		for _, p := range RankRound(players) {
			if !p.Scored {
				break
			}
			pts := roundPoints(n, place)
			players = players.Update(p.ID, func(q domain.Player) domain.Player {
				q.Points += pts
				return q
			})
			place++
		}
		state.Players = players
		state.Round = domain.RoundOver
		state.HurryUp = false
		state.RoundRankedPlayers = RankRound(players)
		state.LeaderID = ""
		if ranked := RankMatch(players); len(ranked) > 0 {
			state.LeaderID = ranked[0].ID
		}
		state.ExpTime = env.Now + env.LevelOverMS
		return state, nil
	}

	return state, fmt.Errorf("%w: %T", ErrUnknownAction, action)
}
