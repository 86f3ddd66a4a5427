package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"manygolf/internal/config"
	"manygolf/internal/domain"
	"manygolf/internal/physics"
	"manygolf/internal/ports"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

var (
	ErrRoundNotLive = errors.New("no round in progress")
	ErrHoledOut     = errors.New("player already holed out")
)

// SessionConfig holds what a Session needs besides its own store and world.
type SessionConfig struct {
	ID        string // generated when empty
	Timing    config.Timing
	Broadcast ports.Broadcaster
	Results   ports.ResultsPort // optional
	Levels    LevelGenerator
	Clock     func() time.Time
	Logger    *zap.Logger
}

// Session is one running game: a store, a physics world and the director that
// ties them together. It is driven by Tick at Timing.TickRate and, like the
// director, must only be used from a single goroutine.
type Session struct {
	id       string
	store    *store.Store
	world    *physics.World
	director *Director
	out      ports.Broadcaster
	results  ports.ResultsPort
	timing   config.Timing
	clock    func() time.Time
	log      *zap.Logger

	ticks        int64
	joined       int
	matchID      string
	matchStarted time.Time
}

// NewSession builds a session in the waiting state.
func NewSession(cfg SessionConfig) *Session {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	log := cfg.Logger.With(zap.String("session_id", cfg.ID))

	st := store.New(cfg.Timing, cfg.Clock)
	world := physics.NewWorld()

	return &Session{
		id:    cfg.ID,
		store: st,
		world: world,
		director: NewDirector(Deps{
			Store:     st,
			Broadcast: cfg.Broadcast,
			Levels:    cfg.Levels,
			Physics:   world,
			Timing:    cfg.Timing,
			Clock:     cfg.Clock,
			Logger:    log,
		}),
		out:     cfg.Broadcast,
		results: cfg.Results,
		timing:  cfg.Timing,
		clock:   cfg.Clock,
		log:     log,
	}
}

func (s *Session) ID() string { return s.id }

// State returns the current snapshot.
func (s *Session) State() domain.State { return s.store.State() }

// Join adds a player, sends them the current picture of the game and tells
// everybody else.
func (s *Session) Join(id, name string) error {
	if s.store.State().Players.Has(id) {
		return fmt.Errorf("join %s: %w", id, store.ErrPlayerExists)
	}
	color := PlayerColors[s.joined%len(PlayerColors)]
	ball := s.world.AddBall(id)

	state, err := s.store.Dispatch(store.JoinGame{
		ID:    id,
		Name:  name,
		Color: color,
		Body:  ball,
		Now:   s.clock().UnixMilli(),
	})
	if err != nil {
		s.world.RemoveBall(id)
		return fmt.Errorf("join %s: %w", id, err)
	}
	s.joined++
	s.log.Info("player joined", zap.String("player_id", id), zap.String("name", name))

	s.send(id, protocol.NewInitial(s.initial(id, state)))
	announce := protocol.NewPlayerConnected(id, name, color)
	state.Players.Each(func(p domain.Player) {
		if p.ID != id {
			s.send(p.ID, announce)
		}
	})
	return nil
}

// Leave removes a disconnected player.
func (s *Session) Leave(id string) error {
	if _, err := s.store.Dispatch(store.LeaveGame{ID: id}); err != nil {
		return fmt.Errorf("leave %s: %w", id, err)
	}
	s.world.RemoveBall(id)
	s.log.Info("player left", zap.String("player_id", id))

	if err := s.out.SendAll(protocol.NewPlayerDisconnected(id)); err != nil {
		s.log.Warn("broadcast failed", zap.Error(err))
	}
	return nil
}

// Swing hits the player's ball with vec. Only resting balls of players that
// have not holed out can be hit, and only while a round is live.
func (s *Session) Swing(id string, vec domain.Vec2) error {
	state := s.store.State()
	p, ok := state.Players.Get(id)
	if !ok {
		return fmt.Errorf("swing %s: %w", id, store.ErrUnknownPlayer)
	}
	if !state.RoundLive() {
		return ErrRoundNotLive
	}
	if p.Scored {
		return ErrHoledOut
	}
	applied, err := s.world.ApplySwing(id, vec)
	if err != nil {
		return fmt.Errorf("swing %s: %w", id, err)
	}
	if _, err := s.store.Dispatch(store.Swing{ID: id, Now: s.clock().UnixMilli()}); err != nil {
		return fmt.Errorf("swing %s: %w", id, err)
	}

	if err := s.out.SendAll(protocol.NewPlayerSwing(id, applied.Array())); err != nil {
		s.log.Warn("broadcast failed", zap.Error(err))
	}
	return nil
}

// Tick advances the session by one simulation step.
func (s *Session) Tick(ctx context.Context) {
	s.ticks++
	s.world.Step(1 / float64(s.timing.TickRate))

	now := s.clock().UnixMilli()
	state := s.store.State()

	switch state.Phase {
	case domain.PhaseWaiting:
		if state.Players.Len() >= MinPlayersToStartMatch {
			s.beginMatch()
		}

	case domain.PhaseMatchOver:
		if now >= state.NextMatchAt && state.Players.Len() >= MinPlayersToStartMatch {
			s.beginMatch()
		}

	case domain.PhaseInMatch:
		switch state.Round {
		case domain.RoundNone:
			s.cycleLevel()
		case domain.RoundLive:
			s.playRound(now)
		case domain.RoundOver:
			if now < state.ExpTime {
				break
			}
			if now >= state.EndTime {
				s.endMatch(ctx)
			} else {
				s.cycleLevel()
			}
		}
	}

	if s.timing.SyncEveryTicks > 0 && s.ticks%int64(s.timing.SyncEveryTicks) == 0 {
		if players := s.store.State().Players; players.Len() > 0 {
			s.director.SendSync(players, now)
		}
	}
}

// playRound runs the per-tick checks of a live round in order: bounds,
// scoring, hurry-up, idle sweep and finally round expiry.
func (s *Session) playRound(now int64) {
	state := s.store.State()
	s.director.EnsurePlayersInBounds(state.Level, state.Players)

	overlaps := s.world.GoalOverlaps(state.Level, state.Players)
	s.director.CheckScored(overlaps, state.Players, now-state.Level.StartTime)

	state = s.store.State()
	if err := s.director.CheckHurryUp(state.Players, state.ExpTime); err != nil {
		s.log.Error("hurry up failed", zap.Error(err))
	}

	before := s.store.State().Players
	s.director.SweepInactivePlayers(before, now)
	state = s.store.State()
	before.Each(func(p domain.Player) {
		if !state.Players.Has(p.ID) {
			s.world.RemoveBall(p.ID)
		}
	})

	if now >= state.ExpTime {
		if err := s.director.LevelOver(state.Players); err != nil {
			s.log.Error("level over failed", zap.Error(err))
		}
	}
}

func (s *Session) beginMatch() {
	if err := s.director.StartMatch(); err != nil {
		s.log.Error("start match failed", zap.Error(err))
		return
	}
	s.matchID = uuid.NewString()
	s.matchStarted = s.clock()
	s.cycleLevel()
}

func (s *Session) cycleLevel() {
	data, err := s.director.CycleLevel()
	if err != nil {
		s.log.Error("cycle level failed", zap.Error(err))
		return
	}
	s.world.SetLevel(data)
}

func (s *Session) endMatch(ctx context.Context) {
	state, err := s.director.EndMatch()
	if err != nil {
		s.log.Error("end match failed", zap.Error(err))
		return
	}
	if s.results == nil || len(state.MatchRankedPlayers) == 0 {
		return
	}

	result := ports.MatchResult{
		MatchID:   s.matchID,
		StartedAt: s.matchStarted,
		EndedAt:   s.clock(),
		Players:   make([]ports.PlayerResult, 0, len(state.MatchRankedPlayers)),
	}
	for i, p := range state.MatchRankedPlayers {
		result.Players = append(result.Players, ports.PlayerResult{
			PlayerID: p.ID,
			Name:     p.Name,
			Color:    p.Color,
			Points:   p.Points,
			Rank:     i + 1,
		})
	}
	if err := s.results.RecordMatch(ctx, result); err != nil {
		s.log.Error("record match failed", zap.String("match_id", s.matchID), zap.Error(err))
	}
}

func (s *Session) send(id string, msg protocol.Message) {
	if err := s.out.SendTo(id, msg); err != nil {
		s.log.Warn("send failed", zap.String("player_id", id), zap.String("type", string(msg.Type)), zap.Error(err))
	}
}

func (s *Session) initial(selfID string, state domain.State) protocol.Initial {
	init := protocol.Initial{
		SelfID:  selfID,
		Players: make([]protocol.InitialPlayer, 0, state.Players.Len()),
		Phase:   string(state.Phase),
	}
	state.Players.Each(func(p domain.Player) {
		ip := protocol.InitialPlayer{
			ID:      p.ID,
			Name:    p.Name,
			Color:   p.Color,
			Scored:  p.Scored,
			Strokes: p.Strokes,
			Points:  p.Points,
		}
		if p.Body != nil {
			ip.Position = p.Body.Position().Array()
			ip.Velocity = p.Body.Velocity().Array()
		}
		init.Players = append(init.Players, ip)
	})
	if state.Level != nil {
		level := protocol.FromLevelData(state.Level.Data)
		init.Level = &level
		if left := state.ExpTime - s.clock().UnixMilli(); left > 0 {
			init.ExpiresIn = left
		}
	}
	return init
}
