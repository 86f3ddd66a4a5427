package app

import (
	"time"

	"go.uber.org/zap"

	"manygolf/internal/config"
	"manygolf/internal/domain"
	"manygolf/internal/ports"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

// Dispatcher applies an action to the canonical state and returns the new snapshot.
type Dispatcher interface {
	Dispatch(action store.Action) (domain.State, error)
}

// LevelGenerator produces the geometry of a new hole.
type LevelGenerator interface {
	Generate() domain.LevelData
}

// Physics is the slice of the physics world the director needs.
type Physics interface {
	EnsureBallInBounds(body domain.Body, level *domain.Level)
	IsAtRest(body domain.Body) bool
}

// Deps are the collaborators of a Director.
type Deps struct {
	Store     Dispatcher
	Broadcast ports.Broadcaster
	Levels    LevelGenerator
	Physics   Physics
	Timing    config.Timing
	Clock     func() time.Time // nil means time.Now
	Logger    *zap.Logger      // nil means no logging
}

// Director reacts to one session's state on every tick: it evicts idle
// players, detects scoring, and moves rounds and matches through their
// lifecycle. All methods must be called from the session's tick context.
//
// Per-player dispatch and broadcast failures are logged and skipped so the
// rest of the sweep still runs. Session-wide transitions return their
// dispatch error to the caller, which retries on a later tick.
type Director struct {
	store   Dispatcher
	out     ports.Broadcaster
	levels  LevelGenerator
	physics Physics
	timing  config.Timing
	clock   func() time.Time
	log     *zap.Logger
}

// NewDirector wires a Director from deps.
func NewDirector(deps Deps) *Director {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Director{
		store:   deps.Store,
		out:     deps.Broadcast,
		levels:  deps.Levels,
		physics: deps.Physics,
		timing:  deps.Timing,
		clock:   clock,
		log:     log.Named("director"),
	}
}

func (d *Director) now() int64 {
	return d.clock().UnixMilli()
}

func (d *Director) sendAll(msg protocol.Message) {
	if err := d.out.SendAll(msg); err != nil {
		d.log.Warn("broadcast failed", zap.String("type", string(msg.Type)), zap.Error(err))
	}
}

func (d *Director) sendTo(playerID string, msg protocol.Message) {
	if err := d.out.SendTo(playerID, msg); err != nil {
		d.log.Warn("send failed",
			zap.String("player_id", playerID),
			zap.String("type", string(msg.Type)),
			zap.Error(err))
	}
}
