package physics

import (
	"errors"
	"math"

	"manygolf/internal/domain"
)

var (
	ErrUnknownBall = errors.New("no ball for player")
	ErrBallMoving  = errors.New("ball is still moving")
)

// World integrates the balls of one session. It is owned by the session's
// tick context and is not safe for concurrent use.
type World struct {
	balls map[string]*Ball
	level *domain.LevelData
}

func NewWorld() *World {
	return &World{balls: make(map[string]*Ball)}
}

// SetLevel swaps the terrain and puts every ball back on the spawn.
func (w *World) SetLevel(level domain.LevelData) {
	w.level = &level
	for _, b := range w.balls {
		b.place(SpawnPosition(level))
	}
}

// SpawnPosition is where a fresh ball rests on level.
func SpawnPosition(level domain.LevelData) domain.Vec2 {
	return domain.Vec2{X: level.Spawn.X, Y: level.HeightAt(level.Spawn.X) + BallRadius}
}

// AddBall creates the ball for id, resting on the current spawn.
func (w *World) AddBall(id string) *Ball {
	pos := domain.Vec2{}
	if w.level != nil {
		pos = SpawnPosition(*w.level)
	}
	b := NewBall(pos)
	w.balls[id] = b
	return b
}

func (w *World) RemoveBall(id string) {
	delete(w.balls, id)
}

func (w *World) Ball(id string) (*Ball, bool) {
	b, ok := w.balls[id]
	return b, ok
}

// ApplySwing launches a resting ball with vec, clamped to MaxSwingPower.
func (w *World) ApplySwing(id string, vec domain.Vec2) (domain.Vec2, error) {
	b, ok := w.balls[id]
	if !ok {
		return domain.Vec2{}, ErrUnknownBall
	}
	if !b.sleeping {
		return domain.Vec2{}, ErrBallMoving
	}
	if n := vec.Len(); n > MaxSwingPower {
		vec = vec.Scale(MaxSwingPower / n)
	}
	b.vel = vec
	b.wake()
	return vec, nil
}

// Step advances every awake ball by dt seconds.
func (w *World) Step(dt float64) {
	for _, b := range w.balls {
		if b.sleeping {
			continue
		}
		w.integrate(b, dt)
	}
}

func (w *World) integrate(b *Ball, dt float64) {
	b.vel.Y -= Gravity * dt
	b.pos = b.pos.Add(b.vel.Scale(dt))

	if w.level != nil {
		floor := w.level.HeightAt(b.pos.X) + BallRadius
		if b.pos.Y <= floor {
			b.pos.Y = floor
			slope := w.slopeAt(b.pos.X)
			b.vel.X -= Gravity * slope * dt
			if b.vel.Y < -BounceCutoff {
				b.vel.Y = -b.vel.Y * Restitution
			} else if b.vel.Y < 0 {
				b.vel.Y = 0
			}
			b.vel.X *= 1 - Friction
		}
	}

	if b.vel.Len() < SleepSpeed {
		b.slowTicks++
		if b.slowTicks >= SleepTicks {
			b.sleep()
		}
	} else {
		b.slowTicks = 0
	}
}

func (w *World) slopeAt(x float64) float64 {
	const h = 0.25
	return (w.level.HeightAt(x+h) - w.level.HeightAt(x-h)) / (2 * h)
}

// EnsureBallInBounds returns a ball that left the level or fell through the
// terrain to the spawn, at rest. Bodies not owned by this world are ignored.
func (w *World) EnsureBallInBounds(body domain.Body, level *domain.Level) {
	b, ok := body.(*Ball)
	if !ok || level == nil {
		return
	}
	d := level.Data
	outX := b.pos.X < 0 || b.pos.X > d.Width
	under := b.pos.Y < d.HeightAt(b.pos.X)-fallThroughGap
	if outX || under || math.IsNaN(b.pos.X) || math.IsNaN(b.pos.Y) {
		b.place(SpawnPosition(d))
	}
}

// IsAtRest reports whether body has gone to sleep.
func (w *World) IsAtRest(body domain.Body) bool {
	b, ok := body.(*Ball)
	return ok && b.sleeping
}
