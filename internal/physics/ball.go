package physics

import "manygolf/internal/domain"

// Tunables in world units (y up) and seconds.
const (
	Gravity        = 40.0
	BallRadius     = 0.8
	Friction       = 0.06 // fraction of tangential speed lost per contact step
	Restitution    = 0.35
	BounceCutoff   = 3.0 // normal speeds below this stop instead of bouncing
	SleepSpeed     = 0.4
	SleepTicks     = 10
	MaxSwingPower  = 90.0
	CupWidth       = 3.2
	CupDepth       = 2.4
	fallThroughGap = 4 * BallRadius
)

// Ball is the physics body of one player. It implements domain.Body.
type Ball struct {
	pos       domain.Vec2
	vel       domain.Vec2
	sleeping  bool
	slowTicks int
}

// NewBall returns a sleeping ball resting at pos.
func NewBall(pos domain.Vec2) *Ball {
	return &Ball{pos: pos, sleeping: true}
}

func (b *Ball) Position() domain.Vec2 { return b.pos }

func (b *Ball) Velocity() domain.Vec2 { return b.vel }

// Sleeping reports whether the ball has settled and is no longer integrated.
func (b *Ball) Sleeping() bool { return b.sleeping }

func (b *Ball) wake() {
	b.sleeping = false
	b.slowTicks = 0
}

func (b *Ball) sleep() {
	b.sleeping = true
	b.slowTicks = 0
	b.vel = domain.Vec2{}
}

// place moves the ball to pos at rest.
func (b *Ball) place(pos domain.Vec2) {
	b.pos = pos
	b.sleep()
}
