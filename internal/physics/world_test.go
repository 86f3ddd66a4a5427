package physics

import (
	"errors"
	"testing"

	"manygolf/internal/domain"
)

func flatLevel() domain.LevelData {
	return domain.LevelData{
		Points: []domain.Vec2{{X: 0, Y: 10}, {X: 100, Y: 10}},
		Spawn:  domain.Vec2{X: 10, Y: 10},
		Hole:   domain.Vec2{X: 60, Y: 10 - CupDepth},
		Width:  100,
	}
}

type fakeBody struct{ pos, vel domain.Vec2 }

func (f fakeBody) Position() domain.Vec2 { return f.pos }
func (f fakeBody) Velocity() domain.Vec2 { return f.vel }

func TestAddBallRestsOnSpawn(t *testing.T) {
	w := NewWorld()
	w.SetLevel(flatLevel())
	b := w.AddBall("p1")

	want := domain.Vec2{X: 10, Y: 10 + BallRadius}
	if b.Position() != want {
		t.Fatalf("spawn position = %v, want %v", b.Position(), want)
	}
	if !w.IsAtRest(b) {
		t.Fatal("new ball should be at rest")
	}
}

func TestSwingThenSettle(t *testing.T) {
	w := NewWorld()
	w.SetLevel(flatLevel())
	b := w.AddBall("p1")

	if _, err := w.ApplySwing("p1", domain.Vec2{X: 10, Y: 10}); err != nil {
		t.Fatalf("swing: %v", err)
	}
	if w.IsAtRest(b) {
		t.Fatal("ball should be awake after a swing")
	}
	if _, err := w.ApplySwing("p1", domain.Vec2{X: 1}); !errors.Is(err, ErrBallMoving) {
		t.Fatalf("second swing err = %v, want ErrBallMoving", err)
	}

	for i := 0; i < 400 && !w.IsAtRest(b); i++ {
		w.Step(0.05)
	}
	if !w.IsAtRest(b) {
		t.Fatalf("ball never settled, velocity %v", b.Velocity())
	}
	if b.Position().X <= 10 {
		t.Errorf("ball did not travel: %v", b.Position())
	}
	if b.Velocity() != (domain.Vec2{}) {
		t.Errorf("sleeping ball has velocity %v", b.Velocity())
	}
}

func TestApplySwingClampsPower(t *testing.T) {
	w := NewWorld()
	w.SetLevel(flatLevel())
	w.AddBall("p1")

	got, err := w.ApplySwing("p1", domain.Vec2{X: MaxSwingPower * 3})
	if err != nil {
		t.Fatalf("swing: %v", err)
	}
	if got.Len() > MaxSwingPower+1e-9 {
		t.Errorf("power %v exceeds max %v", got.Len(), MaxSwingPower)
	}
	if _, err := w.ApplySwing("nobody", domain.Vec2{X: 1}); !errors.Is(err, ErrUnknownBall) {
		t.Errorf("unknown ball err = %v", err)
	}
}

func TestEnsureBallInBounds(t *testing.T) {
	level := &domain.Level{Data: flatLevel()}
	spawn := SpawnPosition(level.Data)

	tests := []struct {
		name    string
		pos     domain.Vec2
		wantPos domain.Vec2
	}{
		{"inside", domain.Vec2{X: 40, Y: 20}, domain.Vec2{X: 40, Y: 20}},
		{"left of level", domain.Vec2{X: -1, Y: 20}, spawn},
		{"right of level", domain.Vec2{X: 101, Y: 20}, spawn},
		{"through the floor", domain.Vec2{X: 50, Y: -5}, spawn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld()
			b := w.AddBall("p1")
			b.pos = tt.pos
			b.wake()

			w.EnsureBallInBounds(b, level)
			if b.Position() != tt.wantPos {
				t.Errorf("position = %v, want %v", b.Position(), tt.wantPos)
			}
		})
	}

	// Foreign bodies are left alone.
	NewWorld().EnsureBallInBounds(fakeBody{pos: domain.Vec2{X: -50}}, level)
}

func TestIsAtRestForeignBody(t *testing.T) {
	if NewWorld().IsAtRest(fakeBody{}) {
		t.Error("foreign body reported at rest")
	}
}

func TestGoalOverlaps(t *testing.T) {
	level := &domain.Level{Data: flatLevel()}
	hole := level.Data.Hole
	players := domain.NewPlayersMap(
		domain.Player{ID: "in", Body: fakeBody{pos: domain.Vec2{X: hole.X, Y: hole.Y + BallRadius}}},
		domain.Player{ID: "inside", Body: fakeBody{pos: domain.Vec2{X: hole.X + 0.3, Y: hole.Y + CupDepth/2}}},
		domain.Player{ID: "rim", Body: fakeBody{pos: domain.Vec2{X: hole.X + CupWidth/2 + 0.5, Y: hole.Y + CupDepth}}},
		domain.Player{ID: "out", Body: fakeBody{pos: domain.Vec2{X: 20, Y: 10 + BallRadius}}},
		domain.Player{ID: "nobody"},
	)

	got := NewWorld().GoalOverlaps(level, players)
	if !got["in"] {
		t.Error("ball resting on the cup floor should overlap")
	}
	if !got["inside"] {
		t.Error("ball wholly inside the cup should overlap")
	}
	if !got["rim"] {
		t.Error("ball crossing the cup edge should overlap")
	}
	if got["out"] {
		t.Error("ball on the fairway should not overlap")
	}
	if got["nobody"] {
		t.Error("player without a body should not overlap")
	}
	if len(NewWorld().GoalOverlaps(nil, players)) != 0 {
		t.Error("no level should yield no overlaps")
	}
}

// cupLevel is flat ground with a cup carved around x=60.
func cupLevel() domain.LevelData {
	left, right := 60-CupWidth/2, 60+CupWidth/2
	floor := 10 - CupDepth
	return domain.LevelData{
		Points: []domain.Vec2{
			{X: 0, Y: 10}, {X: left, Y: 10}, {X: left, Y: floor},
			{X: right, Y: floor}, {X: right, Y: 10}, {X: 100, Y: 10},
		},
		Spawn: domain.Vec2{X: 10, Y: 10},
		Hole:  domain.Vec2{X: 60, Y: floor},
		Width: 100,
	}
}

func TestGoalOverlapsSettledBall(t *testing.T) {
	data := cupLevel()
	level := &domain.Level{Data: data}
	w := NewWorld()
	w.SetLevel(data)
	b := w.AddBall("p1")
	b.pos = domain.Vec2{X: 60, Y: 12}
	b.wake()

	for i := 0; i < 400 && !w.IsAtRest(b); i++ {
		w.Step(0.05)
	}
	if !w.IsAtRest(b) {
		t.Fatalf("ball never settled, velocity %v", b.Velocity())
	}
	wantY := data.Hole.Y + BallRadius
	if d := b.Position().Y - wantY; d > 1e-9 || d < -1e-9 {
		t.Fatalf("settled at %v, want y=%v on the cup floor", b.Position(), wantY)
	}

	players := domain.NewPlayersMap(domain.Player{ID: "p1", Body: b})
	if !w.GoalOverlaps(level, players)["p1"] {
		t.Fatalf("settled ball at %v should be in the cup", b.Position())
	}
}
