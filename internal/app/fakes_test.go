package app

import (
	"errors"
	"fmt"
	"time"

	"manygolf/internal/config"
	"manygolf/internal/domain"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

var errInjected = errors.New("injected failure")

// recorder keeps the order of store and network calls across fakes.
type recorder struct {
	calls []string
	sent  []protocol.Message
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// fakeStore applies the real reducer to an in-memory state and can be told to
// fail for given player ids.
type fakeStore struct {
	rec     *recorder
	state   domain.State
	now     int64
	failIDs map[string]bool
	result  *domain.State // returned instead of reducing when set
}

func (f *fakeStore) Dispatch(a store.Action) (domain.State, error) {
	id := actionPlayer(a)
	if id != "" {
		f.rec.add("dispatch %s %s", a.Type(), id)
	} else {
		f.rec.add("dispatch %s", a.Type())
	}
	if f.failIDs[id] || f.failIDs[a.Type()] {
		return f.state, errInjected
	}
	if f.result != nil {
		f.state = *f.result
		return f.state, nil
	}
	next, err := store.Reduce(f.state, a, store.Env{Now: f.now, LevelOverMS: config.DefaultTiming().LevelOverMS})
	if err != nil {
		return f.state, err
	}
	f.state = next
	return next, nil
}

func actionPlayer(a store.Action) string {
	switch v := a.(type) {
	case store.LeaveGame:
		return v.ID
	case store.Scored:
		return v.ID
	case store.Swing:
		return v.ID
	case store.JoinGame:
		return v.ID
	}
	return ""
}

type fakeBroadcaster struct {
	rec     *recorder
	failAll bool
}

func (f *fakeBroadcaster) SendAll(msg protocol.Message) error {
	f.rec.add("sendAll %s", msg.Type)
	f.rec.sent = append(f.rec.sent, msg)
	if f.failAll {
		return errInjected
	}
	return nil
}

func (f *fakeBroadcaster) SendTo(id string, msg protocol.Message) error {
	f.rec.add("sendTo %s %s", id, msg.Type)
	f.rec.sent = append(f.rec.sent, msg)
	return nil
}

type fakeBody struct {
	pos, vel domain.Vec2
	resting  bool
}

func (b *fakeBody) Position() domain.Vec2 { return b.pos }
func (b *fakeBody) Velocity() domain.Vec2 { return b.vel }

type fakePhysics struct {
	bounded []domain.Body
}

func (f *fakePhysics) EnsureBallInBounds(body domain.Body, level *domain.Level) {
	f.bounded = append(f.bounded, body)
}

func (f *fakePhysics) IsAtRest(body domain.Body) bool {
	b, ok := body.(*fakeBody)
	return ok && b.resting
}

type fakeLevels struct {
	data domain.LevelData
}

func (f fakeLevels) Generate() domain.LevelData { return f.data }

const testNow int64 = 1_700_000_000_000

type harness struct {
	rec     *recorder
	store   *fakeStore
	out     *fakeBroadcaster
	physics *fakePhysics
	dir     *Director
	timing  config.Timing
}

func newHarness(state domain.State) *harness {
	rec := &recorder{}
	h := &harness{
		rec:     rec,
		store:   &fakeStore{rec: rec, state: state, now: testNow, failIDs: map[string]bool{}},
		out:     &fakeBroadcaster{rec: rec},
		physics: &fakePhysics{},
		timing:  config.DefaultTiming(),
	}
	h.dir = NewDirector(Deps{
		Store:     h.store,
		Broadcast: h.out,
		Levels:    fakeLevels{data: testLevel()},
		Physics:   h.physics,
		Timing:    h.timing,
		Clock:     func() time.Time { return time.UnixMilli(testNow) },
	})
	return h
}

func testLevel() domain.LevelData {
	return domain.LevelData{
		Points: []domain.Vec2{{X: 0, Y: 10}, {X: 100, Y: 10}},
		Spawn:  domain.Vec2{X: 10, Y: 10},
		Hole:   domain.Vec2{X: 70, Y: 8},
		Width:  100,
		Color:  "#3b8f3e",
	}
}

func liveState(players ...domain.Player) domain.State {
	s := domain.NewState()
	s.Phase = domain.PhaseInMatch
	s.Round = domain.RoundLive
	s.Level = &domain.Level{Data: testLevel(), StartTime: testNow - 5000, ExpTime: testNow + 60_000}
	s.ExpTime = s.Level.ExpTime
	s.EndTime = testNow + 120_000
	s.Players = domain.NewPlayersMap(players...)
	return s
}
