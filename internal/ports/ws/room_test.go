package ws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"manygolf/internal/config"
	"manygolf/internal/domain"
	"manygolf/internal/levelgen"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

type fakeConn struct {
	frames chan []byte
	closed chan struct{}
	full   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan []byte, 256), closed: make(chan struct{})}
}

func (f *fakeConn) Send(frame []byte) bool {
	if f.full {
		return false
	}
	select {
	case f.frames <- append([]byte(nil), frame...):
		return true
	default:
		return false
	}
}

func (f *fakeConn) Close() {
	select {
	case <-f.closed:
	default:
		close(f.closed)
	}
}

// waitFor reads frames until one of type want arrives.
func (f *fakeConn) waitFor(t *testing.T, want protocol.Type) protocol.Inbound {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case frame := <-f.frames:
			in, err := protocol.JSONCodec{}.Decode(frame)
			require.NoError(t, err)
			if in.Type == want {
				return in
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func fastTiming() config.Timing {
	timing := config.DefaultTiming()
	timing.TickRate = 60
	return timing
}

func startRoom(t *testing.T) (*Room, context.CancelFunc) {
	t.Helper()
	room := NewRoom(RoomConfig{
		Timing: fastTiming(),
		Codec:  protocol.JSONCodec{},
		Levels: levelgen.New(1),
		Logger: zap.NewNop(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	go room.Run(ctx)
	return room, cancel
}

func TestRoom_JoinSendsInitialAndLevel(t *testing.T) {
	room, cancel := startRoom(t)
	defer cancel()

	conn := newFakeConn()
	require.NoError(t, room.Join(context.Background(), "alice", "Alice", conn))

	var initial protocol.Initial
	require.NoError(t, conn.waitFor(t, protocol.TypeInitial).Into(&initial))
	assert.Equal(t, "alice", initial.SelfID)
	require.Len(t, initial.Players, 1)
	assert.Equal(t, "Alice", initial.Players[0].Name)

	var level protocol.Level
	require.NoError(t, conn.waitFor(t, protocol.TypeLevel).Into(&level))
	assert.NotEmpty(t, level.Level.Points)
	assert.Positive(t, level.ExpiresIn)
}

func TestRoom_DuplicateJoinRejected(t *testing.T) {
	room, cancel := startRoom(t)
	defer cancel()

	require.NoError(t, room.Join(context.Background(), "alice", "Alice", newFakeConn()))
	err := room.Join(context.Background(), "alice", "Alice", newFakeConn())
	assert.True(t, errors.Is(err, store.ErrPlayerExists), "got %v", err)
}

func TestRoom_CancelledJoinLeavesNoGhost(t *testing.T) {
	room := NewRoom(RoomConfig{
		Timing: fastTiming(),
		Codec:  protocol.JSONCodec{},
		Levels: levelgen.New(1),
		Logger: zap.NewNop(),
	})

	// Queue the join while the room is not running yet, then give up on it.
	ctx, cancelJoin := context.WithCancel(context.Background())
	joined := make(chan error, 1)
	go func() { joined <- room.Join(ctx, "alice", "Alice", newFakeConn()) }()
	require.Eventually(t, func() bool { return len(room.inbox) == 1 }, time.Second, time.Millisecond)
	cancelJoin()
	require.ErrorIs(t, <-joined, context.Canceled)

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go room.Run(runCtx)

	// The abandoned join was undone, so the same player can connect again.
	conn := newFakeConn()
	require.NoError(t, room.Join(context.Background(), "alice", "Alice", conn))
	conn.waitFor(t, protocol.TypeInitial)
}

func TestRoom_StaleLeaveKeepsNewConnection(t *testing.T) {
	room, cancel := startRoom(t)
	defer cancel()

	conn := newFakeConn()
	require.NoError(t, room.Join(context.Background(), "alice", "Alice", conn))
	require.NoError(t, room.submit(context.Background(), leaveCmd{id: "alice", conn: newFakeConn()}))

	err := room.Join(context.Background(), "alice", "Alice", newFakeConn())
	assert.True(t, errors.Is(err, store.ErrPlayerExists), "got %v", err)
}

func TestRoom_IdleSpectatorRejoinsByReconnecting(t *testing.T) {
	timing := fastTiming()
	timing.IdleKickMS = 30
	room := NewRoom(RoomConfig{
		Timing: timing,
		Codec:  protocol.JSONCodec{},
		Levels: levelgen.New(1),
		Logger: zap.NewNop(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go room.Run(ctx)

	spectator := newFakeConn()
	require.NoError(t, room.Join(context.Background(), "alice", "Alice", spectator))
	spectator.waitFor(t, protocol.TypeIdleKicked)

	// Still connected as a spectator, so the same connection cannot join twice.
	err := room.Join(context.Background(), "alice", "Alice", newFakeConn())
	assert.True(t, errors.Is(err, store.ErrPlayerExists), "got %v", err)

	room.Leave("alice")
	again := newFakeConn()
	require.NoError(t, room.Join(context.Background(), "alice", "Alice", again))
	again.waitFor(t, protocol.TypeInitial)
}

func TestRoom_SwingIsBroadcast(t *testing.T) {
	room, cancel := startRoom(t)
	defer cancel()

	alice, bob := newFakeConn(), newFakeConn()
	require.NoError(t, room.Join(context.Background(), "alice", "Alice", alice))
	require.NoError(t, room.Join(context.Background(), "bob", "Bob", bob))
	// Alice was present for the first tick, so she always gets the level message.
	alice.waitFor(t, protocol.TypeLevel)

	room.Swing("alice", domain.Vec2{X: 10, Y: 10})

	var swing protocol.PlayerSwing
	require.NoError(t, bob.waitFor(t, protocol.TypePlayerSwing).Into(&swing))
	assert.Equal(t, "alice", swing.ID)
	assert.Equal(t, [2]float64{10, 10}, swing.Vec)
}

func TestRoom_LeaveAnnounced(t *testing.T) {
	room, cancel := startRoom(t)
	defer cancel()

	alice, bob := newFakeConn(), newFakeConn()
	require.NoError(t, room.Join(context.Background(), "alice", "Alice", alice))
	require.NoError(t, room.Join(context.Background(), "bob", "Bob", bob))

	room.Leave("alice")

	var gone protocol.PlayerDisconnected
	require.NoError(t, bob.waitFor(t, protocol.TypePlayerDisconnected).Into(&gone))
	assert.Equal(t, "alice", gone.ID)
}

func TestRoom_StopClosesClientsAndRefusesJoins(t *testing.T) {
	room, cancel := startRoom(t)

	conn := newFakeConn()
	require.NoError(t, room.Join(context.Background(), "alice", "Alice", conn))
	cancel()

	select {
	case <-conn.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("client was not closed")
	}
	<-room.done
	assert.ErrorIs(t, room.Join(context.Background(), "bob", "Bob", newFakeConn()), ErrRoomClosed)
}

func TestRoom_Broadcaster(t *testing.T) {
	room := NewRoom(RoomConfig{Timing: fastTiming(), Levels: levelgen.New(1)})

	assert.ErrorIs(t, room.SendTo("ghost", protocol.NewIdleKicked()), ErrNotConnected)

	full := newFakeConn()
	full.full = true
	ok := newFakeConn()
	room.clients["full"] = full
	room.clients["ok"] = ok

	// A full queue drops the frame without failing the broadcast.
	require.NoError(t, room.SendAll(protocol.NewHurryUp(5000)))
	require.NoError(t, room.SendTo("full", protocol.NewIdleKicked()))
	assert.Len(t, ok.frames, 1)
	assert.Len(t, full.frames, 0)
}
