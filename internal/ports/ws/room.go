package ws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"manygolf/internal/app"
	"manygolf/internal/config"
	"manygolf/internal/domain"
	"manygolf/internal/ports"
	"manygolf/internal/protocol"
	"manygolf/internal/store"
)

var (
	ErrRoomClosed   = errors.New("room is closed")
	ErrNotConnected = errors.New("player is not connected")
)

// Conn is the room's view of a connected client.
type Conn interface {
	// Send queues frame for delivery and reports false when it was dropped.
	Send(frame []byte) bool
	Close()
}

type joinCmd struct {
	id, name string
	conn     Conn
	reply    chan error
}

// leaveCmd removes id. A non-nil conn only removes id while it is still
// bound to that connection.
type leaveCmd struct {
	id   string
	conn Conn
}

type swingCmd struct {
	id  string
	vec domain.Vec2
}

// RoomConfig configures a Room.
type RoomConfig struct {
	Timing  config.Timing
	Codec   protocol.Codec
	Results ports.ResultsPort
	Levels  app.LevelGenerator
	Clock   func() time.Time
	Logger  *zap.Logger
}

// Room runs one game session on a single goroutine. Joins, leaves, swings
// and ticks all arrive through the inbox so the session never sees
// concurrent calls. Room is also the session's Broadcaster.
type Room struct {
	inbox   chan any
	session *app.Session
	clients map[string]Conn
	codec   protocol.Codec
	period  time.Duration
	log     *zap.Logger
	done    chan struct{}
}

func NewRoom(cfg RoomConfig) *Room {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Codec == nil {
		cfg.Codec = protocol.JSONCodec{}
	}
	r := &Room{
		inbox:   make(chan any, 256),
		clients: make(map[string]Conn),
		codec:   cfg.Codec,
		period:  time.Second / time.Duration(cfg.Timing.TickRate),
		log:     cfg.Logger.Named("room"),
		done:    make(chan struct{}),
	}
	r.session = app.NewSession(app.SessionConfig{
		Timing:    cfg.Timing,
		Broadcast: r,
		Results:   cfg.Results,
		Levels:    cfg.Levels,
		Clock:     cfg.Clock,
		Logger:    cfg.Logger,
	})
	return r
}

// Run processes commands and ticks until ctx is cancelled.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	r.log.Info("room started", zap.String("session_id", r.session.ID()), zap.Duration("period", r.period))
	for {
		select {
		case <-ctx.Done():
			for _, c := range r.clients {
				c.Close()
			}
			return
		case cmd := <-r.inbox:
			r.handle(cmd)
		case <-ticker.C:
			r.session.Tick(ctx)
		}
	}
}

// Join adds a connected player and waits until the room has accepted it.
func (r *Room) Join(ctx context.Context, id, name string, conn Conn) error {
	reply := make(chan error, 1)
	if err := r.submit(ctx, joinCmd{id: id, name: name, conn: conn, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		// The join is already queued; undo it once the room gets to it.
		_ = r.submit(context.Background(), leaveCmd{id: id, conn: conn})
		return ctx.Err()
	}
}

func (r *Room) Leave(id string) {
	_ = r.submit(context.Background(), leaveCmd{id: id})
}

func (r *Room) Swing(id string, vec domain.Vec2) {
	_ = r.submit(context.Background(), swingCmd{id: id, vec: vec})
}

func (r *Room) submit(ctx context.Context, cmd any) error {
	select {
	case r.inbox <- cmd:
		return nil
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Room) handle(cmd any) {
	switch c := cmd.(type) {
	case joinCmd:
		if _, ok := r.clients[c.id]; ok {
			c.reply <- fmt.Errorf("join %s: %w", c.id, store.ErrPlayerExists)
			return
		}
		r.clients[c.id] = c.conn
		if err := r.session.Join(c.id, c.name); err != nil {
			delete(r.clients, c.id)
			c.reply <- err
			return
		}
		c.reply <- nil

	case leaveCmd:
		conn, ok := r.clients[c.id]
		if !ok || (c.conn != nil && c.conn != conn) {
			return
		}
		delete(r.clients, c.id)
		// Spectators were already removed from the game by the idle sweep.
		// They stay connected to watch; reconnecting is how they play again.
		if err := r.session.Leave(c.id); err != nil && !errors.Is(err, store.ErrUnknownPlayer) {
			r.log.Warn("leave failed", zap.String("player_id", c.id), zap.Error(err))
		}

	case swingCmd:
		if err := r.session.Swing(c.id, c.vec); err != nil {
			r.log.Debug("swing rejected", zap.String("player_id", c.id), zap.Error(err))
		}
	}
}

// SendAll encodes msg once and queues it for every connected client.
func (r *Room) SendAll(msg protocol.Message) error {
	frame, err := r.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	for id, c := range r.clients {
		if !c.Send(frame) {
			r.log.Debug("frame dropped", zap.String("player_id", id), zap.String("type", string(msg.Type)))
		}
	}
	return nil
}

func (r *Room) SendTo(playerID string, msg protocol.Message) error {
	c, ok := r.clients[playerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotConnected, playerID)
	}
	frame, err := r.codec.Encode(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	if !c.Send(frame) {
		r.log.Debug("frame dropped", zap.String("player_id", playerID), zap.String("type", string(msg.Type)))
	}
	return nil
}

var _ ports.Broadcaster = (*Room)(nil)
