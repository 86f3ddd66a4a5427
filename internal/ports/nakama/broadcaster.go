package nakama

import (
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"manygolf/internal/protocol"
)

var (
	ErrNoDispatcher = errors.New("match dispatcher not bound")
	ErrNoPresence   = errors.New("player is not connected")
	ErrNoOpCode     = errors.New("no op code for message type")
)

// dispatcherBroadcaster implements ports.Broadcaster over a Nakama match
// dispatcher. The type travels in the op code; the payload is encoded with codec.
// Nakama only hands the dispatcher to match callbacks, so the handler binds it
// at the top of each one.
type dispatcherBroadcaster struct {
	dispatcher runtime.MatchDispatcher
	presences  map[string]runtime.Presence
	codec      protocol.Codec
}

func newDispatcherBroadcaster(codec protocol.Codec) *dispatcherBroadcaster {
	return &dispatcherBroadcaster{
		presences: make(map[string]runtime.Presence),
		codec:     codec,
	}
}

func (b *dispatcherBroadcaster) bind(dispatcher runtime.MatchDispatcher) {
	b.dispatcher = dispatcher
}

func (b *dispatcherBroadcaster) SendAll(msg protocol.Message) error {
	return b.send(msg, nil)
}

func (b *dispatcherBroadcaster) SendTo(playerID string, msg protocol.Message) error {
	p, ok := b.presences[playerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPresence, playerID)
	}
	return b.send(msg, []runtime.Presence{p})
}

func (b *dispatcherBroadcaster) send(msg protocol.Message, presences []runtime.Presence) error {
	if b.dispatcher == nil {
		return ErrNoDispatcher
	}
	op, ok := opCodeFor(msg.Type)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoOpCode, msg.Type)
	}
	data, err := b.codec.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Type, err)
	}
	return b.dispatcher.BroadcastMessage(op, data, presences, nil, reliableFor(msg.Type))
}
