package nakama

import (
	"manygolf/internal/domain"
	"manygolf/internal/protocol"
)

var opCodes = map[protocol.Type]int64{
	protocol.TypeInitial:            OpInitial,
	protocol.TypePlayerConnected:    OpPlayerConnected,
	protocol.TypePlayerDisconnected: OpPlayerDisconnected,
	protocol.TypeIdleKicked:         OpIdleKicked,
	protocol.TypeDisplayMessage:     OpDisplayMessage,
	protocol.TypeLevel:              OpLevel,
	protocol.TypeHurryUp:            OpHurryUp,
	protocol.TypeSync:               OpSync,
	protocol.TypeLevelOver:          OpLevelOver,
	protocol.TypeMatchOver:          OpMatchOver,
	protocol.TypePlayerSwing:        OpPlayerSwing,
}

func opCodeFor(t protocol.Type) (int64, bool) {
	op, ok := opCodes[t]
	return op, ok
}

// reliableFor reports whether messages of type t need reliable delivery.
// Sync is superseded by the next one, so it may be dropped.
func reliableFor(t protocol.Type) bool {
	return t != protocol.TypeSync
}

func vecFromWire(v [2]float64) domain.Vec2 {
	return domain.Vec2{X: v[0], Y: v[1]}
}
