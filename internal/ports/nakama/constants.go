package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a course.
	RpcQuickMatch = "quick_match"
	// RpcTiming returns the match timings in effect on this server.
	RpcTiming = "timing"

	// MatchNameManygolf is the authoritative match handler name registered with Nakama.
	MatchNameManygolf = "manygolf_match"

	// MaxPlayers caps how many golfers share one course.
	MaxPlayers = 32

	// LeaderboardPoints accumulates match points per player.
	LeaderboardPoints = "manygolf_points"
	// LeaderboardWins counts matches finished in first place.
	LeaderboardWins = "manygolf_wins"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpSwing int64 = 1

	// Server -> Client events
	OpInitial            int64 = 101 // send privately
	OpPlayerConnected    int64 = 102
	OpPlayerDisconnected int64 = 103
	OpIdleKicked         int64 = 104 // send privately
	OpDisplayMessage     int64 = 105
	OpLevel              int64 = 106
	OpHurryUp            int64 = 107
	OpSync               int64 = 108 // unreliable
	OpLevelOver          int64 = 109
	OpMatchOver          int64 = 110
	OpPlayerSwing        int64 = 111
	OpError              int64 = 199
)
