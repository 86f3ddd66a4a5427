package domain

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseWaiting is the state before the first match starts.
	PhaseWaiting Phase = "waiting"
	// PhaseInMatch indicates rounds are being played against the match clock.
	PhaseInMatch Phase = "inMatch"
	// PhaseMatchOver is the cooldown between a finished match and the next one.
	PhaseMatchOver Phase = "matchOver"
)

// RoundStatus tracks the current hole inside a match.
type RoundStatus string

const (
	RoundNone RoundStatus = ""
	RoundLive RoundStatus = "live"
	RoundOver RoundStatus = "over"
)

// State is an immutable snapshot of a single game session.
// Snapshots are produced by the store and never mutated after they are returned.
type State struct {
	Phase Phase
	Round RoundStatus

	Level   *Level
	Players PlayersMap

	// EndTime is when the running match ends (ms since epoch).
	EndTime int64
	// NextMatchAt is when the next match starts after a match over (ms since epoch).
	NextMatchAt int64
	// ExpTime is the round expiry while a round is live, and the start time of
	// the next level once the round is over.
	ExpTime int64
	HurryUp bool

	LeaderID string

	MatchRankedPlayers []Player
	RoundRankedPlayers []Player
}

// NewState returns the empty waiting-room snapshot.
func NewState() State {
	return State{
		Phase:   PhaseWaiting,
		Players: NewPlayersMap(),
	}
}

// RoundLive reports whether a hole is currently being played.
func (s State) RoundLive() bool {
	return s.Phase == PhaseInMatch && s.Round == RoundLive && s.Level != nil
}
