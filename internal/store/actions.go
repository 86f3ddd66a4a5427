package store

import "manygolf/internal/domain"

// Action is one state transition request. The set of actions is closed.
type Action interface {
	Type() string
	isAction()
}

const (
	TypeJoinGame   = "joinGame"
	TypeLeaveGame  = "leaveGame"
	TypeSwing      = "swing"
	TypeScored     = "scored"
	TypeStartMatch = "startMatch"
	TypeMatchOver  = "matchOver"
	TypeLevel      = "level"
	TypeHurryUp    = "hurryUp"
	TypeLevelOver  = "levelOver"
)

// JoinGame adds a player to the session.
type JoinGame struct {
	ID    string
	Name  string
	Color string
	Body  domain.Body
	Now   int64
}

// LeaveGame removes a player (disconnect or idle kick).
type LeaveGame struct {
	ID string
}

// Swing records a stroke.
type Swing struct {
	ID  string
	Now int64
}

// Scored marks a player as holed out Elapsed ms into the round.
type Scored struct {
	ID      string
	Elapsed int64
}

// StartMatch begins a match ending at EndTime.
type StartMatch struct {
	EndTime int64
}

// MatchOver ends the match; the next one starts at NextMatchAt.
type MatchOver struct {
	NextMatchAt int64
}

// Level installs a freshly generated hole.
type Level struct {
	Data      domain.LevelData
	ExpTime   int64
	StartTime int64
}

// HurryUp shortens the live round to ExpTime.
type HurryUp struct {
	ExpTime int64
}

// LevelOver finalizes the live round.
type LevelOver struct{}

func (JoinGame) Type() string   { return TypeJoinGame }
func (LeaveGame) Type() string  { return TypeLeaveGame }
func (Swing) Type() string      { return TypeSwing }
func (Scored) Type() string     { return TypeScored }
func (StartMatch) Type() string { return TypeStartMatch }
func (MatchOver) Type() string  { return TypeMatchOver }
func (Level) Type() string      { return TypeLevel }
func (HurryUp) Type() string    { return TypeHurryUp }
func (LevelOver) Type() string  { return TypeLevelOver }

func (JoinGame) isAction()   {}
func (LeaveGame) isAction()  {}
func (Swing) isAction()      {}
func (Scored) isAction()     {}
func (StartMatch) isAction() {}
func (MatchOver) isAction()  {}
func (Level) isAction()      {}
func (HurryUp) isAction()    {}
func (LevelOver) isAction()  {}
