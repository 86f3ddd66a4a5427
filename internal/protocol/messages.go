package protocol

import "manygolf/internal/domain"

// Type identifies a message on the wire.
type Type string

// Server -> client
const (
	TypeInitial            Type = "initial"
	TypePlayerConnected    Type = "playerConnected"
	TypePlayerDisconnected Type = "playerDisconnected"
	TypeIdleKicked         Type = "idleKicked"
	TypeDisplayMessage     Type = "displayMessage"
	TypeLevel              Type = "level"
	TypeHurryUp            Type = "hurryUp"
	TypeSync               Type = "sync"
	TypeLevelOver          Type = "levelOver"
	TypeMatchOver          Type = "matchOver"
	TypePlayerSwing        Type = "playerSwing"
)

// Client -> server
const (
	TypeSwing Type = "swing"
)

// Message is a typed payload ready for encoding.
type Message struct {
	Type Type
	Data any
}

type DisplayMessage struct {
	MessageText string `json:"messageText"`
	Color       string `json:"color,omitempty"`
}

type PlayerDisconnected struct {
	ID string `json:"id"`
}

type IdleKicked struct{}

type Level struct {
	Level     LevelData `json:"level"`
	ExpiresIn int64     `json:"expiresIn"`
}

type LevelData struct {
	Points [][2]float64 `json:"points"`
	Spawn  [2]float64   `json:"spawn"`
	Hole   [2]float64   `json:"hole"`
	Width  float64      `json:"width"`
	Color  string       `json:"color"`
}

type HurryUp struct {
	ExpiresIn int64 `json:"expiresIn"`
}

type SyncPlayer struct {
	ID       string     `json:"id"`
	Position [2]float64 `json:"position"`
	Velocity [2]float64 `json:"velocity"`
}

type Sync struct {
	Players []SyncPlayer `json:"players"`
	Time    int64        `json:"time"`
}

type RoundRankedPlayer struct {
	ID          string `json:"id"`
	Color       string `json:"color"`
	Name        string `json:"name"`
	Strokes     int    `json:"strokes"`
	ScoreTime   int64  `json:"scoreTime"`
	Scored      bool   `json:"scored"`
	PrevPoints  int    `json:"prevPoints"`
	AddedPoints int    `json:"addedPoints"`
}

type LevelOver struct {
	RoundRankedPlayers []RoundRankedPlayer `json:"roundRankedPlayers"`
	ExpTime            int64               `json:"expTime"`
	LeaderID           string              `json:"leaderId"`
}

// MatchRankedPlayer carries display fields only; round stats are left out on purpose.
type MatchRankedPlayer struct {
	ID     string `json:"id"`
	Color  string `json:"color"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type MatchOver struct {
	NextMatchIn        int64               `json:"nextMatchIn"`
	MatchRankedPlayers []MatchRankedPlayer `json:"matchRankedPlayers"`
}

type InitialPlayer struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	Position [2]float64 `json:"position"`
	Velocity [2]float64 `json:"velocity"`
	Scored   bool       `json:"scored"`
	Strokes  int        `json:"strokes"`
	Points   int        `json:"points"`
}

type Initial struct {
	SelfID    string          `json:"selfId"`
	Players   []InitialPlayer `json:"players"`
	Level     *LevelData      `json:"level,omitempty"`
	ExpiresIn int64           `json:"expiresIn"`
	Phase     string          `json:"phase"`
}

type PlayerConnected struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type PlayerSwing struct {
	ID  string     `json:"id"`
	Vec [2]float64 `json:"vec"`
}

// SwingRequest is sent by a client to hit its ball.
type SwingRequest struct {
	Vec [2]float64 `json:"vec"`
}

// FromLevelData converts generated geometry to its wire shape.
func FromLevelData(d domain.LevelData) LevelData {
	points := make([][2]float64, len(d.Points))
	for i, p := range d.Points {
		points[i] = p.Array()
	}
	return LevelData{
		Points: points,
		Spawn:  d.Spawn.Array(),
		Hole:   d.Hole.Array(),
		Width:  d.Width,
		Color:  d.Color,
	}
}
