package ports

import (
	"context"
	"time"
)

// PlayerResult is one player's final standing in a match.
type PlayerResult struct {
	PlayerID string
	Name     string
	Color    string
	Points   int
	Rank     int // 1-based
}

// MatchResult summarises a finished match.
type MatchResult struct {
	MatchID   string
	StartedAt time.Time
	EndedAt   time.Time
	Players   []PlayerResult
}

// ResultsPort persists finished matches.
type ResultsPort interface {
	// RecordMatch stores the final standings of one match.
	// Called once per match, from the session's tick context.
	RecordMatch(ctx context.Context, result MatchResult) error
}

// Standing is a player's lifetime record across recorded matches.
type Standing struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Wins     int    `json:"wins"`
	Matches  int    `json:"matches"`
}

// LeaderboardPort reads aggregated standings.
type LeaderboardPort interface {
	TopPlayers(ctx context.Context, limit int) ([]Standing, error)
}
