package storage

import (
	"time"

	"manygolf/internal/ports"
)

// MatchRecord is one finished match.
type MatchRecord struct {
	ID        string         `gorm:"primaryKey;size:36"`
	StartedAt time.Time      `gorm:"not null"`
	EndedAt   time.Time      `gorm:"not null;index"`
	Players   []PlayerRecord `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// PlayerRecord is one player's final standing in a match.
type PlayerRecord struct {
	ID       uint   `gorm:"primaryKey"`
	MatchID  string `gorm:"size:36;not null;index"`
	PlayerID string `gorm:"size:64;not null;index"`
	Name     string `gorm:"size:64;not null"`
	Color    string `gorm:"size:16"`
	Points   int    `gorm:"not null"`
	Rank     int    `gorm:"not null"`
}

func toMatchRecord(result ports.MatchResult) MatchRecord {
	rec := MatchRecord{
		ID:        result.MatchID,
		StartedAt: result.StartedAt,
		EndedAt:   result.EndedAt,
		Players:   make([]PlayerRecord, 0, len(result.Players)),
	}
	for _, p := range result.Players {
		rec.Players = append(rec.Players, PlayerRecord{
			MatchID:  result.MatchID,
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Color:    p.Color,
			Points:   p.Points,
			Rank:     p.Rank,
		})
	}
	return rec
}
