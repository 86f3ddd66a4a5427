package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"

	"manygolf/internal/ports"
)

// leaderboardWriter is the part of runtime.NakamaModule the results adapter uses.
type leaderboardWriter interface {
	LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error)
}

// NakamaResultsAdapter implements ports.ResultsPort with Nakama leaderboards.
type NakamaResultsAdapter struct {
	nk leaderboardWriter
}

// NewNakamaResultsAdapter creates a new results adapter.
func NewNakamaResultsAdapter(nk leaderboardWriter) *NakamaResultsAdapter {
	return &NakamaResultsAdapter{nk: nk}
}

// RecordMatch adds each player's points to the points board and a win to the
// winner's record. Players without points are skipped.
func (a *NakamaResultsAdapter) RecordMatch(ctx context.Context, result ports.MatchResult) error {
	for _, p := range result.Players {
		metadata := map[string]interface{}{
			"match_id": result.MatchID,
			"rank":     p.Rank,
		}
		if p.Points > 0 {
			if _, err := a.nk.LeaderboardRecordWrite(ctx, LeaderboardPoints, p.PlayerID, p.Name, int64(p.Points), 0, metadata, nil); err != nil {
				return fmt.Errorf("failed to write points for user %s: %w", p.PlayerID, err)
			}
		}
		if p.Rank == 1 && p.Points > 0 {
			if _, err := a.nk.LeaderboardRecordWrite(ctx, LeaderboardWins, p.PlayerID, p.Name, 1, 0, metadata, nil); err != nil {
				return fmt.Errorf("failed to write win for user %s: %w", p.PlayerID, err)
			}
		}
	}
	return nil
}

var _ ports.ResultsPort = (*NakamaResultsAdapter)(nil)
