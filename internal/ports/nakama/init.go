package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"
)

// leaderboardCreator is the part of runtime.NakamaModule InitModule needs for boards.
type leaderboardCreator interface {
	LeaderboardCreate(ctx context.Context, id string, authoritative bool, sortOrder, operator, resetSchedule string, metadata map[string]interface{}, enableRanks bool) error
}

// InitModule wires RPCs, hooks and the match handler for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := createLeaderboards(ctx, nk); err != nil {
		logger.Error("InitModule: Failed to create leaderboards: %v", err)
		return err
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameManygolf, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	logger.Info("Manygolf Go module loaded.")
	return nil
}

// createLeaderboards ensures the authoritative score boards exist. Creating an
// existing board is a no-op in Nakama.
func createLeaderboards(ctx context.Context, nk leaderboardCreator) error {
	for _, id := range []string{LeaderboardPoints, LeaderboardWins} {
		if err := nk.LeaderboardCreate(ctx, id, true, "desc", "incr", "", nil, true); err != nil {
			return err
		}
	}
	return nil
}
