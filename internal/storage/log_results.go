package storage

import (
	"context"

	"go.uber.org/zap"

	"manygolf/internal/ports"
)

// LogResults is the results sink used when no database is configured.
type LogResults struct {
	log *zap.Logger
}

func NewLogResults(log *zap.Logger) *LogResults {
	return &LogResults{log: log.Named("results")}
}

func (l *LogResults) RecordMatch(ctx context.Context, result ports.MatchResult) error {
	fields := []zap.Field{
		zap.String("match_id", result.MatchID),
		zap.Duration("duration", result.EndedAt.Sub(result.StartedAt)),
		zap.Int("players", len(result.Players)),
	}
	if len(result.Players) > 0 {
		fields = append(fields, zap.String("winner", result.Players[0].Name), zap.Int("points", result.Players[0].Points))
	}
	l.log.Info("match finished", fields...)
	return nil
}

var _ ports.ResultsPort = (*LogResults)(nil)
