// Package storage keeps match history in PostgreSQL through gorm.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"manygolf/internal/ports"
)

const (
	maxRetries    = 3
	retryInterval = 5 * time.Second
)

var ErrNoDSN = errors.New("database dsn is empty")

// Open connects to PostgreSQL, retrying a few times while the database starts.
func Open(ctx context.Context, dsn string, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	var err error
	for i := 0; i <= maxRetries; i++ {
		var db *gorm.DB
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err == nil {
			return db, nil
		}
		log.Warn("database connection retry", zap.Int("retry", i), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("failed to connect to database: %w", err)
}

// Repository stores finished matches and aggregates standings from them.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the tables.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&MatchRecord{}, &PlayerRecord{})
}

// RecordMatch inserts the match and its standings in one statement batch.
func (r *Repository) RecordMatch(ctx context.Context, result ports.MatchResult) error {
	rec := toMatchRecord(result)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record match %s: %w", result.MatchID, err)
	}
	return nil
}

// TopPlayers sums points over all recorded matches, best first.
func (r *Repository) TopPlayers(ctx context.Context, limit int) ([]ports.Standing, error) {
	var standings []ports.Standing
	if err := topPlayersQuery(r.db.WithContext(ctx), limit).Scan(&standings).Error; err != nil {
		return nil, fmt.Errorf("failed to read standings: %w", err)
	}
	return standings, nil
}

func topPlayersQuery(db *gorm.DB, limit int) *gorm.DB {
	return db.Model(&PlayerRecord{}).
		Select("player_id, MAX(name) AS name, SUM(points) AS points, " +
			"SUM(CASE WHEN rank = 1 AND points > 0 THEN 1 ELSE 0 END) AS wins, COUNT(*) AS matches").
		Group("player_id").
		Order("points DESC, wins DESC, player_id").
		Limit(limit)
}

// Prune deletes matches that ended before cutoff, with their standings.
// It returns the number of matches removed.
func (r *Repository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&MatchRecord{}).Select("id").Where("ended_at < ?", cutoff)
		if err := tx.Where("match_id IN (?)", expired).Delete(&PlayerRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("ended_at < ?", cutoff).Delete(&MatchRecord{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune matches: %w", err)
	}
	return removed, nil
}

var (
	_ ports.ResultsPort     = (*Repository)(nil)
	_ ports.LeaderboardPort = (*Repository)(nil)
)
