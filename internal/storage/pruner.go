package storage

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultPruneSchedule runs the cleanup every night at 03:00.
const DefaultPruneSchedule = "0 3 * * *"

type pruneStore interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner removes match history older than the retention window on a cron schedule.
type Pruner struct {
	store     pruneStore
	retention time.Duration
	cron      *cron.Cron
	clock     func() time.Time
	log       *zap.Logger
}

// NewPruner schedules store cleanup. It fails on an invalid schedule.
func NewPruner(store pruneStore, retention time.Duration, schedule string, log *zap.Logger) (*Pruner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pruner{
		store:     store,
		retention: retention,
		cron:      cron.New(),
		clock:     time.Now,
		log:       log.Named("pruner"),
	}
	if _, err := p.cron.AddFunc(schedule, func() { p.RunOnce(context.Background()) }); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pruner) Start() { p.cron.Start() }

// Stop halts the schedule and waits for a running cleanup to finish.
func (p *Pruner) Stop() {
	<-p.cron.Stop().Done()
}

// RunOnce deletes everything that ended before now minus the retention window.
func (p *Pruner) RunOnce(ctx context.Context) {
	cutoff := p.clock().Add(-p.retention)
	removed, err := p.store.Prune(ctx, cutoff)
	if err != nil {
		p.log.Error("prune failed", zap.Error(err))
		return
	}
	p.log.Info("pruned match history", zap.Int64("matches_deleted", removed), zap.Time("cutoff", cutoff))
}
