package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepSpec runs the session sweep once an hour.
const SweepSpec = "@every 1h"

type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// SweepSessions deletes expired sessions once and logs the outcome.
func SweepSessions(ctx context.Context, s Sweeper) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	n, err := s.Sweep(ctx)
	if err != nil {
		zap.L().Error("sessions.sweep", zap.Error(err))
		return
	}
	zap.L().Info("sessions.sweep", zap.Int64("deleted", n))
}

// Start schedules the background jobs. Stop the returned scheduler on
// shutdown.
func Start(s Sweeper, spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { SweepSessions(context.Background(), s) }); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
