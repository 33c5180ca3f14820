package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campus-pulse/course-eval-api/internal/models"
	"github.com/campus-pulse/course-eval-api/pkg/config"
)

type submissionHistory interface {
	CountRecent(ctx context.Context, ip string, since time.Time) (int, error)
}

// AntiSpamGuard blocks repeat submissions from one client within a trailing
// window. The check is a plain read over stored submissions, not a lock: two
// submissions in the same instant can both pass, which is accepted behaviour.
type AntiSpamGuard struct {
	history submissionHistory
	cfg     config.AntiSpamConfig
	clock   func() time.Time
	logger  *zap.Logger
}

// NewAntiSpamGuard constructs the guard. The dev bypass comes exclusively
// from the injected configuration.
func NewAntiSpamGuard(history submissionHistory, cfg config.AntiSpamConfig, clock func() time.Time, logger *zap.Logger) *AntiSpamGuard {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AntiSpamGuard{history: history, cfg: cfg, clock: clock, logger: logger}
}

// Allow reports whether a submission from the fingerprint may proceed.
// Blocked iff any prior submission from the same IP exists inside the window.
func (g *AntiSpamGuard) Allow(ctx context.Context, fp models.Fingerprint) (bool, error) {
	if g.cfg.DevBypass {
		g.logger.Debug("anti-spam bypass active", zap.String("ip", fp.IP))
		return true, nil
	}

	since := g.clock().Add(-g.cfg.Window)
	count, err := g.history.CountRecent(ctx, fp.IP, since)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
