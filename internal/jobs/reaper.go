package jobs

import (
	"context"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/analytics"
	"github.com/edulane/edulane-server-go/internal/features/stream"
	"github.com/edulane/edulane-server-go/pkg/metrics"
)

// StaleStreamReaper closes sessions abandoned without an explicit end, so
// their watch time still lands in the analytics buckets.
type StaleStreamReaper struct {
	db        *gorm.DB
	analytics *analytics.Service
	timeout   time.Duration
	logger    *slog.Logger
}

// NewStaleStreamReaper constructs the reaper. Sessions idle longer than the
// timeout are considered abandoned.
func NewStaleStreamReaper(db *gorm.DB, analyticsService *analytics.Service, timeout time.Duration, logger *slog.Logger) *StaleStreamReaper {
	return &StaleStreamReaper{db: db, analytics: analyticsService, timeout: timeout, logger: logger}
}

// Name implements the scheduler job interface.
func (j *StaleStreamReaper) Name() string { return "stale-stream-reaper" }

// Execute ends every stale session and records its analytics. Failures on
// individual sessions are logged and skipped so one bad row cannot wedge
// the sweep.
func (j *StaleStreamReaper) Execute(ctx context.Context) error {
	now := time.Now().UTC()
	cutoff := now.Add(-j.timeout)

	sessions, err := stream.ListStale(j.db, cutoff)
	if err != nil {
		return err
	}

	reaped := 0
	for i := range sessions {
		ended, err := j.reapSession(ctx, sessions[i].ID, now)
		if err != nil {
			j.logger.Error("failed to reap stale stream session",
				"sessionId", sessions[i].SessionID,
				"error", err)
			continue
		}
		if !ended {
			continue
		}

		metrics.RecordStreamSession("reaped")
		reaped++
	}

	if reaped > 0 {
		j.logger.Info("reaped stale stream sessions", "count", reaped)
	}
	return nil
}

// reapSession ends one session and folds its watch time into analytics.
// The row is re-read inside the transaction: a session its owner closed
// after the stale listing must not be counted a second time.
func (j *StaleStreamReaper) reapSession(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	ended := false
	err := j.db.Transaction(func(tx *gorm.DB) error {
		var session stream.VideoStream
		if err := tx.First(&session, "id = ? AND ended_at IS NULL", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		session.End(now)
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		ended = true

		return j.analytics.RecordSessionEnd(ctx, tx, session.VideoID, session.UserID, session.TotalWatchTime, now)
	})
	return ended, err
}
