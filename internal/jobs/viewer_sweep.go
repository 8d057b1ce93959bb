package jobs

import (
	"context"
	"time"

	"log/slog"

	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/analytics"
)

// ViewerSetSweep drops daily unique-viewer sets once their day has passed.
type ViewerSetSweep struct {
	db        *gorm.DB
	analytics *analytics.Service
	logger    *slog.Logger
}

// NewViewerSetSweep constructs the sweep job.
func NewViewerSetSweep(db *gorm.DB, analyticsService *analytics.Service, logger *slog.Logger) *ViewerSetSweep {
	return &ViewerSetSweep{db: db, analytics: analyticsService, logger: logger}
}

// Name implements the scheduler job interface.
func (j *ViewerSetSweep) Name() string { return "viewer-set-sweep" }

// Execute removes viewer sets older than yesterday.
func (j *ViewerSetSweep) Execute(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -1)
	return j.analytics.SweepViewerSets(ctx, j.db, cutoff)
}
