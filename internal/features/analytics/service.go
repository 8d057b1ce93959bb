package analytics

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/video"
	"github.com/edulane/edulane-server-go/pkg/cache"
)

// viewerSetTTL keeps daily viewer sets around long enough for late sessions
// to land in the right bucket before the rollover job sweeps them.
const viewerSetTTL = 48 * time.Hour

// Service folds finished stream sessions into daily analytics buckets.
// Unique viewers are deduplicated per day through a cache set.
type Service struct {
	cache     cache.Client
	threshold float64
	logger    *slog.Logger
}

// NewService constructs the analytics aggregation service. The threshold is
// the fraction of video duration that counts a view as completed.
func NewService(cacheClient cache.Client, threshold float64, logger *slog.Logger) *Service {
	return &Service{cache: cacheClient, threshold: threshold, logger: logger}
}

// ViewerSetKey names the daily unique-viewer set for a video.
func ViewerSetKey(videoID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("analytics:viewers:%s:%s", videoID, date.Format("2006-01-02"))
}

// ViewCompleted decides whether a session's watch time counts as a completed
// view of the video. Both durations are seconds.
func ViewCompleted(watchTime, videoDuration int, threshold float64) bool {
	if videoDuration <= 0 {
		return false
	}
	return float64(watchTime) >= float64(videoDuration)*threshold
}

// RecordSessionEnd folds one finished session into the bucket for the day
// the session ended. Runs inside the caller's transaction so the bucket
// update commits atomically with the session end.
func (s *Service) RecordSessionEnd(ctx context.Context, tx *gorm.DB, videoID, userID uuid.UUID, watchTime int, endedAt time.Time) error {
	vid, err := video.Get(tx, videoID)
	if err != nil {
		return err
	}

	date := Day(endedAt)

	// The set add is not transactional with the bucket write. If the caller's
	// transaction rolls back, the viewer stays marked for the day and the next
	// ended session counts as a repeat, so unique_views can undercount by at
	// most one per viewer per day. It never overcounts.
	newViewer, err := s.cache.SetAdd(ctx, ViewerSetKey(videoID, date), userID.String())
	if err != nil {
		// Dedup failure should not lose the view; count it as repeat.
		s.logger.Warn("viewer dedup unavailable", "videoId", videoID, "error", err)
		newViewer = false
	} else if newViewer {
		if err := s.cache.Expire(ctx, ViewerSetKey(videoID, date), viewerSetTTL); err != nil {
			s.logger.Warn("failed to set viewer set expiry", "videoId", videoID, "error", err)
		}
	}

	bucket, err := GetBucket(tx, videoID, date)
	if err != nil {
		return err
	}

	bucket.Apply(watchTime, ViewCompleted(watchTime, vid.Duration, s.threshold), newViewer)

	return tx.Save(&bucket).Error
}

// SweepViewerSets drops viewer sets for days before the cutoff date. The
// cache TTL already bounds their lifetime; the sweep keeps the local
// fallback tidy when Redis is not configured.
func (s *Service) SweepViewerSets(ctx context.Context, db *gorm.DB, cutoff time.Time) error {
	var pairs []struct {
		VideoID uuid.UUID
		Date    time.Time
	}
	err := db.Model(&VideoAnalytics{}).
		Select("video_id, date").
		Where("date < ?", Day(cutoff)).
		Find(&pairs).Error
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		keys = append(keys, ViewerSetKey(pair.VideoID, pair.Date))
	}

	if len(keys) == 0 {
		return nil
	}
	return s.cache.Delete(ctx, keys...)
}
