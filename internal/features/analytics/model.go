package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/pkg/types"
)

// VideoAnalytics is a per-video per-day aggregation bucket.
type VideoAnalytics struct {
	types.BaseModel

	VideoID          uuid.UUID `gorm:"type:uuid;not null;column:video_id;uniqueIndex:idx_video_date" json:"videoId"`
	Date             time.Time `gorm:"type:date;not null;uniqueIndex:idx_video_date" json:"date"`
	TotalViews       int       `gorm:"type:int;not null;default:0;column:total_views" json:"totalViews"`
	UniqueViews      int       `gorm:"type:int;not null;default:0;column:unique_views" json:"uniqueViews"`
	TotalWatchTime   int       `gorm:"type:int;not null;default:0;column:total_watch_time" json:"totalWatchTime"` // seconds
	AverageWatchTime float64   `gorm:"type:numeric(10,2);not null;default:0;column:average_watch_time" json:"averageWatchTime"`
	CompletedViews   int       `gorm:"type:int;not null;default:0;column:completed_views" json:"completedViews"`
	CompletionRate   float64   `gorm:"type:numeric(5,2);not null;default:0;column:completion_rate" json:"completionRate"`
}

// TableName overrides the default table name.
func (VideoAnalytics) TableName() string { return "video_analytics" }

// Apply folds one finished viewing session into the bucket, keeping the
// derived average and completion rate consistent.
func (a *VideoAnalytics) Apply(watchTime int, completed, newViewer bool) {
	a.TotalViews++
	if newViewer {
		a.UniqueViews++
	}
	if watchTime > 0 {
		a.TotalWatchTime += watchTime
	}
	if completed {
		a.CompletedViews++
	}

	a.AverageWatchTime = float64(a.TotalWatchTime) / float64(a.TotalViews)
	a.CompletionRate = float64(a.CompletedViews) / float64(a.TotalViews) * 100
}

// Day truncates a timestamp to its UTC date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetBucket loads or creates the bucket for a video and date.
func GetBucket(tx *gorm.DB, videoID uuid.UUID, date time.Time) (VideoAnalytics, error) {
	var bucket VideoAnalytics
	err := tx.First(&bucket, "video_id = ? AND date = ?", videoID, date).Error
	if err == gorm.ErrRecordNotFound {
		bucket = VideoAnalytics{VideoID: videoID, Date: date}
		if err := tx.Create(&bucket).Error; err != nil {
			return bucket, err
		}
		return bucket, nil
	}
	return bucket, err
}

// GetForVideo retrieves daily buckets for a video over an inclusive range.
func GetForVideo(db *gorm.DB, videoID uuid.UUID, from, to time.Time) ([]VideoAnalytics, error) {
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	buckets := make([]VideoAnalytics, 0)
	err := db.
		Where("video_id = ? AND date >= ? AND date <= ?", videoID, Day(from), Day(to)).
		Order("date ASC").
		Find(&buckets).Error
	return buckets, err
}
