package video

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/lesson"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// Video holds the media metadata attached to a lesson. One video per lesson.
type Video struct {
	types.BaseModel

	LessonID         uuid.UUID              `gorm:"type:uuid;not null;unique;column:lesson_id" json:"lessonId"`
	Title            string                 `gorm:"type:varchar(200);not null" json:"title"`
	Duration         int                    `gorm:"type:int;not null;default:0" json:"duration"` // seconds
	FileSize         int64                  `gorm:"type:bigint;not null;default:0;column:file_size" json:"fileSize"`
	Resolution       *string                `gorm:"type:varchar(20)" json:"resolution,omitempty"`
	Format           *string                `gorm:"type:varchar(20)" json:"format,omitempty"`
	ProcessingStatus types.ProcessingStatus `gorm:"type:varchar(20);not null;default:'pending';column:processing_status" json:"processingStatus"`
	ProcessingError  *string                `gorm:"type:text;column:processing_error" json:"processingError,omitempty"`
	Public           bool                   `gorm:"type:boolean;not null;default:false;column:is_public" json:"isPublic"`
	AllowDownload    bool                   `gorm:"type:boolean;not null;default:false;column:allow_download" json:"allowDownload"`
	ProcessedAt      *time.Time             `gorm:"column:processed_at" json:"processedAt,omitempty"`
}

// TableName overrides the default table name.
func (Video) TableName() string { return "videos" }

// Get retrieves a video by ID.
func Get(db *gorm.DB, id uuid.UUID) (Video, error) {
	var v Video
	if err := db.First(&v, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return v, ErrVideoNotFound
		}
		return v, err
	}
	return v, nil
}

// GetForLesson retrieves the video attached to a lesson.
func GetForLesson(db *gorm.DB, lessonID uuid.UUID) (Video, error) {
	var v Video
	if err := db.First(&v, "lesson_id = ?", lessonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return v, ErrVideoNotFound
		}
		return v, err
	}
	return v, nil
}

// CreateInput carries data for attaching a video to a lesson.
type CreateInput struct {
	LessonID      uuid.UUID
	Title         string
	Duration      *int
	FileSize      *int64
	Resolution    *string
	Format        *string
	Public        *bool
	AllowDownload *bool
}

// Create attaches a new video to a lesson in pending processing state.
func Create(db *gorm.DB, input CreateInput) (Video, error) {
	var v Video
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := lesson.Get(tx, input.LessonID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&Video{}).Where("lesson_id = ?", input.LessonID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrLessonHasVideo
		}

		v = Video{
			LessonID:         input.LessonID,
			Title:            input.Title,
			Resolution:       input.Resolution,
			Format:           input.Format,
			ProcessingStatus: types.ProcessingStatusPending,
		}

		if input.Duration != nil && *input.Duration > 0 {
			v.Duration = *input.Duration
		}
		if input.FileSize != nil && *input.FileSize > 0 {
			v.FileSize = *input.FileSize
		}
		if input.Public != nil {
			v.Public = *input.Public
		}
		if input.AllowDownload != nil {
			v.AllowDownload = *input.AllowDownload
		}

		return tx.Create(&v).Error
	})

	return v, err
}

// UpdateStatus moves a video through the processing pipeline. Completion
// stamps ProcessedAt; failure records the pipeline error.
func UpdateStatus(db *gorm.DB, id uuid.UUID, status types.ProcessingStatus, processingError *string, now time.Time) (Video, error) {
	switch status {
	case types.ProcessingStatusPending, types.ProcessingStatusProcessing,
		types.ProcessingStatusCompleted, types.ProcessingStatusFailed:
	default:
		return Video{}, ErrInvalidStatus
	}

	v, err := Get(db, id)
	if err != nil {
		return v, err
	}

	v.ProcessingStatus = status
	v.ProcessingError = nil

	switch status {
	case types.ProcessingStatusCompleted:
		v.ProcessedAt = &now
	case types.ProcessingStatusFailed:
		v.ProcessingError = processingError
	}

	if err := db.Save(&v).Error; err != nil {
		return v, err
	}
	return v, nil
}

// UpdateInput captures mutable video metadata.
type UpdateInput struct {
	Title         *string
	Duration      *int
	FileSize      *int64
	Resolution    *string
	Format        *string
	Public        *bool
	AllowDownload *bool
}

// Update modifies video metadata.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (Video, error) {
	v, err := Get(db, id)
	if err != nil {
		return v, err
	}

	if input.Title != nil {
		v.Title = *input.Title
	}
	if input.Duration != nil && *input.Duration >= 0 {
		v.Duration = *input.Duration
	}
	if input.FileSize != nil && *input.FileSize >= 0 {
		v.FileSize = *input.FileSize
	}
	if input.Resolution != nil {
		v.Resolution = input.Resolution
	}
	if input.Format != nil {
		v.Format = input.Format
	}
	if input.Public != nil {
		v.Public = *input.Public
	}
	if input.AllowDownload != nil {
		v.AllowDownload = *input.AllowDownload
	}

	if err := db.Save(&v).Error; err != nil {
		return v, err
	}
	return v, nil
}

// Delete removes a video along with its stream sessions, bookmarks and analytics.
func Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM video_analytics WHERE video_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM video_bookmarks WHERE video_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM video_streams WHERE video_id = ?`, id).Error; err != nil {
			return err
		}

		return tx.Delete(&Video{}, "id = ?", id).Error
	})
}
