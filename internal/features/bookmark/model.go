package bookmark

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/video"
	"github.com/edulane/edulane-server-go/pkg/apperrors"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// VideoBookmark marks a position in a video a user wants to return to. One
// bookmark per user per video.
type VideoBookmark struct {
	types.BaseModel

	UserID    uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_bookmark_user_video" json:"userId"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;column:video_id;uniqueIndex:idx_bookmark_user_video" json:"videoId"`
	Timestamp int       `gorm:"type:int;not null;default:0" json:"timestamp"` // seconds
	Note      *string   `gorm:"type:text" json:"note,omitempty"`

	TimestampLabel string `gorm:"-" json:"timestampLabel"`
}

// TableName overrides the default table name.
func (VideoBookmark) TableName() string { return "video_bookmarks" }

// AfterFind derives the display label from the stored position.
func (b *VideoBookmark) AfterFind(tx *gorm.DB) error {
	b.TimestampLabel = FormatTimestamp(b.Timestamp)
	return nil
}

// FormatTimestamp renders a position in seconds as MM:SS.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Create inserts a bookmark for the user on the video.
func Create(db *gorm.DB, userID, videoID uuid.UUID, timestamp int, note *string) (VideoBookmark, error) {
	if timestamp < 0 {
		return VideoBookmark{}, ErrNegativeTimestamp
	}

	var record VideoBookmark
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := video.Get(tx, videoID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&VideoBookmark{}).
			Where("user_id = ? AND video_id = ?", userID, videoID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyBookmarked
		}

		record = VideoBookmark{
			UserID:    userID,
			VideoID:   videoID,
			Timestamp: timestamp,
			Note:      note,
		}

		if err := tx.Create(&record).Error; err != nil {
			if apperrors.IsDuplicateKey(err) {
				return ErrAlreadyBookmarked
			}
			return err
		}
		return nil
	})
	if err != nil {
		return VideoBookmark{}, err
	}

	record.TimestampLabel = FormatTimestamp(record.Timestamp)
	return record, nil
}

// ListForUser retrieves the user's bookmarks on a video, newest first.
func ListForUser(db *gorm.DB, userID, videoID uuid.UUID) ([]VideoBookmark, error) {
	bookmarks := make([]VideoBookmark, 0)
	err := db.
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	return bookmarks, err
}

// Delete removes a bookmark owned by the user.
func Delete(db *gorm.DB, userID, bookmarkID uuid.UUID) error {
	var record VideoBookmark
	if err := db.First(&record, "id = ?", bookmarkID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrBookmarkNotFound
		}
		return err
	}

	if record.UserID != userID {
		return ErrNotBookmarkOwner
	}

	return db.Delete(&record).Error
}
