package stream

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/video"
	"github.com/edulane/edulane-server-go/pkg/metrics"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// VideoStream is one viewing session of a video by a user. A user has at
// most one active session per video.
type VideoStream struct {
	types.BaseModel

	UserID          uuid.UUID           `gorm:"type:uuid;not null;column:user_id;index:idx_user_video" json:"userId"`
	VideoID         uuid.UUID           `gorm:"type:uuid;not null;column:video_id;index:idx_user_video" json:"videoId"`
	SessionID       string              `gorm:"type:varchar(100);not null;unique;column:session_id" json:"sessionId"`
	StartedAt       time.Time           `gorm:"not null;column:started_at" json:"startedAt"`
	EndedAt         *time.Time          `gorm:"column:ended_at" json:"endedAt,omitempty"`
	TotalWatchTime  int                 `gorm:"type:int;not null;default:0;column:total_watch_time" json:"totalWatchTime"` // seconds
	CurrentPosition int                 `gorm:"type:int;not null;default:0;column:current_position" json:"currentPosition"` // seconds
	UserAgent       *string             `gorm:"type:varchar(500);column:user_agent" json:"userAgent,omitempty"`
	IPAddress       *string             `gorm:"type:varchar(45);column:ip_address" json:"ipAddress,omitempty"`
	Quality         types.StreamQuality `gorm:"type:varchar(10);not null;default:'auto'" json:"quality"`
}

// TableName overrides the default table name.
func (VideoStream) TableName() string { return "video_streams" }

// IsActive reports whether the session is still open.
func (s *VideoStream) IsActive() bool {
	return s.EndedAt == nil
}

// End closes the session. Idempotent; reports whether this call did the close.
func (s *VideoStream) End(now time.Time) bool {
	if s.EndedAt != nil {
		return false
	}
	s.EndedAt = &now
	return true
}

// ApplyPosition records a playback heartbeat: the new position and the watch
// seconds since the previous heartbeat.
func (s *VideoStream) ApplyPosition(position, watchTimeDelta int) error {
	if s.EndedAt != nil {
		return ErrSessionEnded
	}
	if position < 0 || watchTimeDelta < 0 {
		return ErrNegativePosition
	}

	s.CurrentPosition = position
	s.TotalWatchTime += watchTimeDelta
	return nil
}

// StartInput carries data for opening a stream session.
type StartInput struct {
	UserID    uuid.UUID
	VideoID   uuid.UUID
	UserAgent *string
	IPAddress *string
	Quality   types.StreamQuality
}

// Start opens a new session. Refused while the user still has an active
// session for the same video.
func Start(db *gorm.DB, input StartInput) (VideoStream, error) {
	quality := input.Quality
	if quality == "" {
		quality = types.StreamQualityAuto
	}
	if !types.ValidStreamQuality(quality) {
		return VideoStream{}, ErrInvalidQuality
	}

	var session VideoStream
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := video.Get(tx, input.VideoID); err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&VideoStream{}).
			Where("user_id = ? AND video_id = ? AND ended_at IS NULL", input.UserID, input.VideoID).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveSessionExists
		}

		session = VideoStream{
			UserID:    input.UserID,
			VideoID:   input.VideoID,
			SessionID: uuid.NewString(),
			StartedAt: time.Now().UTC(),
			UserAgent: input.UserAgent,
			IPAddress: input.IPAddress,
			Quality:   quality,
		}

		return tx.Create(&session).Error
	})
	if err != nil {
		return session, err
	}

	metrics.RecordStreamSession("started")
	return session, nil
}

// GetBySessionID retrieves a session by its public identifier.
func GetBySessionID(db *gorm.DB, sessionID string) (VideoStream, error) {
	var session VideoStream
	if err := db.First(&session, "session_id = ?", sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return session, ErrSessionNotFound
		}
		return session, err
	}
	return session, nil
}

// UpdatePosition applies a playback heartbeat to an owned active session.
func UpdatePosition(db *gorm.DB, userID uuid.UUID, sessionID string, position, watchTimeDelta int) (VideoStream, error) {
	session, err := GetBySessionID(db, sessionID)
	if err != nil {
		return session, err
	}
	if session.UserID != userID {
		return session, ErrNotSessionOwner
	}

	if err := session.ApplyPosition(position, watchTimeDelta); err != nil {
		return session, err
	}

	if err := db.Save(&session).Error; err != nil {
		return session, err
	}
	return session, nil
}

// ListActiveForVideo retrieves open sessions for a video.
func ListActiveForVideo(db *gorm.DB, videoID uuid.UUID) ([]VideoStream, error) {
	sessions := make([]VideoStream, 0)
	err := db.
		Where("video_id = ? AND ended_at IS NULL", videoID).
		Order("started_at ASC").
		Find(&sessions).Error
	return sessions, err
}

// ListStale retrieves open sessions that started before the cutoff and have
// seen no updates since.
func ListStale(db *gorm.DB, cutoff time.Time) ([]VideoStream, error) {
	sessions := make([]VideoStream, 0)
	err := db.
		Where("ended_at IS NULL AND updated_at < ?", cutoff).
		Find(&sessions).Error
	return sessions, err
}
