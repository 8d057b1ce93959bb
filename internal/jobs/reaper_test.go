package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edulane/edulane-server-go/internal/features/analytics"
	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/internal/features/lesson"
	"github.com/edulane/edulane-server-go/internal/features/stream"
	"github.com/edulane/edulane-server-go/internal/features/video"
	"github.com/edulane/edulane-server-go/pkg/cache"
	"github.com/edulane/edulane-server-go/pkg/database"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createVideo(t *testing.T, db *gorm.DB) video.Video {
	t.Helper()

	crs, err := course.Create(db, course.CreateInput{
		Title:        "Distributed Systems",
		Description:  "Consensus, replication, failure.",
		InstructorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	les, err := lesson.Create(db, lesson.CreateInput{
		CourseID: crs.ID,
		Title:    "Leader Election",
	})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	duration := 600
	vid, err := video.Create(db, video.CreateInput{
		LessonID: les.ID,
		Title:    "Leader Election",
		Duration: &duration,
	})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}
	return vid
}

func backdate(t *testing.T, db *gorm.DB, sessionID uuid.UUID, to time.Time) {
	t.Helper()

	if err := db.Model(&stream.VideoStream{}).
		Where("id = ?", sessionID).
		UpdateColumn("updated_at", to).Error; err != nil {
		t.Fatalf("backdate session: %v", err)
	}
}

func TestReaperEndsStaleSessionOnce(t *testing.T) {
	db := openTestDB(t)
	vid := createVideo(t, db)
	user := uuid.New()

	svc := analytics.NewService(cache.NewLocalClient(), 0.9, quietLogger())
	reaper := NewStaleStreamReaper(db, svc, 30*time.Minute, quietLogger())

	session, err := stream.Start(db, stream.StartInput{UserID: user, VideoID: vid.ID})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := stream.UpdatePosition(db, user, session.SessionID, 120, 120); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	backdate(t, db, session.ID, time.Now().UTC().Add(-time.Hour))

	if err := reaper.Execute(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}

	reloaded, err := stream.GetBySessionID(db, session.SessionID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if reloaded.IsActive() {
		t.Fatal("stale session still active after reap")
	}

	today := analytics.Day(time.Now().UTC())
	bucket, err := analytics.GetBucket(db, vid.ID, today)
	if err != nil {
		t.Fatalf("load bucket: %v", err)
	}
	if bucket.TotalViews != 1 {
		t.Errorf("total_views = %d, want 1", bucket.TotalViews)
	}
	if bucket.TotalWatchTime != 120 {
		t.Errorf("total_watch_time = %d, want 120", bucket.TotalWatchTime)
	}

	// A second sweep sees no open sessions and must not touch the bucket.
	if err := reaper.Execute(context.Background()); err != nil {
		t.Fatalf("second execute: %v", err)
	}
	bucket, err = analytics.GetBucket(db, vid.ID, today)
	if err != nil {
		t.Fatalf("reload bucket: %v", err)
	}
	if bucket.TotalViews != 1 {
		t.Errorf("total_views after second sweep = %d, want 1", bucket.TotalViews)
	}
}

func TestReaperSkipsSessionEndedAfterListing(t *testing.T) {
	db := openTestDB(t)
	vid := createVideo(t, db)
	user := uuid.New()

	svc := analytics.NewService(cache.NewLocalClient(), 0.9, quietLogger())
	reaper := NewStaleStreamReaper(db, svc, 30*time.Minute, quietLogger())

	session, err := stream.Start(db, stream.StartInput{UserID: user, VideoID: vid.ID})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := stream.UpdatePosition(db, user, session.SessionID, 60, 60); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	backdate(t, db, session.ID, time.Now().UTC().Add(-time.Hour))

	// The owner closes the session between the stale listing and the
	// per-session transaction.
	now := time.Now().UTC()
	owned, err := stream.GetBySessionID(db, session.SessionID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	owned.End(now)
	if err := db.Save(&owned).Error; err != nil {
		t.Fatalf("save owner end: %v", err)
	}

	ended, err := reaper.reapSession(context.Background(), session.ID, now)
	if err != nil {
		t.Fatalf("reap ended session: %v", err)
	}
	if ended {
		t.Error("reaper ended a session that was already closed")
	}

	today := analytics.Day(now)
	var buckets int64
	if err := db.Model(&analytics.VideoAnalytics{}).
		Where("video_id = ? AND date = ?", vid.ID, today).
		Count(&buckets).Error; err != nil {
		t.Fatalf("count buckets: %v", err)
	}
	if buckets != 0 {
		t.Error("reaper recorded analytics for a session it did not end")
	}
}
