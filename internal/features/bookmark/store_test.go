package bookmark_test

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edulane/edulane-server-go/internal/features/bookmark"
	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/internal/features/lesson"
	"github.com/edulane/edulane-server-go/internal/features/video"
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

func createVideo(t *testing.T, db *gorm.DB) video.Video {
	t.Helper()

	crs, err := course.Create(db, course.CreateInput{
		Title:        "Compilers",
		Description:  "From source text to machine code.",
		InstructorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	les, err := lesson.Create(db, lesson.CreateInput{
		CourseID: crs.ID,
		Title:    "Lexing",
	})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	duration := 900
	vid, err := video.Create(db, video.CreateInput{
		LessonID: les.ID,
		Title:    "Lexing",
		Duration: &duration,
	})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}
	return vid
}

func TestCreateBookmarkOncePerVideo(t *testing.T) {
	db := openTestDB(t)
	vid := createVideo(t, db)
	user := uuid.New()

	note := "state machine diagram"
	first, err := bookmark.Create(db, user, vid.ID, 125, &note)
	if err != nil {
		t.Fatalf("create bookmark: %v", err)
	}
	if first.TimestampLabel != "02:05" {
		t.Errorf("timestamp label = %q, want %q", first.TimestampLabel, "02:05")
	}

	if _, err := bookmark.Create(db, user, vid.ID, 300, nil); err != bookmark.ErrAlreadyBookmarked {
		t.Fatalf("second bookmark err = %v, want ErrAlreadyBookmarked", err)
	}

	// Another user may bookmark the same video.
	if _, err := bookmark.Create(db, uuid.New(), vid.ID, 10, nil); err != nil {
		t.Fatalf("bookmark by second user: %v", err)
	}

	mine, err := bookmark.ListForUser(db, user, vid.ID)
	if err != nil {
		t.Fatalf("list bookmarks: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("len(bookmarks) = %d, want 1", len(mine))
	}
	if mine[0].TimestampLabel != "02:05" {
		t.Errorf("listed label = %q, want %q", mine[0].TimestampLabel, "02:05")
	}
}

func TestCreateBookmarkRejectsNegativeTimestamp(t *testing.T) {
	db := openTestDB(t)
	vid := createVideo(t, db)

	if _, err := bookmark.Create(db, uuid.New(), vid.ID, -1, nil); err != bookmark.ErrNegativeTimestamp {
		t.Fatalf("err = %v, want ErrNegativeTimestamp", err)
	}
}

func TestDeleteBookmarkChecksOwner(t *testing.T) {
	db := openTestDB(t)
	vid := createVideo(t, db)
	owner := uuid.New()

	record, err := bookmark.Create(db, owner, vid.ID, 42, nil)
	if err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	if err := bookmark.Delete(db, uuid.New(), record.ID); err != bookmark.ErrNotBookmarkOwner {
		t.Fatalf("stranger delete err = %v, want ErrNotBookmarkOwner", err)
	}
	if err := bookmark.Delete(db, owner, record.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := bookmark.Delete(db, owner, record.ID); err != bookmark.ErrBookmarkNotFound {
		t.Fatalf("repeat delete err = %v, want ErrBookmarkNotFound", err)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{65, "01:05"},
		{600, "10:00"},
		{3725, "62:05"},
		{-3, "00:00"},
	}

	for _, tc := range cases {
		if got := bookmark.FormatTimestamp(tc.seconds); got != tc.want {
			t.Errorf("FormatTimestamp(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
