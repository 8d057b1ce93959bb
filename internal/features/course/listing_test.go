package course_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/pkg/database"
	"github.com/edulane/edulane-server-go/pkg/pagination"
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

func seedCourse(t *testing.T, db *gorm.DB, title string, published bool, publishedAt time.Time, students int) course.Course {
	t.Helper()

	crs, err := course.Create(db, course.CreateInput{
		Title:        title,
		Description:  "A course used by the listing tests.",
		InstructorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create course %q: %v", title, err)
	}

	if published {
		if _, err := course.Publish(db, crs.ID, publishedAt); err != nil {
			t.Fatalf("publish course %q: %v", title, err)
		}
	}
	if students > 0 {
		if err := course.AdjustEnrolledStudents(db, crs.ID, students); err != nil {
			t.Fatalf("seed enrollments for %q: %v", title, err)
		}
	}

	crs, err = course.Get(db, crs.ID)
	if err != nil {
		t.Fatalf("reload course %q: %v", title, err)
	}
	return crs
}

func feature(t *testing.T, db *gorm.DB, id uuid.UUID) {
	t.Helper()

	on := true
	if _, err := course.Update(db, id, course.UpdateInput{Featured: &on}); err != nil {
		t.Fatalf("feature course: %v", err)
	}
}

func TestListFeaturedFiltersAndOrders(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	older := seedCourse(t, db, "Featured Older", true, base, 0)
	newer := seedCourse(t, db, "Featured Newer", true, base.Add(48*time.Hour), 0)
	draft := seedCourse(t, db, "Featured Draft", false, time.Time{}, 0)
	seedCourse(t, db, "Plain Published", true, base.Add(24*time.Hour), 0)

	feature(t, db, older.ID)
	feature(t, db, newer.ID)
	feature(t, db, draft.ID)

	courses, total, err := course.ListFeatured(db, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list featured: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(courses) != 2 {
		t.Fatalf("len(courses) = %d, want 2", len(courses))
	}
	if courses[0].ID != newer.ID || courses[1].ID != older.ID {
		t.Errorf("featured order = [%s, %s], want newest published first", courses[0].Title, courses[1].Title)
	}
}

func TestListPopularRanksByEnrollment(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	quiet := seedCourse(t, db, "Quiet", true, base, 3)
	crowded := seedCourse(t, db, "Crowded", true, base, 250)
	seedCourse(t, db, "Unpublished Crowd", false, time.Time{}, 500)

	courses, total, err := course.ListPopular(db, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list popular: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(courses) != 2 {
		t.Fatalf("len(courses) = %d, want 2", len(courses))
	}
	if courses[0].ID != crowded.ID || courses[1].ID != quiet.ID {
		t.Errorf("popular order = [%s, %s], want highest enrollment first", courses[0].Title, courses[1].Title)
	}
}
