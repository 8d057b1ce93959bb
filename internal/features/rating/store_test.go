package rating_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/internal/features/rating"
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

func createCourse(t *testing.T, db *gorm.DB) course.Course {
	t.Helper()

	crs, err := course.Create(db, course.CreateInput{
		Title:        "Operating Systems",
		Description:  "Processes, memory, filesystems.",
		InstructorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	crs, err = course.Publish(db, crs.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("publish course: %v", err)
	}
	return crs
}

func assertAggregate(t *testing.T, db *gorm.DB, courseID uuid.UUID, wantSum int64, wantCount int) {
	t.Helper()

	crs, err := course.Get(db, courseID)
	if err != nil {
		t.Fatalf("reload course: %v", err)
	}
	if crs.RatingSum != wantSum {
		t.Errorf("rating_sum = %d, want %d", crs.RatingSum, wantSum)
	}
	if crs.TotalRatings != wantCount {
		t.Errorf("total_ratings = %d, want %d", crs.TotalRatings, wantCount)
	}
}

func TestRateUpsertKeepsAggregate(t *testing.T) {
	db := openTestDB(t)
	crs := createCourse(t, db)
	alice := uuid.New()
	bob := uuid.New()

	if _, err := rating.Rate(db, alice, crs.ID, 4, nil); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	assertAggregate(t, db, crs.ID, 4, 1)

	// Re-rating replaces the contribution instead of adding a second one.
	if _, err := rating.Rate(db, alice, crs.ID, 5, nil); err != nil {
		t.Fatalf("re-rate: %v", err)
	}
	assertAggregate(t, db, crs.ID, 5, 1)

	if _, err := rating.Rate(db, bob, crs.ID, 3, nil); err != nil {
		t.Fatalf("second student rating: %v", err)
	}
	assertAggregate(t, db, crs.ID, 8, 2)

	crs, err := course.Get(db, crs.ID)
	if err != nil {
		t.Fatalf("reload course: %v", err)
	}
	if crs.AverageRating != 4 {
		t.Errorf("averageRating = %v, want 4", crs.AverageRating)
	}

	var rows int64
	if err := db.Model(&rating.CourseRating{}).Where("course_id = ?", crs.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count ratings: %v", err)
	}
	if rows != 2 {
		t.Errorf("rating rows = %d, want 2", rows)
	}
}

func TestDeleteRollsAggregateBack(t *testing.T) {
	db := openTestDB(t)
	crs := createCourse(t, db)
	alice := uuid.New()
	bob := uuid.New()

	if _, err := rating.Rate(db, alice, crs.ID, 5, nil); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := rating.Rate(db, bob, crs.ID, 2, nil); err != nil {
		t.Fatalf("rate: %v", err)
	}

	if err := rating.Delete(db, alice, crs.ID); err != nil {
		t.Fatalf("delete rating: %v", err)
	}
	assertAggregate(t, db, crs.ID, 2, 1)

	if err := rating.Delete(db, alice, crs.ID); err != rating.ErrRatingNotFound {
		t.Errorf("double delete error = %v, want ErrRatingNotFound", err)
	}
}
