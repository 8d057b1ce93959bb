package enrollment_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edulane/edulane-server-go/internal/features/certificate"
	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/internal/features/enrollment"
	"github.com/edulane/edulane-server-go/internal/features/lesson"
	"github.com/edulane/edulane-server-go/internal/features/progress"
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
	// A single connection keeps the in-memory database alive for the test.
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createPublishedCourse(t *testing.T, db *gorm.DB) course.Course {
	t.Helper()

	crs, err := course.Create(db, course.CreateInput{
		Title:        "Relational Databases " + uuid.NewString()[:8],
		Description:  "Schema design and querying.",
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

func addLesson(t *testing.T, db *gorm.DB, courseID uuid.UUID, title string, published bool) lesson.Lesson {
	t.Helper()

	duration := 10
	les, err := lesson.Create(db, lesson.CreateInput{
		CourseID:  courseID,
		Title:     title,
		Duration:  &duration,
		Published: &published,
	})
	if err != nil {
		t.Fatalf("create lesson %q: %v", title, err)
	}
	return les
}

func TestEnrollDuplicateConflict(t *testing.T) {
	db := openTestDB(t)
	crs := createPublishedCourse(t, db)
	student := uuid.New()

	if _, err := enrollment.Enroll(db, student, crs.ID); err != nil {
		t.Fatalf("first enroll: %v", err)
	}

	if _, err := enrollment.Enroll(db, student, crs.ID); err != enrollment.ErrAlreadyEnrolled {
		t.Errorf("second enroll error = %v, want ErrAlreadyEnrolled", err)
	}

	reloaded, err := course.Get(db, crs.ID)
	if err != nil {
		t.Fatalf("reload course: %v", err)
	}
	if reloaded.EnrolledStudents != 1 {
		t.Errorf("enrolled_students = %d, want 1", reloaded.EnrolledStudents)
	}
}

func TestReenrollKeepsProgress(t *testing.T) {
	db := openTestDB(t)
	crs := createPublishedCourse(t, db)
	student := uuid.New()

	enr, err := enrollment.Enroll(db, student, crs.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if err := db.Model(&enrollment.CourseEnrollment{}).
		Where("id = ?", enr.ID).
		UpdateColumn("progress", 40).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}

	if err := enrollment.Unenroll(db, student, crs.ID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}

	reloaded, err := course.Get(db, crs.ID)
	if err != nil {
		t.Fatalf("reload course: %v", err)
	}
	if reloaded.EnrolledStudents != 0 {
		t.Errorf("enrolled_students after unenroll = %d, want 0", reloaded.EnrolledStudents)
	}

	again, err := enrollment.Enroll(db, student, crs.ID)
	if err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
	if !again.Active {
		t.Error("re-enrollment is not active")
	}
	if again.Progress != 40 {
		t.Errorf("progress after re-enroll = %d, want 40", again.Progress)
	}
	if again.ID != enr.ID {
		t.Errorf("re-enroll created a new row: %s != %s", again.ID, enr.ID)
	}
}

func TestRecomputeCountsOnlyListedLessons(t *testing.T) {
	db := openTestDB(t)
	crs := createPublishedCourse(t, db)
	student := uuid.New()

	first := addLesson(t, db, crs.ID, "Tables", true)
	addLesson(t, db, crs.ID, "Joins", true)
	hidden := addLesson(t, db, crs.ID, "Draft: Window Functions", false)

	if _, err := enrollment.Enroll(db, student, crs.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if _, err := progress.Complete(db, student, first.ID); err != nil {
		t.Fatalf("complete first lesson: %v", err)
	}

	// A completion recorded on the unpublished lesson must not move the
	// ratio of published lessons.
	now := time.Now().UTC()
	stray := progress.LessonProgress{
		StudentID:    student,
		LessonID:     hidden.ID,
		Completed:    true,
		CompletedAt:  &now,
		LastAccessed: now,
	}
	if err := db.Create(&stray).Error; err != nil {
		t.Fatalf("seed stray completion: %v", err)
	}

	enr, err := enrollment.GetActive(db, student, crs.ID)
	if err != nil {
		t.Fatalf("load enrollment: %v", err)
	}
	if err := db.Transaction(func(tx *gorm.DB) error {
		return enrollment.RecomputeProgress(tx, &enr, now)
	}); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	if enr.Progress != 50 {
		t.Errorf("progress = %d, want 50", enr.Progress)
	}
	if enr.CompletedAt != nil {
		t.Error("enrollment completed with a published lesson still open")
	}
	if enr.CertificateIssued {
		t.Error("certificate issued for an incomplete course")
	}

	var certs int64
	if err := db.Model(&certificate.CourseCertificate{}).
		Where("enrollment_id = ?", enr.ID).
		Count(&certs).Error; err != nil {
		t.Fatalf("count certificates: %v", err)
	}
	if certs != 0 {
		t.Errorf("certificates = %d, want 0", certs)
	}
}

func TestCompletionIssuesCertificateOnce(t *testing.T) {
	db := openTestDB(t)
	crs := createPublishedCourse(t, db)
	student := uuid.New()

	lessons := []lesson.Lesson{
		addLesson(t, db, crs.ID, "Tables", true),
		addLesson(t, db, crs.ID, "Joins", true),
		addLesson(t, db, crs.ID, "Indexes", true),
		addLesson(t, db, crs.ID, "Transactions", true),
	}

	if _, err := enrollment.Enroll(db, student, crs.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	for _, les := range lessons[:3] {
		if _, err := progress.Complete(db, student, les.ID); err != nil {
			t.Fatalf("complete %q: %v", les.Title, err)
		}
	}

	enr, err := enrollment.GetActive(db, student, crs.ID)
	if err != nil {
		t.Fatalf("load enrollment: %v", err)
	}
	if enr.Progress != 75 {
		t.Errorf("progress after 3 of 4 = %d, want 75", enr.Progress)
	}
	if enr.CompletedAt != nil {
		t.Error("completed before the last lesson")
	}

	if _, err := progress.Complete(db, student, lessons[3].ID); err != nil {
		t.Fatalf("complete last lesson: %v", err)
	}

	enr, err = enrollment.GetActive(db, student, crs.ID)
	if err != nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	if enr.Progress != 100 {
		t.Errorf("progress = %d, want 100", enr.Progress)
	}
	if enr.CompletedAt == nil {
		t.Fatal("completedAt not set at 100%")
	}
	if !enr.CertificateIssued {
		t.Fatal("certificate not issued on completion")
	}

	cert, err := certificate.GetByEnrollment(db, enr.ID)
	if err != nil {
		t.Fatalf("load certificate: %v", err)
	}

	// Recomputing a finished enrollment must stay idempotent.
	completedAt := *enr.CompletedAt
	if err := db.Transaction(func(tx *gorm.DB) error {
		return enrollment.RecomputeProgress(tx, &enr, time.Now().UTC().Add(time.Hour))
	}); err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if !enr.CompletedAt.Equal(completedAt) {
		t.Error("completedAt moved on recompute")
	}

	var certs int64
	if err := db.Model(&certificate.CourseCertificate{}).
		Where("enrollment_id = ?", enr.ID).
		Count(&certs).Error; err != nil {
		t.Fatalf("count certificates: %v", err)
	}
	if certs != 1 {
		t.Errorf("certificates = %d, want 1", certs)
	}

	same, err := certificate.GetByEnrollment(db, enr.ID)
	if err != nil {
		t.Fatalf("reload certificate: %v", err)
	}
	if same.CertificateNumber != cert.CertificateNumber {
		t.Errorf("certificate number changed: %s != %s", same.CertificateNumber, cert.CertificateNumber)
	}
}
