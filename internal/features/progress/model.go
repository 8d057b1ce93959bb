package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/enrollment"
	"github.com/edulane/edulane-server-go/internal/features/lesson"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// LessonProgress tracks a student's watch time and completion per lesson.
type LessonProgress struct {
	types.BaseModel

	StudentID    uuid.UUID  `gorm:"type:uuid;not null;column:student_id;uniqueIndex:idx_student_lesson" json:"studentId"`
	LessonID     uuid.UUID  `gorm:"type:uuid;not null;column:lesson_id;uniqueIndex:idx_student_lesson" json:"lessonId"`
	Completed    bool       `gorm:"type:boolean;not null;default:false;column:is_completed" json:"isCompleted"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
	WatchTime    int        `gorm:"type:int;not null;default:0;column:watch_time" json:"watchTime"` // seconds
	LastAccessed time.Time  `gorm:"not null;column:last_accessed" json:"lastAccessed"`
}

// TableName overrides the default table name.
func (LessonProgress) TableName() string { return "lesson_progress" }

// LessonCompleted decides whether accumulated watch time crosses the
// completion threshold. Lesson duration is minutes, watch time seconds.
// Lessons without a recorded duration never auto-complete.
func LessonCompleted(watchTime, durationMinutes int, threshold float64) bool {
	if durationMinutes <= 0 {
		return false
	}
	return float64(watchTime) >= float64(durationMinutes*60)*threshold
}

// MarkWatched accumulates watch time for a lesson and flips completion when
// the threshold is crossed. Completion is one-way; once a lesson is complete
// further watch time only accumulates. Crossing the threshold recomputes the
// owning enrollment inside the same transaction.
func MarkWatched(db *gorm.DB, threshold float64, studentID, lessonID uuid.UUID, watchTimeDelta int) (LessonProgress, error) {
	if watchTimeDelta < 0 {
		return LessonProgress{}, ErrNegativeWatchTime
	}

	var record LessonProgress
	err := db.Transaction(func(tx *gorm.DB) error {
		les, err := lesson.Get(tx, lessonID)
		if err != nil {
			return err
		}

		enr, err := enrollment.GetActive(tx, studentID, les.CourseID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		err = tx.First(&record, "student_id = ? AND lesson_id = ?", studentID, lessonID).Error
		if err == gorm.ErrRecordNotFound {
			record = LessonProgress{
				StudentID:    studentID,
				LessonID:     lessonID,
				LastAccessed: now,
			}
		} else if err != nil {
			return err
		}

		record.WatchTime += watchTimeDelta
		record.LastAccessed = now

		completedNow := false
		if !record.Completed && LessonCompleted(record.WatchTime, les.Duration, threshold) {
			record.Completed = true
			record.CompletedAt = &now
			completedNow = true
		}

		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		if completedNow {
			return enrollment.RecomputeProgress(tx, &enr, now)
		}
		return enrollment.Touch(tx, enr.ID, now)
	})

	return record, err
}

// Complete marks a lesson as finished regardless of watch time.
func Complete(db *gorm.DB, studentID, lessonID uuid.UUID) (LessonProgress, error) {
	var record LessonProgress
	err := db.Transaction(func(tx *gorm.DB) error {
		les, err := lesson.Get(tx, lessonID)
		if err != nil {
			return err
		}

		enr, err := enrollment.GetActive(tx, studentID, les.CourseID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		err = tx.First(&record, "student_id = ? AND lesson_id = ?", studentID, lessonID).Error
		if err == gorm.ErrRecordNotFound {
			record = LessonProgress{
				StudentID:    studentID,
				LessonID:     lessonID,
				LastAccessed: now,
			}
		} else if err != nil {
			return err
		}

		if record.Completed {
			record.LastAccessed = now
			return tx.Save(&record).Error
		}

		record.Completed = true
		record.CompletedAt = &now
		record.LastAccessed = now

		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		return enrollment.RecomputeProgress(tx, &enr, now)
	})

	return record, err
}

// Get retrieves a progress record for a student and lesson pair.
func Get(db *gorm.DB, studentID, lessonID uuid.UUID) (LessonProgress, error) {
	var record LessonProgress
	if err := db.First(&record, "student_id = ? AND lesson_id = ?", studentID, lessonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return record, ErrProgressNotFound
		}
		return record, err
	}
	return record, nil
}

// ListForCourse retrieves a student's progress across all lessons of a course.
func ListForCourse(db *gorm.DB, studentID, courseID uuid.UUID) ([]LessonProgress, error) {
	records := make([]LessonProgress, 0)
	err := db.
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Where("lesson_progress.student_id = ? AND lessons.course_id = ?", studentID, courseID).
		Order(`lessons."order" ASC`).
		Find(&records).Error
	return records, err
}
