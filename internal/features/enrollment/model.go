package enrollment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/certificate"
	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/pkg/apperrors"
	"github.com/edulane/edulane-server-go/pkg/metrics"
	"github.com/edulane/edulane-server-go/pkg/pagination"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// CourseEnrollment tracks a student's membership and progress in a course.
type CourseEnrollment struct {
	types.BaseModel

	StudentID           uuid.UUID  `gorm:"type:uuid;not null;column:student_id;uniqueIndex:idx_student_course" json:"studentId"`
	CourseID            uuid.UUID  `gorm:"type:uuid;not null;column:course_id;uniqueIndex:idx_student_course" json:"courseId"`
	EnrolledAt          time.Time  `gorm:"not null;column:enrolled_at" json:"enrolledAt"`
	CompletedAt         *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
	Active              bool       `gorm:"type:boolean;not null;default:true;column:is_active" json:"isActive"`
	Progress            int        `gorm:"type:int;not null;default:0" json:"progress"`
	LastAccessed        time.Time  `gorm:"not null;column:last_accessed" json:"lastAccessed"`
	CertificateIssued   bool       `gorm:"type:boolean;not null;default:false;column:certificate_issued" json:"certificateIssued"`
	CertificateIssuedAt *time.Time `gorm:"column:certificate_issued_at" json:"certificateIssuedAt,omitempty"`
}

// TableName overrides the default table name.
func (CourseEnrollment) TableName() string { return "course_enrollments" }

// ComputeProgress derives a whole-number completion percentage, floored and
// clamped to [0, 100]. A course with no lessons reports zero.
func ComputeProgress(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	progress := completed * 100 / total
	if progress > 100 {
		return 100
	}
	return progress
}

// applyProgress moves the enrollment forward. Progress never decreases, and
// CompletedAt is set exactly when progress first reaches 100.
func (e *CourseEnrollment) applyProgress(progress int, now time.Time) (completedNow bool) {
	if progress < e.Progress {
		return false
	}

	e.Progress = progress
	e.LastAccessed = now

	if progress >= 100 && e.CompletedAt == nil {
		e.CompletedAt = &now
		return true
	}
	return false
}

// Enroll creates an active enrollment, reactivating a previous one if the
// student re-enrolls. Earlier progress survives reactivation.
func Enroll(db *gorm.DB, studentID, courseID uuid.UUID) (CourseEnrollment, error) {
	var enrollment CourseEnrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		crs, err := course.Get(tx, courseID)
		if err != nil {
			return err
		}
		if !crs.Published || !crs.Active {
			return ErrCourseNotPublished
		}

		now := time.Now().UTC()

		var existing CourseEnrollment
		err = tx.First(&existing, "student_id = ? AND course_id = ?", studentID, courseID).Error
		switch {
		case err == nil && existing.Active:
			return ErrAlreadyEnrolled
		case err == nil:
			existing.Active = true
			existing.LastAccessed = now
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			enrollment = existing
		case err == gorm.ErrRecordNotFound:
			enrollment = CourseEnrollment{
				StudentID:    studentID,
				CourseID:     courseID,
				EnrolledAt:   now,
				Active:       true,
				LastAccessed: now,
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				if apperrors.IsDuplicateKey(err) {
					return ErrAlreadyEnrolled
				}
				return err
			}
		default:
			return err
		}

		if err := course.AdjustEnrolledStudents(tx, courseID, 1); err != nil {
			return err
		}

		metrics.RecordEnrollment()
		return nil
	})

	return enrollment, err
}

// Unenroll deactivates an enrollment without discarding progress.
func Unenroll(db *gorm.DB, studentID, courseID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var enrollment CourseEnrollment
		err := tx.First(&enrollment, "student_id = ? AND course_id = ? AND is_active = ?", studentID, courseID, true).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotEnrolled
			}
			return err
		}

		enrollment.Active = false
		if err := tx.Save(&enrollment).Error; err != nil {
			return err
		}

		return course.AdjustEnrolledStudents(tx, courseID, -1)
	})
}

// Get retrieves an enrollment for a student and course pair.
func Get(db *gorm.DB, studentID, courseID uuid.UUID) (CourseEnrollment, error) {
	var enrollment CourseEnrollment
	if err := db.First(&enrollment, "student_id = ? AND course_id = ?", studentID, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return enrollment, ErrEnrollmentNotFound
		}
		return enrollment, err
	}
	return enrollment, nil
}

// GetActive retrieves an active enrollment for a student and course pair.
func GetActive(db *gorm.DB, studentID, courseID uuid.UUID) (CourseEnrollment, error) {
	var enrollment CourseEnrollment
	err := db.First(&enrollment, "student_id = ? AND course_id = ? AND is_active = ?", studentID, courseID, true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return enrollment, ErrNotEnrolled
		}
		return enrollment, err
	}
	return enrollment, nil
}

// ListForStudent retrieves a student's enrollments, newest first.
func ListForStudent(db *gorm.DB, studentID uuid.UUID, activeOnly bool, params pagination.Params) ([]CourseEnrollment, int64, error) {
	query := db.Model(&CourseEnrollment{}).Where("student_id = ?", studentID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	enrollments := make([]CourseEnrollment, 0)
	err := query.
		Order("enrolled_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&enrollments).Error

	return enrollments, total, err
}

// CountActiveForCourse returns active enrollments for a course.
func CountActiveForCourse(db *gorm.DB, courseID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&CourseEnrollment{}).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Count(&count).Error
	return count, err
}

// RecomputeProgress recalculates an enrollment's progress from completed
// lesson counts. On the transition to full completion it issues the
// certificate inside the same transaction.
func RecomputeProgress(tx *gorm.DB, enrollment *CourseEnrollment, now time.Time) error {
	var total int64
	if err := tx.Table("lessons").
		Where("course_id = ? AND is_published = ? AND is_active = ?", enrollment.CourseID, true, true).
		Count(&total).Error; err != nil {
		return err
	}

	// Completions only count toward lessons in the denominator, so a record
	// on an unpublished or deactivated lesson cannot inflate the ratio.
	var completed int64
	if err := tx.Table("lesson_progress lp").
		Joins("JOIN lessons l ON l.id = lp.lesson_id").
		Where("lp.student_id = ? AND l.course_id = ? AND lp.is_completed = ?", enrollment.StudentID, enrollment.CourseID, true).
		Where("l.is_published = ? AND l.is_active = ?", true, true).
		Count(&completed).Error; err != nil {
		return err
	}

	progress := ComputeProgress(int(completed), int(total))
	completedNow := enrollment.applyProgress(progress, now)

	if completedNow {
		metrics.RecordCourseCompletion()

		if !enrollment.CertificateIssued {
			_, err := certificate.Issue(tx, enrollment.StudentID, enrollment.CourseID, enrollment.ID, enrollment.Progress, now)
			switch err {
			case nil:
				enrollment.CertificateIssued = true
				enrollment.CertificateIssuedAt = &now
				metrics.RecordCertificateIssued()
			case certificate.ErrAlreadyIssued:
				enrollment.CertificateIssued = true
			default:
				return err
			}
		}
	}

	return tx.Save(enrollment).Error
}

// Touch bumps the last-accessed timestamp.
func Touch(db *gorm.DB, enrollmentID uuid.UUID, now time.Time) error {
	return db.Model(&CourseEnrollment{}).
		Where("id = ?", enrollmentID).
		UpdateColumn("last_accessed", now).Error
}
