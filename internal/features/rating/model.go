package rating

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/pkg/apperrors"
	"github.com/edulane/edulane-server-go/pkg/pagination"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// CourseRating is a student's 1..5 star rating with an optional review.
type CourseRating struct {
	types.BaseModel

	StudentID uuid.UUID `gorm:"type:uuid;not null;column:student_id;uniqueIndex:idx_rating_student_course" json:"studentId"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;column:course_id;uniqueIndex:idx_rating_student_course" json:"courseId"`
	Rating    int       `gorm:"type:int;not null" json:"rating"`
	Review    *string   `gorm:"type:text" json:"review,omitempty"`
}

// TableName overrides the default table name.
func (CourseRating) TableName() string { return "course_ratings" }

// AggregateDelta computes the adjustment to a course's rating running sum
// and count when a rating is created or changed. previous of 0 means no
// prior rating existed.
func AggregateDelta(previous, next int) (sumDelta int64, countDelta int) {
	if previous == 0 {
		return int64(next), 1
	}
	return int64(next - previous), 0
}

// Rate creates or updates the student's rating, keeping the course aggregate
// counters in step within the same transaction.
func Rate(db *gorm.DB, studentID, courseID uuid.UUID, value int, review *string) (CourseRating, error) {
	if value < 1 || value > 5 {
		return CourseRating{}, ErrRatingRange
	}

	var record CourseRating
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := course.Get(tx, courseID); err != nil {
			return err
		}

		previous := 0
		err := tx.First(&record, "student_id = ? AND course_id = ?", studentID, courseID).Error
		switch {
		case err == nil:
			previous = record.Rating
			record.Rating = value
			if review != nil {
				record.Review = review
			}
			if err := tx.Save(&record).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			record = CourseRating{
				StudentID: studentID,
				CourseID:  courseID,
				Rating:    value,
				Review:    review,
			}
			if err := tx.Create(&record).Error; err != nil {
				if apperrors.IsDuplicateKey(err) {
					return ErrRatingConflict
				}
				return err
			}
		default:
			return err
		}

		sumDelta, countDelta := AggregateDelta(previous, value)
		return course.ApplyRatingDelta(tx, courseID, sumDelta, countDelta)
	})

	return record, err
}

// Delete removes the student's rating and rolls its contribution out of the
// course aggregate.
func Delete(db *gorm.DB, studentID, courseID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var record CourseRating
		err := tx.First(&record, "student_id = ? AND course_id = ?", studentID, courseID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrRatingNotFound
			}
			return err
		}

		if err := tx.Delete(&record).Error; err != nil {
			return err
		}

		return course.ApplyRatingDelta(tx, courseID, -int64(record.Rating), -1)
	})
}

// Get retrieves a student's rating for a course.
func Get(db *gorm.DB, studentID, courseID uuid.UUID) (CourseRating, error) {
	var record CourseRating
	if err := db.First(&record, "student_id = ? AND course_id = ?", studentID, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return record, ErrRatingNotFound
		}
		return record, err
	}
	return record, nil
}

// ListForCourse retrieves paginated ratings for a course, newest first.
func ListForCourse(db *gorm.DB, courseID uuid.UUID, params pagination.Params) ([]CourseRating, int64, error) {
	query := db.Model(&CourseRating{}).Where("course_id = ?", courseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ratings := make([]CourseRating, 0)
	err := query.
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&ratings).Error

	return ratings, total, err
}
