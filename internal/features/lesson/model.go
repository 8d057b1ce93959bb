package lesson

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// Lesson represents a single unit of course content. Order is unique within
// the owning course.
type Lesson struct {
	types.BaseModel

	CourseID  uuid.UUID      `gorm:"type:uuid;not null;column:course_id;uniqueIndex:idx_course_order" json:"courseId"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`
	Content   *string        `gorm:"type:text" json:"content,omitempty"`
	VideoURL  *string        `gorm:"type:varchar(500);column:video_url" json:"videoUrl,omitempty"`
	Duration  int            `gorm:"type:int;not null;default:0" json:"duration"` // minutes
	Order     int            `gorm:"type:int;not null;uniqueIndex:idx_course_order" json:"order"`
	IsFree    bool           `gorm:"type:boolean;not null;default:false;column:is_free" json:"isFree"`
	Published bool           `gorm:"type:boolean;not null;default:false;column:is_published" json:"isPublished"`
	Active    bool           `gorm:"type:boolean;not null;default:true;column:is_active" json:"isActive"`
	Resources pq.StringArray `gorm:"type:text[]" json:"resources,omitempty"`
}

// TableName overrides the default table name.
func (Lesson) TableName() string { return "lessons" }

// GetByCourse retrieves lessons for a course ordered by position.
func GetByCourse(db *gorm.DB, courseID uuid.UUID, publishedOnly bool) ([]Lesson, error) {
	query := db.Where("course_id = ? AND is_active = ?", courseID, true)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	lessons := make([]Lesson, 0)
	err := query.Order("\"order\" ASC").Find(&lessons).Error
	return lessons, err
}

// Get retrieves a lesson by ID.
func Get(db *gorm.DB, id uuid.UUID) (Lesson, error) {
	var lesson Lesson
	if err := db.First(&lesson, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return lesson, ErrLessonNotFound
		}
		return lesson, err
	}
	return lesson, nil
}

// CountPublishedByCourse returns the number of published active lessons.
func CountPublishedByCourse(db *gorm.DB, courseID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&Lesson{}).
		Where("course_id = ? AND is_published = ? AND is_active = ?", courseID, true, true).
		Count(&count).Error
	return count, err
}

// CreateInput carries data for creating a new lesson.
type CreateInput struct {
	CourseID  uuid.UUID
	Title     string
	Content   *string
	VideoURL  *string
	Duration  *int
	Order     *int
	IsFree    *bool
	Published *bool
	Resources []string
}

// Create inserts a new lesson. A missing order is assigned as max+1 within
// the course; an explicit order must be unused.
func Create(db *gorm.DB, input CreateInput) (Lesson, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Lesson{}, ErrTitleRequired
	}

	var lesson Lesson
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := course.Get(tx, input.CourseID); err != nil {
			return err
		}

		order := 0
		if input.Order != nil {
			if *input.Order <= 0 {
				return ErrInvalidOrder
			}
			var count int64
			if err := tx.Model(&Lesson{}).
				Where("course_id = ? AND \"order\" = ?", input.CourseID, *input.Order).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrOrderTaken
			}
			order = *input.Order
		} else {
			if err := tx.Model(&Lesson{}).
				Where("course_id = ?", input.CourseID).
				Select(`COALESCE(MAX("order"), 0) + 1`).
				Scan(&order).Error; err != nil {
				return err
			}
		}

		lesson = Lesson{
			CourseID:  input.CourseID,
			Title:     title,
			Content:   input.Content,
			VideoURL:  input.VideoURL,
			Order:     order,
			Active:    true,
			Resources: pq.StringArray(input.Resources),
		}

		if input.Duration != nil && *input.Duration > 0 {
			lesson.Duration = *input.Duration
		}
		if input.IsFree != nil {
			lesson.IsFree = *input.IsFree
		}
		if input.Published != nil {
			lesson.Published = *input.Published
		}

		if err := tx.Create(&lesson).Error; err != nil {
			return err
		}

		if lesson.Published {
			return course.AdjustTotalLessons(tx, input.CourseID, 1)
		}
		return nil
	})

	return lesson, err
}

// UpdateInput captures mutable lesson fields.
type UpdateInput struct {
	Title             *string
	ContentProvided   bool
	Content           *string
	VideoURLProvided  bool
	VideoURL          *string
	Duration          *int
	Order             *int
	IsFree            *bool
	Published         *bool
	Active            *bool
	ResourcesProvided bool
	Resources         []string
}

// Update modifies an existing lesson, keeping the course lesson counter in
// step when the published flag flips.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (Lesson, error) {
	var lesson Lesson
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		lesson, err = Get(tx, id)
		if err != nil {
			return err
		}

		wasPublished := lesson.Published

		if input.Title != nil {
			trimmed := strings.TrimSpace(*input.Title)
			if trimmed == "" {
				return ErrTitleRequired
			}
			lesson.Title = trimmed
		}

		if input.ContentProvided {
			lesson.Content = input.Content
		}

		if input.VideoURLProvided {
			lesson.VideoURL = input.VideoURL
		}

		if input.Duration != nil && *input.Duration >= 0 {
			lesson.Duration = *input.Duration
		}

		if input.Order != nil && *input.Order != lesson.Order {
			if *input.Order <= 0 {
				return ErrInvalidOrder
			}
			var count int64
			if err := tx.Model(&Lesson{}).
				Where("course_id = ? AND \"order\" = ? AND id <> ?", lesson.CourseID, *input.Order, lesson.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrOrderTaken
			}
			lesson.Order = *input.Order
		}

		if input.IsFree != nil {
			lesson.IsFree = *input.IsFree
		}
		if input.Published != nil {
			lesson.Published = *input.Published
		}
		if input.Active != nil {
			lesson.Active = *input.Active
		}
		if input.ResourcesProvided {
			lesson.Resources = pq.StringArray(input.Resources)
		}

		if err := tx.Save(&lesson).Error; err != nil {
			return err
		}

		if lesson.Published != wasPublished {
			delta := 1
			if !lesson.Published {
				delta = -1
			}
			return course.AdjustTotalLessons(tx, lesson.CourseID, delta)
		}
		return nil
	})

	return lesson, err
}

// Delete removes a lesson together with its progress records and video data.
func Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		lesson, err := Get(tx, id)
		if err != nil {
			return err
		}

		statements := []string{
			`DELETE FROM video_analytics WHERE video_id IN (SELECT id FROM videos WHERE lesson_id = ?)`,
			`DELETE FROM video_bookmarks WHERE video_id IN (SELECT id FROM videos WHERE lesson_id = ?)`,
			`DELETE FROM video_streams WHERE video_id IN (SELECT id FROM videos WHERE lesson_id = ?)`,
			`DELETE FROM videos WHERE lesson_id = ?`,
			`DELETE FROM lesson_progress WHERE lesson_id = ?`,
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&Lesson{}, "id = ?", id).Error; err != nil {
			return err
		}

		if lesson.Published {
			return course.AdjustTotalLessons(tx, lesson.CourseID, -1)
		}
		return nil
	})
}
