package course

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/pkg/pagination"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// Category groups courses in the catalog.
type Category struct {
	types.BaseModel

	Name        string  `gorm:"type:varchar(100);not null;unique" json:"name"`
	Slug        string  `gorm:"type:varchar(100);not null;unique" json:"slug"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Active      bool    `gorm:"type:boolean;not null;default:true;column:is_active" json:"isActive"`
}

// TableName overrides the default table name.
func (Category) TableName() string { return "categories" }

// Course represents a course in the catalog, owned by an instructor.
type Course struct {
	types.BaseModel

	Title            string            `gorm:"type:varchar(200);not null" json:"title"`
	Slug             string            `gorm:"type:varchar(200);not null;unique" json:"slug"`
	Description      string            `gorm:"type:text;not null" json:"description"`
	ShortDescription *string           `gorm:"type:varchar(300)" json:"shortDescription,omitempty"`
	InstructorID     uuid.UUID         `gorm:"type:uuid;not null;column:instructor_id;index" json:"instructorId"`
	CategoryID       *uuid.UUID        `gorm:"type:uuid;column:category_id;index" json:"categoryId,omitempty"`
	Level            types.CourseLevel `gorm:"type:varchar(20);not null;default:'beginner'" json:"level"`
	Duration         int               `gorm:"type:int;not null;default:0" json:"duration"` // minutes
	TotalLessons     int               `gorm:"type:int;not null;default:0;column:total_lessons" json:"totalLessons"`
	IsFree           bool              `gorm:"type:boolean;not null;default:false;column:is_free" json:"isFree"`
	Price            types.Money       `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	Published        bool              `gorm:"type:boolean;not null;default:false;column:is_published" json:"isPublished"`
	Active           bool              `gorm:"type:boolean;not null;default:true;column:is_active" json:"isActive"`
	Featured         bool              `gorm:"type:boolean;not null;default:false;column:is_featured" json:"isFeatured"`
	Keywords         pq.StringArray    `gorm:"type:text[]" json:"keywords,omitempty"`

	// Denormalized statistics; mutated only inside the transactions that
	// change the authoritative rows (enrollments, ratings).
	EnrolledStudents int   `gorm:"type:int;not null;default:0;column:enrolled_students" json:"enrolledStudents"`
	RatingSum        int64 `gorm:"type:bigint;not null;default:0;column:rating_sum" json:"-"`
	TotalRatings     int   `gorm:"type:int;not null;default:0;column:total_ratings" json:"totalRatings"`

	AverageRating float64 `gorm:"-" json:"averageRating"`

	PublishedAt *time.Time `gorm:"column:published_at" json:"publishedAt,omitempty"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// AfterFind derives the average rating from the running sum.
func (c *Course) AfterFind(tx *gorm.DB) error {
	c.AverageRating = AverageRating(c.RatingSum, c.TotalRatings)
	return nil
}

// AverageRating derives a course average from the rating running sum and count.
func AverageRating(sum int64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// Slugify converts a title into a URL-safe slug.
func Slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ListFilters defines course query filters.
type ListFilters struct {
	Keyword       string
	CategoryID    *uuid.UUID
	InstructorID  *uuid.UUID
	Level         types.CourseLevel
	PublishedOnly bool
}

// List retrieves paginated courses with filters.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]Course, int64, error) {
	query := db.Model(&Course{}).Where("is_active = ?", true)

	if filters.Keyword != "" {
		keyword := "%" + strings.ToLower(filters.Keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", keyword, keyword)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.Level != "" {
		query = query.Where("level = ?", filters.Level)
	}
	if filters.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []Course
	err := query.
		Order("created_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&courses).Error

	return courses, total, err
}

// ListFeatured retrieves published courses curated onto the featured shelf.
func ListFeatured(db *gorm.DB, params pagination.Params) ([]Course, int64, error) {
	query := db.Model(&Course{}).
		Where("is_active = ? AND is_published = ? AND is_featured = ?", true, true, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []Course
	err := query.
		Order("published_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&courses).Error

	return courses, total, err
}

// ListPopular retrieves published courses ranked by enrollment count.
func ListPopular(db *gorm.DB, params pagination.Params) ([]Course, int64, error) {
	query := db.Model(&Course{}).
		Where("is_active = ? AND is_published = ?", true, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []Course
	err := query.
		Order("enrolled_students DESC, created_at DESC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&courses).Error

	return courses, total, err
}

// Get retrieves a course by ID.
func Get(db *gorm.DB, id uuid.UUID) (Course, error) {
	var course Course
	if err := db.First(&course, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return course, ErrCourseNotFound
		}
		return course, err
	}
	return course, nil
}

// GetBySlug retrieves a course by slug.
func GetBySlug(db *gorm.DB, slug string) (Course, error) {
	var course Course
	if err := db.First(&course, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return course, ErrCourseNotFound
		}
		return course, err
	}
	return course, nil
}

// CreateInput carries data for creating a new course.
type CreateInput struct {
	Title            string
	Description      string
	ShortDescription *string
	InstructorID     uuid.UUID
	CategoryID       *uuid.UUID
	Level            *types.CourseLevel
	Duration         *int
	IsFree           *bool
	Price            *types.Money
	Keywords         []string
}

// Create inserts a new course owned by the instructor.
func Create(db *gorm.DB, input CreateInput) (Course, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Course{}, ErrTitleRequired
	}

	level := types.CourseLevelBeginner
	if input.Level != nil {
		if !types.ValidCourseLevel(*input.Level) {
			return Course{}, ErrInvalidLevel
		}
		level = *input.Level
	}

	if input.CategoryID != nil {
		var count int64
		if err := db.Model(&Category{}).Where("id = ?", *input.CategoryID).Count(&count).Error; err != nil {
			return Course{}, err
		}
		if count == 0 {
			return Course{}, ErrCategoryNotFound
		}
	}

	course := Course{
		Title:        title,
		Slug:         uniqueSlug(db, title),
		Description:  strings.TrimSpace(input.Description),
		InstructorID: input.InstructorID,
		CategoryID:   input.CategoryID,
		Level:        level,
		Active:       true,
		Keywords:     pq.StringArray(input.Keywords),
	}
	course.ShortDescription = input.ShortDescription

	if input.Duration != nil && *input.Duration > 0 {
		course.Duration = *input.Duration
	}
	if input.IsFree != nil {
		course.IsFree = *input.IsFree
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return Course{}, ErrInvalidPrice
		}
		course.Price = *input.Price
	}

	if err := db.Create(&course).Error; err != nil {
		return Course{}, err
	}

	return course, nil
}

// UpdateInput captures mutable course fields.
type UpdateInput struct {
	Title             *string
	Description       *string
	ShortDescProvided bool
	ShortDescription  *string
	CategoryProvided  bool
	CategoryID        *uuid.UUID
	Level             *types.CourseLevel
	Duration          *int
	IsFree            *bool
	Price             *types.Money
	Active            *bool
	Featured          *bool
	KeywordsProvided  bool
	Keywords          []string
}

// Update modifies an existing course.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (Course, error) {
	course, err := Get(db, id)
	if err != nil {
		return course, err
	}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return course, ErrTitleRequired
		}
		course.Title = trimmed
	}

	if input.Description != nil {
		course.Description = strings.TrimSpace(*input.Description)
	}

	if input.ShortDescProvided {
		course.ShortDescription = input.ShortDescription
	}

	if input.CategoryProvided {
		if input.CategoryID != nil {
			var count int64
			if err := db.Model(&Category{}).Where("id = ?", *input.CategoryID).Count(&count).Error; err != nil {
				return course, err
			}
			if count == 0 {
				return course, ErrCategoryNotFound
			}
		}
		course.CategoryID = input.CategoryID
	}

	if input.Level != nil {
		if !types.ValidCourseLevel(*input.Level) {
			return course, ErrInvalidLevel
		}
		course.Level = *input.Level
	}

	if input.Duration != nil && *input.Duration >= 0 {
		course.Duration = *input.Duration
	}

	if input.IsFree != nil {
		course.IsFree = *input.IsFree
	}

	if input.Price != nil {
		if input.Price.IsNegative() {
			return course, ErrInvalidPrice
		}
		course.Price = *input.Price
	}

	if input.Active != nil {
		course.Active = *input.Active
	}

	if input.Featured != nil {
		course.Featured = *input.Featured
	}

	if input.KeywordsProvided {
		course.Keywords = pq.StringArray(input.Keywords)
	}

	if err := db.Save(&course).Error; err != nil {
		return course, err
	}

	return course, nil
}

// Publish marks a course visible to students.
func Publish(db *gorm.DB, id uuid.UUID, now time.Time) (Course, error) {
	course, err := Get(db, id)
	if err != nil {
		return course, err
	}

	if course.Published {
		return course, ErrAlreadyPublished
	}

	course.Published = true
	course.PublishedAt = &now

	if err := db.Save(&course).Error; err != nil {
		return course, err
	}

	return course, nil
}

// Delete removes a course and everything hanging off it: lessons, their
// videos with stream sessions and analytics, lesson progress, enrollments,
// ratings, and certificates. Refused while active enrollments remain.
func Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		var active int64
		if err := tx.Table("course_enrollments").
			Where("course_id = ? AND is_active = ?", id, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveEnrollments
		}

		statements := []string{
			`DELETE FROM video_analytics WHERE video_id IN (
				SELECT v.id FROM videos v JOIN lessons l ON l.id = v.lesson_id WHERE l.course_id = ?)`,
			`DELETE FROM video_bookmarks WHERE video_id IN (
				SELECT v.id FROM videos v JOIN lessons l ON l.id = v.lesson_id WHERE l.course_id = ?)`,
			`DELETE FROM video_streams WHERE video_id IN (
				SELECT v.id FROM videos v JOIN lessons l ON l.id = v.lesson_id WHERE l.course_id = ?)`,
			`DELETE FROM videos WHERE lesson_id IN (SELECT id FROM lessons WHERE course_id = ?)`,
			`DELETE FROM lesson_progress WHERE lesson_id IN (SELECT id FROM lessons WHERE course_id = ?)`,
			`DELETE FROM course_certificates WHERE course_id = ?`,
			`DELETE FROM course_ratings WHERE course_id = ?`,
			`DELETE FROM course_enrollments WHERE course_id = ?`,
			`DELETE FROM lessons WHERE course_id = ?`,
		}

		for _, stmt := range statements {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&Course{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}

// AdjustEnrolledStudents shifts the denormalized enrollment counter, floored at zero.
func AdjustEnrolledStudents(db *gorm.DB, id uuid.UUID, delta int) error {
	return db.Model(&Course{}).
		Where("id = ?", id).
		UpdateColumn("enrolled_students", gorm.Expr("GREATEST(enrolled_students + ?, 0)", delta)).Error
}

// ApplyRatingDelta shifts the rating running sum and count together.
func ApplyRatingDelta(db *gorm.DB, id uuid.UUID, sumDelta int64, countDelta int) error {
	return db.Model(&Course{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"rating_sum":    gorm.Expr("rating_sum + ?", sumDelta),
			"total_ratings": gorm.Expr("GREATEST(total_ratings + ?, 0)", countDelta),
		}).Error
}

// AdjustTotalLessons shifts the denormalized lesson counter, floored at zero.
func AdjustTotalLessons(db *gorm.DB, id uuid.UUID, delta int) error {
	return db.Model(&Course{}).
		Where("id = ?", id).
		UpdateColumn("total_lessons", gorm.Expr("GREATEST(total_lessons + ?, 0)", delta)).Error
}

// ListCategories returns active categories ordered by name.
func ListCategories(db *gorm.DB) ([]Category, error) {
	var categories []Category
	err := db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error
	return categories, err
}

// CreateCategory inserts a new category with a slug derived from the name.
func CreateCategory(db *gorm.DB, name string, description *string) (Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Category{}, ErrTitleRequired
	}

	var count int64
	if err := db.Model(&Category{}).Where("LOWER(name) = ?", strings.ToLower(trimmed)).Count(&count).Error; err != nil {
		return Category{}, err
	}
	if count > 0 {
		return Category{}, ErrCategoryNameTaken
	}

	category := Category{
		Name:        trimmed,
		Slug:        Slugify(trimmed),
		Description: description,
		Active:      true,
	}

	if err := db.Create(&category).Error; err != nil {
		return Category{}, err
	}

	return category, nil
}

// uniqueSlug derives a slug from the title, suffixing a counter on collision.
func uniqueSlug(db *gorm.DB, title string) string {
	base := Slugify(title)
	if base == "" {
		base = "course"
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := db.Model(&Course{}).Where("slug = ?", slug).Count(&count).Error; err != nil || count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
