package course

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/middleware"
	"github.com/edulane/edulane-server-go/pkg/pagination"
	"github.com/edulane/edulane-server-go/pkg/request"
	"github.com/edulane/edulane-server-go/pkg/response"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// Handler processes catalog HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a catalog handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns paginated published courses. Instructors and admins can
// include unpublished courses with publishedOnly=false.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)

	filters := ListFilters{
		Keyword:       c.Query("filterKeyword"),
		PublishedOnly: true,
	}

	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid category id", err)
			return
		}
		filters.CategoryID = &id
	}

	if raw := c.Query("instructorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid instructor id", err)
			return
		}
		filters.InstructorID = &id
	}

	if raw := c.Query("level"); raw != "" {
		level := types.CourseLevel(raw)
		if !types.ValidCourseLevel(level) {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course level", nil)
			return
		}
		filters.Level = level
	}

	if c.Query("publishedOnly") == "false" {
		usr, ok := middleware.GetUserFromContext(c)
		if ok && (usr.IsStaff() || usr.UserType == types.UserTypeInstructor) {
			filters.PublishedOnly = false
		}
	}

	courses, total, err := List(h.db, filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list courses", err)
		return
	}

	response.Success(c, http.StatusOK, courses, "", pagination.MetadataFrom(total, params))
}

// ListFeatured returns the curated featured shelf.
func (h *Handler) ListFeatured(c *gin.Context) {
	params := pagination.Extract(c)

	courses, total, err := ListFeatured(h.db, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list featured courses", err)
		return
	}

	response.Success(c, http.StatusOK, courses, "", pagination.MetadataFrom(total, params))
}

// ListPopular returns published courses ordered by enrollment count.
func (h *Handler) ListPopular(c *gin.Context) {
	params := pagination.Extract(c)

	courses, total, err := ListPopular(h.db, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list popular courses", err)
		return
	}

	response.Success(c, http.StatusOK, courses, "", pagination.MetadataFrom(total, params))
}

// GetByID fetches a single course.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	course, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return
	}

	if !course.Published {
		usr, ok := middleware.GetUserFromContext(c)
		if !ok || (!usr.IsStaff() && usr.ID != course.InstructorID) {
			h.respondError(c, ErrCourseNotFound, "failed to load course")
			return
		}
	}

	response.Success(c, http.StatusOK, course, "", nil)
}

// Create inserts a new course owned by the calling instructor.
func (h *Handler) Create(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	var req struct {
		Title            string       `json:"title" binding:"required"`
		Description      string       `json:"description"`
		ShortDescription *string      `json:"shortDescription"`
		CategoryID       *uuid.UUID   `json:"categoryId"`
		Level            *string      `json:"level"`
		Duration         *int         `json:"duration"`
		IsFree           *bool        `json:"isFree"`
		Price            *types.Money `json:"price"`
		Keywords         []string     `json:"keywords"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	input := CreateInput{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		InstructorID:     usr.ID,
		CategoryID:       req.CategoryID,
		Duration:         req.Duration,
		IsFree:           req.IsFree,
		Price:            req.Price,
		Keywords:         req.Keywords,
	}
	if req.Level != nil {
		level := types.CourseLevel(*req.Level)
		input.Level = &level
	}

	course, err := Create(h.db, input)
	if err != nil {
		h.respondError(c, err, "failed to create course")
		return
	}

	response.Created(c, course, "")
}

// Update modifies an existing course owned by the caller.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	if _, err := h.loadOwned(c, id); err != nil {
		return
	}

	body := map[string]interface{}{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course payload", err)
		return
	}

	input := UpdateInput{}

	if value, ok := body["title"]; ok {
		str, err := request.ReadString(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "title must be a string", err)
			return
		}
		input.Title = &str
	}

	if value, ok := body["description"]; ok {
		str, err := request.ReadString(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "description must be a string", err)
			return
		}
		input.Description = &str
	}

	if value, ok := body["shortDescription"]; ok {
		input.ShortDescProvided = true
		if value != nil {
			str, err := request.ReadString(value)
			if err != nil {
				response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "shortDescription must be a string", err)
				return
			}
			input.ShortDescription = &str
		}
	}

	if value, ok := body["categoryId"]; ok {
		input.CategoryProvided = true
		if value != nil {
			str, err := request.ReadString(value)
			if err != nil {
				response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "categoryId must be a string", err)
				return
			}
			categoryID, err := uuid.Parse(str)
			if err != nil {
				response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid category id", err)
				return
			}
			input.CategoryID = &categoryID
		}
	}

	if value, ok := body["level"]; ok {
		str, err := request.ReadString(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "level must be a string", err)
			return
		}
		level := types.CourseLevel(str)
		input.Level = &level
	}

	if value, ok := body["duration"]; ok {
		val, err := request.ReadInt(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "duration must be an integer", err)
			return
		}
		input.Duration = &val
	}

	if value, ok := body["isFree"]; ok {
		val, err := request.ReadBool(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "isFree must be boolean", err)
			return
		}
		input.IsFree = &val
	}

	if value, ok := body["price"]; ok {
		val, err := request.ReadFloat(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "price must be a number", err)
			return
		}
		price := types.NewMoney(val)
		input.Price = &price
	}

	if value, ok := body["isActive"]; ok {
		val, err := request.ReadBool(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "isActive must be boolean", err)
			return
		}
		input.Active = &val
	}

	if value, ok := body["isFeatured"]; ok {
		// Featuring is curation, not ownership; instructors cannot self-feature.
		usr, found := middleware.GetUserFromContext(c)
		if !found || !usr.IsStaff() {
			response.ErrorWithLog(h.logger, c, http.StatusForbidden, "Only staff can feature courses.", nil)
			return
		}
		val, err := request.ReadBool(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "isFeatured must be boolean", err)
			return
		}
		input.Featured = &val
	}

	if value, ok := body["keywords"]; ok {
		input.KeywordsProvided = true
		if value != nil {
			raw, ok := value.([]interface{})
			if !ok {
				response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "keywords must be an array of strings", nil)
				return
			}
			keywords := make([]string, 0, len(raw))
			for _, item := range raw {
				str, err := request.ReadString(item)
				if err != nil {
					response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "keywords must be an array of strings", err)
					return
				}
				keywords = append(keywords, str)
			}
			input.Keywords = keywords
		}
	}

	updated, err := Update(h.db, id, input)
	if err != nil {
		h.respondError(c, err, "failed to update course")
		return
	}

	response.Success(c, http.StatusOK, updated, "", nil)
}

// Publish makes a course visible in the student-facing catalog.
func (h *Handler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	if _, err := h.loadOwned(c, id); err != nil {
		return
	}

	course, err := Publish(h.db, id, time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "failed to publish course")
		return
	}

	response.Success(c, http.StatusOK, course, "Course published.", nil)
}

// Delete removes a course and all of its dependent records.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	if _, err := h.loadOwned(c, id); err != nil {
		return
	}

	if err := Delete(h.db, id); err != nil {
		h.respondError(c, err, "failed to delete course")
		return
	}

	response.Success(c, http.StatusOK, true, "", nil)
}

// ListCategories returns all active categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := ListCategories(h.db)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list categories", err)
		return
	}

	response.Success(c, http.StatusOK, categories, "", nil)
}

// CreateCategory inserts a new category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid category payload", err)
		return
	}

	category, err := CreateCategory(h.db, req.Name, req.Description)
	if err != nil {
		h.respondError(c, err, "failed to create category")
		return
	}

	response.Created(c, category, "")
}

// loadOwned loads a course and verifies the caller owns it or is staff.
// Writes the error response itself; callers just return on error.
func (h *Handler) loadOwned(c *gin.Context, id uuid.UUID) (Course, error) {
	course, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "failed to load course")
		return course, err
	}

	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return course, ErrNotOwner
	}

	if !usr.IsStaff() && usr.ID != course.InstructorID {
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, "Course access denied.", nil)
		return course, ErrNotOwner
	}

	return course, nil
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found."
	case errors.Is(err, ErrCategoryNotFound):
		status = http.StatusNotFound
		message = "Category not found."
	case errors.Is(err, ErrTitleRequired):
		status = http.StatusBadRequest
		message = "Title is required."
	case errors.Is(err, ErrCategoryNameTaken):
		status = http.StatusConflict
		message = "Category name already exists."
	case errors.Is(err, ErrInvalidLevel):
		status = http.StatusBadRequest
		message = "Invalid course level."
	case errors.Is(err, ErrInvalidPrice):
		status = http.StatusBadRequest
		message = "Price must not be negative."
	case errors.Is(err, ErrActiveEnrollments):
		status = http.StatusConflict
		message = "Course has active enrollments."
	case errors.Is(err, ErrAlreadyPublished):
		status = http.StatusConflict
		message = "Course is already published."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
