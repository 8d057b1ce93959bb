package lesson

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/internal/middleware"
	"github.com/edulane/edulane-server-go/pkg/request"
	"github.com/edulane/edulane-server-go/pkg/response"
)

// Handler processes lesson HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a lesson handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// ListByCourse returns all lessons for a course ordered by position.
// Students only see published lessons.
func (h *Handler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	crs, err := course.Get(h.db, courseID)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found.", err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load course", err)
		return
	}

	publishedOnly := true
	if usr, ok := middleware.GetUserFromContext(c); ok {
		if usr.IsStaff() || usr.ID == crs.InstructorID {
			publishedOnly = false
		}
	}

	lessons, err := GetByCourse(h.db, courseID, publishedOnly)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list lessons", err)
		return
	}

	response.Success(c, http.StatusOK, lessons, "", nil)
}

// GetByID fetches a single lesson.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	lesson, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "failed to load lesson")
		return
	}

	response.Success(c, http.StatusOK, lesson, "", nil)
}

// Create inserts a new lesson under a course owned by the caller.
func (h *Handler) Create(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	if !h.authorizeCourse(c, courseID) {
		return
	}

	var req struct {
		Title     string   `json:"title" binding:"required"`
		Content   *string  `json:"content"`
		VideoURL  *string  `json:"videoUrl"`
		Duration  *int     `json:"duration"`
		Order     *int     `json:"order"`
		IsFree    *bool    `json:"isFree"`
		Published *bool    `json:"isPublished"`
		Resources []string `json:"resources"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson payload", err)
		return
	}

	lesson, err := Create(h.db, CreateInput{
		CourseID:  courseID,
		Title:     req.Title,
		Content:   req.Content,
		VideoURL:  req.VideoURL,
		Duration:  req.Duration,
		Order:     req.Order,
		IsFree:    req.IsFree,
		Published: req.Published,
		Resources: req.Resources,
	})
	if err != nil {
		h.respondError(c, err, "failed to create lesson")
		return
	}

	response.Created(c, lesson, "")
}

// Update modifies an existing lesson.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	lesson, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "failed to load lesson")
		return
	}

	if !h.authorizeCourse(c, lesson.CourseID) {
		return
	}

	body := map[string]interface{}{}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson payload", err)
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

	if value, ok := body["content"]; ok {
		input.ContentProvided = true
		if value != nil {
			str, err := request.ReadString(value)
			if err != nil {
				response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "content must be a string", err)
				return
			}
			input.Content = &str
		}
	}

	if value, ok := body["videoUrl"]; ok {
		input.VideoURLProvided = true
		if value != nil {
			str, err := request.ReadString(value)
			if err != nil {
				response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "videoUrl must be a string", err)
				return
			}
			input.VideoURL = &str
		}
	}

	if value, ok := body["duration"]; ok {
		val, err := request.ReadInt(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "duration must be an integer", err)
			return
		}
		input.Duration = &val
	}

	if value, ok := body["order"]; ok {
		val, err := request.ReadInt(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "order must be an integer", err)
			return
		}
		input.Order = &val
	}

	if value, ok := body["isFree"]; ok {
		val, err := request.ReadBool(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "isFree must be boolean", err)
			return
		}
		input.IsFree = &val
	}

	if value, ok := body["isPublished"]; ok {
		val, err := request.ReadBool(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "isPublished must be boolean", err)
			return
		}
		input.Published = &val
	}

	if value, ok := body["isActive"]; ok {
		val, err := request.ReadBool(value)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "isActive must be boolean", err)
			return
		}
		input.Active = &val
	}

	if value, ok := body["resources"]; ok {
		input.ResourcesProvided = true
		if value != nil {
			raw, ok := value.([]interface{})
			if !ok {
				response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "resources must be an array of strings", nil)
				return
			}
			resources := make([]string, 0, len(raw))
			for _, item := range raw {
				str, err := request.ReadString(item)
				if err != nil {
					response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "resources must be an array of strings", err)
					return
				}
				resources = append(resources, str)
			}
			input.Resources = resources
		}
	}

	updated, err := Update(h.db, id, input)
	if err != nil {
		h.respondError(c, err, "failed to update lesson")
		return
	}

	response.Success(c, http.StatusOK, updated, "", nil)
}

// Delete removes a lesson and its dependent records.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	lesson, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "failed to load lesson")
		return
	}

	if !h.authorizeCourse(c, lesson.CourseID) {
		return
	}

	if err := Delete(h.db, id); err != nil {
		h.respondError(c, err, "failed to delete lesson")
		return
	}

	response.Success(c, http.StatusOK, true, "", nil)
}

// authorizeCourse verifies the caller owns the course or is staff. Writes the
// error response itself.
func (h *Handler) authorizeCourse(c *gin.Context, courseID uuid.UUID) bool {
	crs, err := course.Get(h.db, courseID)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Course not found.", err)
		} else {
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load course", err)
		}
		return false
	}

	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return false
	}

	if !usr.IsStaff() && usr.ID != crs.InstructorID {
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, "Course access denied.", nil)
		return false
	}

	return true
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrLessonNotFound):
		status = http.StatusNotFound
		message = "Lesson not found."
	case errors.Is(err, course.ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found."
	case errors.Is(err, ErrTitleRequired):
		status = http.StatusBadRequest
		message = "Title is required."
	case errors.Is(err, ErrInvalidOrder):
		status = http.StatusBadRequest
		message = "Order must be positive."
	case errors.Is(err, ErrOrderTaken):
		status = http.StatusConflict
		message = "Lesson order already exists for this course."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
