package progress

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/enrollment"
	"github.com/edulane/edulane-server-go/internal/features/lesson"
	"github.com/edulane/edulane-server-go/internal/middleware"
	"github.com/edulane/edulane-server-go/pkg/response"
)

// Handler processes lesson progress HTTP requests.
type Handler struct {
	db        *gorm.DB
	logger    *slog.Logger
	threshold float64
}

// NewHandler constructs a progress handler. The threshold is the fraction of
// lesson duration that must be watched for auto-completion.
func NewHandler(db *gorm.DB, logger *slog.Logger, threshold float64) *Handler {
	return &Handler{db: db, logger: logger, threshold: threshold}
}

// RecordWatchTime accumulates watch seconds against a lesson for the caller.
func (h *Handler) RecordWatchTime(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	lessonID, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	var req struct {
		WatchTime int `json:"watchTime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid progress payload", err)
		return
	}

	record, err := MarkWatched(h.db, h.threshold, usr.ID, lessonID, req.WatchTime)
	if err != nil {
		h.respondError(c, err, "failed to record watch time")
		return
	}

	response.Success(c, http.StatusOK, record, "", nil)
}

// CompleteLesson explicitly marks a lesson as done for the caller.
func (h *Handler) CompleteLesson(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	lessonID, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	record, err := Complete(h.db, usr.ID, lessonID)
	if err != nil {
		h.respondError(c, err, "failed to complete lesson")
		return
	}

	response.Success(c, http.StatusOK, record, "Lesson completed.", nil)
}

// GetLessonProgress returns the caller's progress on one lesson.
func (h *Handler) GetLessonProgress(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	lessonID, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	record, err := Get(h.db, usr.ID, lessonID)
	if err != nil {
		h.respondError(c, err, "failed to load progress")
		return
	}

	response.Success(c, http.StatusOK, record, "", nil)
}

// GetCourseProgress returns the caller's per-lesson progress for a course.
func (h *Handler) GetCourseProgress(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	records, err := ListForCourse(h.db, usr.ID, courseID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load course progress", err)
		return
	}

	response.Success(c, http.StatusOK, records, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrProgressNotFound):
		status = http.StatusNotFound
		message = "Progress not found."
	case errors.Is(err, lesson.ErrLessonNotFound):
		status = http.StatusNotFound
		message = "Lesson not found."
	case errors.Is(err, enrollment.ErrNotEnrolled):
		status = http.StatusForbidden
		message = "Not enrolled in this course."
	case errors.Is(err, ErrNegativeWatchTime):
		status = http.StatusBadRequest
		message = "Watch time must not be negative."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
