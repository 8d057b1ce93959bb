package rating

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/internal/middleware"
	"github.com/edulane/edulane-server-go/pkg/pagination"
	"github.com/edulane/edulane-server-go/pkg/response"
)

// Handler processes course rating HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a rating handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Rate creates or replaces the caller's rating for a course.
func (h *Handler) Rate(c *gin.Context) {
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

	var req struct {
		Rating int     `json:"rating" binding:"required"`
		Review *string `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid rating payload", err)
		return
	}

	record, err := Rate(h.db, usr.ID, courseID, req.Rating, req.Review)
	if err != nil {
		h.respondError(c, err, "failed to rate course")
		return
	}

	response.Success(c, http.StatusOK, record, "", nil)
}

// Delete removes the caller's rating.
func (h *Handler) Delete(c *gin.Context) {
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

	if err := Delete(h.db, usr.ID, courseID); err != nil {
		h.respondError(c, err, "failed to delete rating")
		return
	}

	response.Success(c, http.StatusOK, true, "", nil)
}

// GetMine returns the caller's rating for a course.
func (h *Handler) GetMine(c *gin.Context) {
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

	record, err := Get(h.db, usr.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load rating")
		return
	}

	response.Success(c, http.StatusOK, record, "", nil)
}

// ListForCourse returns paginated ratings for a course.
func (h *Handler) ListForCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid course id", err)
		return
	}

	params := pagination.Extract(c)

	ratings, total, err := ListForCourse(h.db, courseID, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list ratings", err)
		return
	}

	response.Success(c, http.StatusOK, ratings, "", pagination.MetadataFrom(total, params))
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrRatingNotFound):
		status = http.StatusNotFound
		message = "Rating not found."
	case errors.Is(err, course.ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found."
	case errors.Is(err, ErrRatingRange):
		status = http.StatusBadRequest
		message = "Rating must be between 1 and 5."
	case errors.Is(err, ErrRatingConflict):
		status = http.StatusConflict
		message = "Rating was modified concurrently. Retry."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
