package enrollment

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

// Handler processes enrollment HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs an enrollment handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Enroll registers the calling student in a course.
func (h *Handler) Enroll(c *gin.Context) {
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

	enrollment, err := Enroll(h.db, usr.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to enroll")
		return
	}

	h.logger.Info("student enrolled", "studentId", usr.ID, "courseId", courseID)
	response.Created(c, enrollment, "Enrolled.")
}

// Unenroll deactivates the caller's enrollment. Progress is kept so a later
// re-enrollment resumes where the student left off.
func (h *Handler) Unenroll(c *gin.Context) {
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

	if err := Unenroll(h.db, usr.ID, courseID); err != nil {
		h.respondError(c, err, "failed to unenroll")
		return
	}

	h.logger.Info("student unenrolled", "studentId", usr.ID, "courseId", courseID)
	response.Success(c, http.StatusOK, true, "Unenrolled.", nil)
}

// ListMine returns the caller's enrollments.
func (h *Handler) ListMine(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	params := pagination.Extract(c)
	activeOnly := c.Query("activeOnly") != "false"

	enrollments, total, err := ListForStudent(h.db, usr.ID, activeOnly, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list enrollments", err)
		return
	}

	response.Success(c, http.StatusOK, enrollments, "", pagination.MetadataFrom(total, params))
}

// GetMine returns the caller's enrollment in a specific course.
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

	enrollment, err := Get(h.db, usr.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load enrollment")
		return
	}

	response.Success(c, http.StatusOK, enrollment, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrEnrollmentNotFound):
		status = http.StatusNotFound
		message = "Enrollment not found."
	case errors.Is(err, course.ErrCourseNotFound):
		status = http.StatusNotFound
		message = "Course not found."
	case errors.Is(err, ErrCourseNotPublished):
		status = http.StatusConflict
		message = "Course is not open for enrollment."
	case errors.Is(err, ErrAlreadyEnrolled):
		status = http.StatusConflict
		message = "Already enrolled in this course."
	case errors.Is(err, ErrNotEnrolled):
		status = http.StatusNotFound
		message = "Not enrolled in this course."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
