package certificate

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/middleware"
	"github.com/edulane/edulane-server-go/pkg/memory"
	"github.com/edulane/edulane-server-go/pkg/response"
)

// Handler processes certificate HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger

	// Issued certificates are immutable, so verification lookups are safe
	// to cache briefly against scraping bursts.
	verifyCache *memory.Cache
}

// NewHandler constructs a certificate handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{
		db:          db,
		logger:      logger,
		verifyCache: memory.New(5 * time.Minute),
	}
}

// Verify looks up a certificate by its public number. Anonymous access is
// intentional so third parties can check authenticity.
func (h *Handler) Verify(c *gin.Context) {
	number := strings.ToUpper(strings.TrimSpace(c.Param("certificateNumber")))
	if number == "" {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "certificate number is required", nil)
		return
	}

	cached, err := h.verifyCache.GetOrSet(number, func() (interface{}, error) {
		return GetByNumber(h.db, number)
	})
	if err != nil {
		h.respondError(c, err, "failed to verify certificate")
		return
	}

	response.Success(c, http.StatusOK, cached, "", nil)
}

// ListMine returns all certificates issued to the calling student.
func (h *Handler) ListMine(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	certs, err := ListForStudent(h.db, usr.ID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list certificates", err)
		return
	}

	response.Success(c, http.StatusOK, certs, "", nil)
}

// GetForCourse returns the caller's certificate for a course.
func (h *Handler) GetForCourse(c *gin.Context) {
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

	cert, err := GetForStudentCourse(h.db, usr.ID, courseID)
	if err != nil {
		h.respondError(c, err, "failed to load certificate")
		return
	}

	response.Success(c, http.StatusOK, cert, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrCertificateNotFound):
		status = http.StatusNotFound
		message = "Certificate not found."
	case errors.Is(err, ErrNotCompleted):
		status = http.StatusPreconditionFailed
		message = "Course is not completed."
	case errors.Is(err, ErrAlreadyIssued):
		status = http.StatusConflict
		message = "Certificate already issued."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
