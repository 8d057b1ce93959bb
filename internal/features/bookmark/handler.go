package bookmark

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/video"
	"github.com/edulane/edulane-server-go/internal/middleware"
	"github.com/edulane/edulane-server-go/pkg/response"
)

// Handler processes video bookmark HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a bookmark handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Create bookmarks a position in a video for the caller.
func (h *Handler) Create(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	var req struct {
		Timestamp int     `json:"timestamp"`
		Note      *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid bookmark payload", err)
		return
	}

	record, err := Create(h.db, usr.ID, videoID, req.Timestamp, req.Note)
	if err != nil {
		h.respondError(c, err, "failed to create bookmark")
		return
	}

	response.Created(c, record, "")
}

// List returns the caller's bookmarks on a video.
func (h *Handler) List(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	bookmarks, err := ListForUser(h.db, usr.ID, videoID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list bookmarks", err)
		return
	}

	response.Success(c, http.StatusOK, bookmarks, "", nil)
}

// Delete removes one of the caller's bookmarks.
func (h *Handler) Delete(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	bookmarkID, err := uuid.Parse(c.Param("bookmarkId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid bookmark id", err)
		return
	}

	if err := Delete(h.db, usr.ID, bookmarkID); err != nil {
		h.respondError(c, err, "failed to delete bookmark")
		return
	}

	response.Success(c, http.StatusOK, true, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrBookmarkNotFound):
		status = http.StatusNotFound
		message = "Bookmark not found."
	case errors.Is(err, video.ErrVideoNotFound):
		status = http.StatusNotFound
		message = "Video not found."
	case errors.Is(err, ErrAlreadyBookmarked):
		status = http.StatusConflict
		message = "Video is already bookmarked."
	case errors.Is(err, ErrNotBookmarkOwner):
		status = http.StatusForbidden
		message = "Bookmark access denied."
	case errors.Is(err, ErrNegativeTimestamp):
		status = http.StatusBadRequest
		message = "Timestamp must not be negative."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
