package video

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/lesson"
	"github.com/edulane/edulane-server-go/pkg/response"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// Handler processes video metadata HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a video handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// GetByID fetches a single video.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	v, err := Get(h.db, id)
	if err != nil {
		h.respondError(c, err, "failed to load video")
		return
	}

	response.Success(c, http.StatusOK, v, "", nil)
}

// GetForLesson fetches the video attached to a lesson.
func (h *Handler) GetForLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	v, err := GetForLesson(h.db, lessonID)
	if err != nil {
		h.respondError(c, err, "failed to load video")
		return
	}

	response.Success(c, http.StatusOK, v, "", nil)
}

// Create attaches a video to a lesson.
func (h *Handler) Create(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lessonId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lesson id", err)
		return
	}

	var req struct {
		Title         string  `json:"title" binding:"required"`
		Duration      *int    `json:"duration"`
		FileSize      *int64  `json:"fileSize"`
		Resolution    *string `json:"resolution"`
		Format        *string `json:"format"`
		Public        *bool   `json:"isPublic"`
		AllowDownload *bool   `json:"allowDownload"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video payload", err)
		return
	}

	v, err := Create(h.db, CreateInput{
		LessonID:      lessonID,
		Title:         req.Title,
		Duration:      req.Duration,
		FileSize:      req.FileSize,
		Resolution:    req.Resolution,
		Format:        req.Format,
		Public:        req.Public,
		AllowDownload: req.AllowDownload,
	})
	if err != nil {
		h.respondError(c, err, "failed to create video")
		return
	}

	response.Created(c, v, "")
}

// Update modifies video metadata.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	var req struct {
		Title         *string `json:"title"`
		Duration      *int    `json:"duration"`
		FileSize      *int64  `json:"fileSize"`
		Resolution    *string `json:"resolution"`
		Format        *string `json:"format"`
		Public        *bool   `json:"isPublic"`
		AllowDownload *bool   `json:"allowDownload"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video payload", err)
		return
	}

	v, err := Update(h.db, id, UpdateInput{
		Title:         req.Title,
		Duration:      req.Duration,
		FileSize:      req.FileSize,
		Resolution:    req.Resolution,
		Format:        req.Format,
		Public:        req.Public,
		AllowDownload: req.AllowDownload,
	})
	if err != nil {
		h.respondError(c, err, "failed to update video")
		return
	}

	response.Success(c, http.StatusOK, v, "", nil)
}

// UpdateStatus reports a processing pipeline transition.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	var req struct {
		Status          string  `json:"status" binding:"required"`
		ProcessingError *string `json:"processingError"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid status payload", err)
		return
	}

	v, err := UpdateStatus(h.db, id, types.ProcessingStatus(req.Status), req.ProcessingError, time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "failed to update video status")
		return
	}

	response.Success(c, http.StatusOK, v, "", nil)
}

// Delete removes a video and its dependent records.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	if err := Delete(h.db, id); err != nil {
		h.respondError(c, err, "failed to delete video")
		return
	}

	response.Success(c, http.StatusOK, true, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrVideoNotFound):
		status = http.StatusNotFound
		message = "Video not found."
	case errors.Is(err, lesson.ErrLessonNotFound):
		status = http.StatusNotFound
		message = "Lesson not found."
	case errors.Is(err, ErrLessonHasVideo):
		status = http.StatusConflict
		message = "Lesson already has a video."
	case errors.Is(err, ErrInvalidStatus):
		status = http.StatusBadRequest
		message = "Invalid processing status."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
