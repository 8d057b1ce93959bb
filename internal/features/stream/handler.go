package stream

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/analytics"
	"github.com/edulane/edulane-server-go/internal/features/video"
	"github.com/edulane/edulane-server-go/internal/middleware"
	"github.com/edulane/edulane-server-go/pkg/metrics"
	"github.com/edulane/edulane-server-go/pkg/response"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// Handler processes stream session HTTP requests.
type Handler struct {
	db        *gorm.DB
	logger    *slog.Logger
	analytics *analytics.Service
}

// NewHandler constructs a stream handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, analyticsService *analytics.Service) *Handler {
	return &Handler{db: db, logger: logger, analytics: analyticsService}
}

// Start opens a viewing session for the caller.
func (h *Handler) Start(c *gin.Context) {
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
		Quality *string `json:"quality"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid session payload", err)
			return
		}
	}

	input := StartInput{
		UserID:  usr.ID,
		VideoID: videoID,
	}
	if req.Quality != nil {
		input.Quality = types.StreamQuality(*req.Quality)
	}
	if agent := c.Request.UserAgent(); agent != "" {
		input.UserAgent = &agent
	}
	if ip := c.ClientIP(); ip != "" {
		input.IPAddress = &ip
	}

	session, err := Start(h.db, input)
	if err != nil {
		h.respondError(c, err, "failed to start stream session")
		return
	}

	response.Created(c, session, "")
}

// Heartbeat records playback position and accumulated watch time.
func (h *Handler) Heartbeat(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	sessionID := c.Param("sessionId")

	var req struct {
		Position  int `json:"position"`
		WatchTime int `json:"watchTime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid heartbeat payload", err)
		return
	}

	session, err := UpdatePosition(h.db, usr.ID, sessionID, req.Position, req.WatchTime)
	if err != nil {
		h.respondError(c, err, "failed to update stream session")
		return
	}

	response.Success(c, http.StatusOK, session, "", nil)
}

// End closes the caller's session and folds it into the daily analytics
// bucket in the same transaction. Ending twice is a no-op.
func (h *Handler) End(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	sessionID := c.Param("sessionId")

	var session VideoStream
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = GetBySessionID(tx, sessionID)
		if err != nil {
			return err
		}
		if session.UserID != usr.ID {
			return ErrNotSessionOwner
		}

		now := time.Now().UTC()
		if !session.End(now) {
			return nil
		}

		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		return h.analytics.RecordSessionEnd(c.Request.Context(), tx, session.VideoID, session.UserID, session.TotalWatchTime, now)
	})
	if err != nil {
		h.respondError(c, err, "failed to end stream session")
		return
	}

	metrics.RecordStreamSession("ended")
	response.Success(c, http.StatusOK, session, "", nil)
}

// GetBySessionID returns the caller's session.
func (h *Handler) GetBySessionID(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	session, err := GetBySessionID(h.db, c.Param("sessionId"))
	if err != nil {
		h.respondError(c, err, "failed to load stream session")
		return
	}

	if session.UserID != usr.ID && !usr.IsStaff() {
		h.respondError(c, ErrNotSessionOwner, "failed to load stream session")
		return
	}

	response.Success(c, http.StatusOK, session, "", nil)
}

// ListActive returns open sessions for a video.
func (h *Handler) ListActive(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	sessions, err := ListActiveForVideo(h.db, videoID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list stream sessions", err)
		return
	}

	response.Success(c, http.StatusOK, sessions, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
		message = "Stream session not found."
	case errors.Is(err, video.ErrVideoNotFound):
		status = http.StatusNotFound
		message = "Video not found."
	case errors.Is(err, ErrActiveSessionExists):
		status = http.StatusConflict
		message = "An active session already exists for this video."
	case errors.Is(err, ErrSessionEnded):
		status = http.StatusConflict
		message = "Stream session has already ended."
	case errors.Is(err, ErrNotSessionOwner):
		status = http.StatusForbidden
		message = "Stream session access denied."
	case errors.Is(err, ErrNegativePosition):
		status = http.StatusBadRequest
		message = "Position and watch time must not be negative."
	case errors.Is(err, ErrInvalidQuality):
		status = http.StatusBadRequest
		message = "Invalid stream quality."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
