package analytics

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/video"
	"github.com/edulane/edulane-server-go/pkg/response"
)

// Handler processes video analytics HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs an analytics handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// GetForVideo returns daily analytics buckets for a video. Defaults to the
// trailing 30 days when no range is given.
func (h *Handler) GetForVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid video id", err)
		return
	}

	if _, err := video.Get(h.db, videoID); err != nil {
		if errors.Is(err, video.ErrVideoNotFound) {
			response.ErrorWithLog(h.logger, c, http.StatusNotFound, "Video not found.", err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load video", err)
		return
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "from must be YYYY-MM-DD", err)
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "to must be YYYY-MM-DD", err)
			return
		}
		to = parsed
	}

	buckets, err := GetForVideo(h.db, videoID, from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "from must not be after to", err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load analytics", err)
		return
	}

	response.Success(c, http.StatusOK, buckets, "", nil)
}
