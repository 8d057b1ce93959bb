package bookmark

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches bookmark endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acUser []gin.HandlerFunc) {
	videos := router.Group("/videos/:videoId/bookmarks")
	videos.GET("", append(acUser, handler.List)...)
	videos.POST("", append(acUser, handler.Create)...)

	bookmarks := router.Group("/bookmarks")
	bookmarks.DELETE("/:bookmarkId", append(acUser, handler.Delete)...)
}
