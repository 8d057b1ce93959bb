package stream

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches stream session endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acUser, acInstructor []gin.HandlerFunc) {
	videos := router.Group("/videos/:videoId/streams")
	videos.POST("", append(acUser, handler.Start)...)
	videos.GET("/active", append(acInstructor, handler.ListActive)...)

	sessions := router.Group("/streams")
	sessions.GET("/:sessionId", append(acUser, handler.GetBySessionID)...)
	sessions.PUT("/:sessionId/position", append(acUser, handler.Heartbeat)...)
	sessions.POST("/:sessionId/end", append(acUser, handler.End)...)
}
