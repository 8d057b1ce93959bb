package video

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches video metadata endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acUser, acInstructor []gin.HandlerFunc) {
	lessons := router.Group("/lessons/:lessonId/video")
	lessons.GET("", append(acUser, handler.GetForLesson)...)
	lessons.POST("", append(acInstructor, handler.Create)...)

	videos := router.Group("/videos")
	videos.GET("/:videoId", append(acUser, handler.GetByID)...)
	videos.PUT("/:videoId", append(acInstructor, handler.Update)...)
	videos.PUT("/:videoId/status", append(acInstructor, handler.UpdateStatus)...)
	videos.DELETE("/:videoId", append(acInstructor, handler.Delete)...)
}
