package progress

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches lesson progress endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acUser []gin.HandlerFunc) {
	lessons := router.Group("/lessons/:lessonId/progress")
	lessons.GET("", append(acUser, handler.GetLessonProgress)...)
	lessons.POST("/watch", append(acUser, handler.RecordWatchTime)...)
	lessons.POST("/complete", append(acUser, handler.CompleteLesson)...)

	courses := router.Group("/courses/:courseId/progress")
	courses.GET("", append(acUser, handler.GetCourseProgress)...)
}
