package lesson

import (
	"github.com/gin-gonic/gin"

	"github.com/edulane/edulane-server-go/internal/middleware"
)

// RegisterRoutes attaches lesson endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acInstructor []gin.HandlerFunc) {
	courseLessons := router.Group("/courses/:courseId/lessons")
	courseLessons.GET("", middleware.AuthenticateOptional(), handler.ListByCourse)
	courseLessons.POST("", append(acInstructor, handler.Create)...)

	lessons := router.Group("/lessons")
	lessons.GET("/:lessonId", middleware.AuthenticateOptional(), handler.GetByID)
	lessons.PUT("/:lessonId", append(acInstructor, handler.Update)...)
	lessons.DELETE("/:lessonId", append(acInstructor, handler.Delete)...)
}
