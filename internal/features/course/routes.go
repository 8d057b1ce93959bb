package course

import (
	"github.com/gin-gonic/gin"

	"github.com/edulane/edulane-server-go/internal/middleware"
)

// RegisterRoutes attaches catalog endpoints to the router. Reads are public
// but honor an optional bearer token so instructors see unpublished courses.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acInstructor, acAdmin []gin.HandlerFunc) {
	categories := router.Group("/categories")
	categories.GET("", handler.ListCategories)
	categories.POST("", append(acAdmin, handler.CreateCategory)...)

	courses := router.Group("/courses")
	courses.GET("", middleware.AuthenticateOptional(), handler.List)
	courses.GET("/featured", handler.ListFeatured)
	courses.GET("/popular", handler.ListPopular)
	courses.POST("", append(acInstructor, handler.Create)...)
	courses.GET("/:courseId", middleware.AuthenticateOptional(), handler.GetByID)
	courses.PUT("/:courseId", append(acInstructor, handler.Update)...)
	courses.POST("/:courseId/publish", append(acInstructor, handler.Publish)...)
	courses.DELETE("/:courseId", append(acInstructor, handler.Delete)...)
}
