package rating

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches rating endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acUser []gin.HandlerFunc) {
	ratings := router.Group("/courses/:courseId/ratings")

	ratings.GET("", handler.ListForCourse)
	ratings.GET("/me", append(acUser, handler.GetMine)...)
	ratings.PUT("", append(acUser, handler.Rate)...)
	ratings.DELETE("", append(acUser, handler.Delete)...)
}
