package enrollment

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches enrollment endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acUser []gin.HandlerFunc) {
	enrollments := router.Group("/enrollments")
	enrollments.GET("", append(acUser, handler.ListMine)...)

	courses := router.Group("/courses/:courseId")
	courses.POST("/enroll", append(acUser, handler.Enroll)...)
	courses.DELETE("/enroll", append(acUser, handler.Unenroll)...)
	courses.GET("/enrollment", append(acUser, handler.GetMine)...)
}
