package certificate

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches certificate endpoints to the router. Verification
// is public; listing requires authentication.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acUser []gin.HandlerFunc) {
	certificates := router.Group("/certificates")

	certificates.GET("/verify/:certificateNumber", handler.Verify)
	certificates.GET("", append(acUser, handler.ListMine)...)
	certificates.GET("/courses/:courseId", append(acUser, handler.GetForCourse)...)
}
