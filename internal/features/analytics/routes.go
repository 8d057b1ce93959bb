package analytics

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches analytics endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, acInstructor []gin.HandlerFunc) {
	videos := router.Group("/videos/:videoId/analytics")
	videos.GET("", append(acInstructor, handler.GetForVideo)...)
}
