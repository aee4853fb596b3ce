package progress

import "github.com/gin-gonic/gin"

// RegisterRoutes registers progress endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, allUsers gin.HandlerFunc) {
	progress := router.Group("/progress", allUsers)
	{
		progress.POST("", handler.Record)
		progress.GET("/courses/:courseId", handler.ListByCourse)
	}
}
