package enrollment

import "github.com/gin-gonic/gin"

// RegisterRoutes registers enrollment endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, allUsers gin.HandlerFunc) {
	enrollments := router.Group("/enrollments", allUsers)
	{
		enrollments.POST("", handler.Enroll)
		enrollments.GET("", handler.ListMine)
		enrollments.GET("/:courseId", handler.GetMine)
	}
}
