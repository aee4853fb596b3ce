package module

import "github.com/gin-gonic/gin"

// RegisterRoutes registers module endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, mentorOrAdmin gin.HandlerFunc, allUsers gin.HandlerFunc) {
	router.GET("/courses/:courseId/modules", allUsers, handler.ListByCourse)
	router.POST("/courses/:courseId/modules", mentorOrAdmin, handler.Create)

	modules := router.Group("/modules")
	{
		modules.GET("/:moduleId", allUsers, handler.GetByID)
		modules.PUT("/:moduleId", mentorOrAdmin, handler.Update)
		modules.DELETE("/:moduleId", mentorOrAdmin, handler.Delete)
	}
}
