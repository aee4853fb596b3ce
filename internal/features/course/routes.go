package course

import "github.com/gin-gonic/gin"

// RegisterRoutes registers course endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, mentorOrAdmin gin.HandlerFunc, allUsers gin.HandlerFunc) {
	courses := router.Group("/courses")
	{
		courses.GET("", allUsers, handler.List)
		courses.GET("/all", mentorOrAdmin, handler.ListAll)
		courses.GET("/:courseId", allUsers, handler.GetByID)
		courses.POST("", mentorOrAdmin, handler.Create)
		courses.PUT("/:courseId", mentorOrAdmin, handler.Update)
		courses.DELETE("/:courseId", mentorOrAdmin, handler.Delete)
	}
}
