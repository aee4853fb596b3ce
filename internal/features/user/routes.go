package user

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches user endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, adminOnly, allUsers gin.HandlerFunc) {
	users := router.Group("/users")

	users.GET("/me", allUsers, handler.Me)
	users.GET("", adminOnly, handler.List)
	users.GET("/:userId", adminOnly, handler.GetByID)
	users.PUT("/:userId", adminOnly, handler.Update)
}
