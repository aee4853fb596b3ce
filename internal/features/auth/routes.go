package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers authentication endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, allUsers gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.POST("/logout", allUsers, handler.Logout)
		authGroup.GET("/google/url", handler.GoogleAuthURL)
		authGroup.POST("/google/callback", handler.GoogleCallback)
	}
}
