package controllers

import (
	"github.com/CUknot/dorm_backend/middleware"
	"github.com/CUknot/dorm_backend/websocket"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the JSON API and the websocket endpoint
func RegisterRoutes(router *gin.Engine) {
	// Authentication routes
	auth := router.Group("/api")
	{
		auth.POST("/register", Register)
		auth.POST("/login", Login)
	}

	// Protected routes
	api := router.Group("/api")
	api.Use(middleware.JWTAuth())
	{
		api.GET("/me", Me)

		// Room routes
		api.GET("/rooms", GetRooms)
		api.GET("/rooms/:id", GetRoom)
		api.POST("/rooms", middleware.AdminOnly(), CreateRoom)
		api.PUT("/rooms/:id", middleware.AdminOnly(), UpdateRoom)
		api.DELETE("/rooms/:id", middleware.AdminOnly(), DeleteRoom)

		// Sleepover routes
		api.POST("/sleepovers", CreateSleepover)
		api.GET("/sleepovers", middleware.AdminOnly(), GetAllSleepovers)
		api.GET("/sleepovers/student/:studentId", GetStudentSleepovers)
		api.GET("/sleepovers/:id", GetSleepover)
		api.POST("/sleepovers/:id/verify", middleware.AdminOnly(), VerifySleepover)

		// Notification routes
		api.GET("/notifications", GetNotifications)
		api.POST("/notifications/:id/read", MarkNotificationRead)
	}

	// WebSocket route
	router.GET("/ws", websocket.HandleConnection)
}
