package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jordanlt/studysync/internal/handlers"
	"github.com/jordanlt/studysync/internal/middleware"
	"github.com/jordanlt/studysync/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	authH *handlers.AuthHandler,
	groupH *handlers.GroupHandler,
	messageH *handlers.MessageHandler,
	wsH *handlers.WebSocketHandler,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
) {
	// Auth endpoints
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// API endpoints
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.GET("/auth/me", authH.GetMe)

		api.POST("/groups", groupH.CreateGroup)
		api.GET("/groups", groupH.GetMyGroups)
		api.POST("/groups/:id/join", groupH.JoinGroup)
		api.GET("/groups/:id/members", groupH.GetGroupMembers)

		api.GET("/groups/:id/messages", messageH.GetGroupMessages)
		api.POST("/groups/:id/messages", messageH.SendMessage)
	}

	// WebSocket, токен через query
	ws := r.Group("/ws")
	ws.Use(middleware.WSAuthMiddleware(jwtMgr, rdb))
	{
		ws.GET("", wsH.HandleWebSocket)
	}
}
