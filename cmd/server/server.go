package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jordanlt/studysync/internal/chat"
	"github.com/jordanlt/studysync/internal/config"
	"github.com/jordanlt/studysync/internal/database"
	"github.com/jordanlt/studysync/internal/handlers"
	"github.com/jordanlt/studysync/pkg/auth"
)

type Server struct {
	Router *gin.Engine
	DB     *database.Database
	Redis  *redis.Client
	Hub    *chat.Hub
	Config *config.Config
}

func NewServer() *Server {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// Один hub на процесс, членство проверяет через базу
	hub := chat.NewHub(db)

	authH := handlers.NewAuthHandler(db, jwtMgr, rdb)
	groupH := handlers.NewGroupHandler(db, hub)
	messageH := handlers.NewMessageHandler(db, db, db, hub)
	wsH := handlers.NewWebSocketHandler(hub)

	router := gin.Default()
	APIEndpoints(router, authH, groupH, messageH, wsH, jwtMgr, rdb)

	return &Server{
		Router: router,
		DB:     db,
		Redis:  rdb,
		Hub:    hub,
		Config: cfg,
	}
}

func (s *Server) Run() {
	go s.Hub.Run()
	defer s.Hub.Stop()

	log.Printf("Server starting on port %s", s.Config.Port)
	if err := s.Router.Run(":" + s.Config.Port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
