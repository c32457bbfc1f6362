package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/yungbote/lingobridge-backend/internal/handlers"
  "github.com/yungbote/lingobridge-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware    *middleware.AuthMiddleware
  VocabularyHandler *handlers.VocabularyHandler
  PracticeHandler   *handlers.PracticeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Protected ||
// ===============
  api := router.Group("/api")
  api.Use(cfg.AuthMiddleware.RequireAuth())
  // Vocabulary
  api.POST("/vocabulary", cfg.VocabularyHandler.SaveVocabulary)
  api.GET("/vocabulary", cfg.VocabularyHandler.ListSaved)
  api.DELETE("/vocabulary/:id", cfg.VocabularyHandler.DeleteSaved)
  // Practice
  api.GET("/practice/due", cfg.PracticeHandler.GetDue)
  api.POST("/practice/exercises", cfg.PracticeHandler.GetExercises)
  api.POST("/practice/session-result", cfg.PracticeHandler.SubmitSessionResult)
  api.PUT("/practice/attempt", cfg.PracticeHandler.RecordAttempt)

  return router
}
