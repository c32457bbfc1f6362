package main

import (
  "fmt"
  "os"
  "github.com/yungbote/lingobridge-backend/internal/logger"
  "github.com/yungbote/lingobridge-backend/internal/utils"
  "github.com/yungbote/lingobridge-backend/internal/db"
  "github.com/yungbote/lingobridge-backend/internal/repos"
  "github.com/yungbote/lingobridge-backend/internal/services"
  "github.com/yungbote/lingobridge-backend/internal/handlers"
  "github.com/yungbote/lingobridge-backend/internal/middleware"
  "github.com/yungbote/lingobridge-backend/internal/server"
  redisclient "github.com/yungbote/lingobridge-backend/internal/clients/redis"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  vocabularyRepo := repos.NewVocabularyRepo(thePG, log)
  learningRecordRepo := repos.NewLearningRecordRepo(thePG, log)
  exerciseBankRepo := repos.NewExerciseBankRepo(thePG, log)
  exerciseAttemptRepo := repos.NewExerciseAttemptRepo(thePG, log)
  aiCallLogRepo := repos.NewAICallLogRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  generator, err := services.NewOpenAIGenerator(log)
  if err != nil {
    log.Error("Could not init OpenAIGenerator", "error", err)
    os.Exit(1)
  }

  // Redis is an optional read-through cache; run without it when unset.
  var defCache services.DefinitionCache
  if cache, err := redisclient.NewDefinitionCache(log); err != nil {
    log.Warn("Definition cache disabled", "error", err)
  } else {
    defCache = cache
    defer cache.Close()
  }

  vocabularyService := services.NewVocabularyService(thePG, log, vocabularyRepo, aiCallLogRepo, generator, defCache)
  exerciseService := services.NewExerciseService(thePG, log, exerciseBankRepo, exerciseAttemptRepo, learningRecordRepo, aiCallLogRepo, generator)
  practiceService := services.NewPracticeService(thePG, log, vocabularyService, learningRecordRepo)
  authService := services.NewAuthService(log, jwtSecretKey)

  // Handlers
  log.Info("Setting up handlers from main...")
  vocabularyHandler := handlers.NewVocabularyHandler(log, practiceService)
  practiceHandler := handlers.NewPracticeHandler(log, practiceService, exerciseService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:    authMiddleware,
    VocabularyHandler: vocabularyHandler,
    PracticeHandler:   practiceHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
