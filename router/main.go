package router

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/revisionpro/api/config"
	"github.com/revisionpro/api/database"
	"github.com/revisionpro/api/handlers"
	analytics_handlers "github.com/revisionpro/api/handlers/analytics"
	recommendation_handlers "github.com/revisionpro/api/handlers/recommendation"
	revision_handlers "github.com/revisionpro/api/handlers/revision"
	subject_handlers "github.com/revisionpro/api/handlers/subject"
	subtopic_handlers "github.com/revisionpro/api/handlers/subtopic"
	topic_handlers "github.com/revisionpro/api/handlers/topic"
	"github.com/revisionpro/api/services"
	"github.com/revisionpro/api/utils/cache"
	"github.com/revisionpro/api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	db := store.GetDB()

	// Redis is optional: without it the dashboard is recomputed on
	// every request, which is correct, just slower
	var redisCache *cache.RedisCache
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Dashboard caching will be disabled.", err)
		redisCache = nil
	}

	// Initialize services
	hierarchyService := services.NewHierarchyService(db, redisCache)
	revisionService := services.NewRevisionService(db, redisCache)
	analyticsService := services.NewAnalyticsService(db, redisCache)
	recommendationService := services.NewRecommendationService(db)

	// Initialize handlers
	subjectHandler := subject_handlers.NewSubjectHandler(hierarchyService)
	topicHandler := topic_handlers.NewTopicHandler(hierarchyService)
	subtopicHandler := subtopic_handlers.NewSubtopicHandler(hierarchyService)
	revisionHandler := revision_handlers.NewRevisionHandler(revisionService)
	analyticsHandler := analytics_handlers.NewAnalyticsHandler(analyticsService)
	recommendationHandler := recommendation_handlers.NewRecommendationHandler(recommendationService)

	// Apply security middleware
	getEnv, err := config.Get()
	allowedOrigins := "http://localhost:3000,http://localhost:3001"
	if err == nil {
		allowedOrigins = getEnv.ALLOWED_ORIGINS
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins: allowedOrigins,
	})

	// API routes
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HandleCheckHealth(store))

	// Hierarchy
	api.Get("/subjects", subjectHandler.ListSubjects)
	api.Post("/subjects", subjectHandler.CreateSubject)
	api.Delete("/subjects/:id", subjectHandler.DeleteSubject)

	api.Get("/topics", topicHandler.ListTopics)
	api.Post("/topics", topicHandler.CreateTopic)
	api.Delete("/topics/:id", topicHandler.DeleteTopic)

	api.Get("/subtopics", subtopicHandler.ListSubtopics)
	api.Post("/subtopics", subtopicHandler.CreateSubtopic)
	api.Put("/subtopics/:id", subtopicHandler.UpdateSubtopic)
	api.Delete("/subtopics/:id", subtopicHandler.DeleteSubtopic)

	// Revision ledger
	api.Post("/revisions", revisionHandler.CreateRevision)
	api.Get("/revisions/:subtopic_id", revisionHandler.GetRevisionHistory)

	// Read models
	api.Get("/dashboard", analyticsHandler.GetDashboard)
	api.Get("/recommendations", recommendationHandler.GetRecommendations)
}
