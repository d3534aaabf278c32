package app

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/revisionpro/api/api"
	"github.com/revisionpro/api/config"
	"github.com/revisionpro/api/database"
	"github.com/revisionpro/api/router"
	"github.com/revisionpro/api/services/cron"
	"github.com/revisionpro/api/utils/cache"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		log.Println("Check whether Postgres is running or not")
		return err
	}

	if err := store.Init(); err != nil {
		log.Println("Failed to initialize database tables")
		return err
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		var redisCache *cache.RedisCache
		if getEnv.REDIS_URL != "" {
			redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
			if err != nil {
				log.Printf("Warning: Redis unavailable for cron jobs: %v", err)
				redisCache = nil
			}
		}

		cronManager = cron.NewCronManager(store.GetDB(), redisCache)
		if err := cronManager.Start(); err != nil {
			log.Println("Warning: Failed to start cron jobs:", err)
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach Middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Setup Routes
	router.SetupRoutes(app, store)

	// Get the PORT & Start the Server
	return server.Run()
}
