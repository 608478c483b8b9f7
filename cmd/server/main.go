package main

import (
	"errors"
	"log"
	"runtime"
	"time"

	"github.com/fadilmartias/job-board/internal/asyncres"
	"github.com/fadilmartias/job-board/internal/config"
	"github.com/fadilmartias/job-board/internal/domain/fiber/handler"
	applog "github.com/fadilmartias/job-board/internal/logger"
	"github.com/fadilmartias/job-board/internal/middleware"
	"github.com/fadilmartias/job-board/internal/model"
	"github.com/fadilmartias/job-board/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	if err := applog.Initialize(appConfig.LogJSON); err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer applog.Sync()

	dataConfig := config.LoadDataServiceConfig()
	if dataConfig.BaseURL == "" {
		applog.Logger.Fatal("DATA_SERVICE_URL is required")
	}

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + service.HeaderActorID + ", " +
			service.HeaderActorRole + ", " + middleware.HeaderActorName,
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	dataService := service.NewJobBoardServiceWithConfig(dataConfig)
	serviceFor := func(actor model.Actor) service.JobBoardServiceInterface {
		return dataService.WithActor(actor)
	}
	policy := asyncres.ParsePolicy(dataConfig.SettlePolicy)
	opts := handler.ResourceOptions{asyncres.WithPolicy(policy)}

	handler.NewJobHandler(serviceFor, opts).RegisterRoutes(app)
	handler.NewApplicationHandler(serviceFor, opts).RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			applog.Logger.Debugw("runtime", "goroutines", runtime.NumGoroutine())
		}
	}()

	applog.Logger.Infow("server running",
		"port", appConfig.Port, "data_service", dataConfig.BaseURL, "settle_policy", policy.String())
	if err := app.Listen(appConfig.Port); err != nil {
		applog.Logger.Fatalw("server stopped", "error", err)
	}
}
