package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"
	config "github.com/socialmindhq/socialmind/configs"
	"github.com/socialmindhq/socialmind/internal/api/handlers"
	"github.com/socialmindhq/socialmind/internal/api/middleware"
	"github.com/socialmindhq/socialmind/internal/authstate"
	job "github.com/socialmindhq/socialmind/internal/jobs"
	"github.com/socialmindhq/socialmind/internal/mailer"
	"github.com/socialmindhq/socialmind/internal/models"
	"github.com/socialmindhq/socialmind/internal/queue"
	"github.com/socialmindhq/socialmind/internal/repository"
	"github.com/socialmindhq/socialmind/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    50 * 1024 * 1024, // 50 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	mail := mailer.NewMailer(*cfg)
	stateStore := authstate.NewMemoryStore()

	mediaService := service.NewMediaService(*cfg)
	authService := service.NewAuthService(userRepo, mail)
	postService := service.NewPostService(postRepo, userRepo, mediaService, mail)
	platformService := service.NewPlatformService(*cfg, socialAccountRepo)
	youtubeService := service.NewYoutubeService(*cfg, socialAccountRepo)
	threadsService := service.NewThreadsService(*cfg, socialAccountRepo)
	aiService := service.NewAIService(*cfg)
	dashboardService := service.NewDashboardService(postRepo, socialAccountRepo)
	settingsService := service.NewSettingsService(settingsRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)
	otpLimiter := middleware.NewRateLimiter(middleware.OtpRateLimitConfig())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Post("/auth/signup", auth.Signup)
	app.Post("/auth/signin", otpLimiter, auth.Signin)
	app.Post("/auth/verify-otp", otpLimiter, auth.VerifyOtp)
	app.Post("/auth/google", auth.GoogleAuth)
	app.Get("/auth/me", authMiddleware.AuthMiddleware(), auth.Me)

	platform := handlers.NewPlatformHandler(platformService, youtubeService, threadsService, stateStore, *cfg)
	app.Get("/auth/youtube", authMiddleware.AuthMiddleware(), platform.Connect(models.PlatformYoutube))
	app.Get("/auth/youtube/callback", platform.Callback(models.PlatformYoutube))
	app.Get("/auth/threads", authMiddleware.AuthMiddleware(), platform.Connect(models.PlatformThreads))
	app.Get("/auth/threads/callback", platform.Callback(models.PlatformThreads))

	api := app.Group("/", authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(postService, client)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Put("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.RemovePost)

	dashboard := handlers.NewDashboardHandler(dashboardService)
	api.Get("/dashboard/analytics", dashboard.Analytics)
	api.Get("/dashboard/insights", dashboard.Insights)
	api.Get("/dashboard/accounts", platform.ListSocialAccounts)
	api.Delete("/social-accounts/:id", platform.DeleteSocialAccount)

	ai := handlers.NewAIHandler(aiService, mediaService)
	api.Post("/ai/caption", ai.GenerateCaption)
	api.Post("/ai/content-plan", ai.GenerateContentPlan)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings", settings.GetSettings)
	api.Post("/settings", settings.UpdateSettings)

	// cron jobs
	reminderJob := job.NewReminderJob(settingsRepo, postRepo, userRepo, mail)
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, youtubeService, threadsService)

	c := cron.New()
	c.AddFunc("@every 1m", reminderJob.Run)
	c.AddFunc("@every 5m", stateStore.Sweep)
	c.AddFunc("@every 10m", refreshTokenJob.RefreshTokens)
	c.Start()

	// queue worker
	queueW := queue.NewQueue(postRepo, userRepo, mail)

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
