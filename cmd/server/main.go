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
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"
	config "github.com/unosuke/postpilot/configs"
	"github.com/unosuke/postpilot/internal/api/handlers"
	"github.com/unosuke/postpilot/internal/api/middleware"
	job "github.com/unosuke/postpilot/internal/jobs"
	"github.com/unosuke/postpilot/internal/meta"
	"github.com/unosuke/postpilot/internal/repository"
	"github.com/unosuke/postpilot/internal/scheduler"
	"github.com/unosuke/postpilot/internal/service"
	"github.com/unosuke/postpilot/internal/webhook"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	accountRepo := repository.NewAccountRepository(db)
	postRepo := repository.NewPostRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	inboundRepo := repository.NewInboundRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	eventLogRepo := repository.NewEventLogRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)

	metaClient := meta.NewClient(cfg.GraphAPIBaseURL)

	eventRecorder := service.NewEventRecorder(eventLogRepo)
	conversationService := service.NewConversationService(conversationRepo)
	accountService := service.NewAccountService(accountRepo, cfg.SecretKey)
	postService := service.NewPostService(postRepo, accountRepo)
	ruleService := service.NewRuleService(ruleRepo, templateRepo)
	templateService := service.NewTemplateService(templateRepo)
	mediaService := service.NewMediaService(cfg, mediaAssetRepo)
	dashboardService := service.NewDashboardService(accountRepo, postRepo, inboundRepo)
	inboxService := service.NewInboxService(inboundRepo, conversationRepo, conversationService)

	ingestor := webhook.NewIngestor(accountRepo, inboundRepo, ruleRepo, templateRepo,
		metaClient, conversationService, eventRecorder, cfg.SecretKey)

	authMiddleware := middleware.NewAuthMiddleware(cfg)

	auth := handlers.NewAuthHandler(cfg)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	wh := handlers.NewWebhookHandler(cfg, ingestor)
	app.Get("/webhook/instagram", wh.Verify)
	app.Post("/webhook/instagram", wh.HandleComments)
	app.Get("/webhook/instagram-messages", wh.Verify)
	app.Post("/webhook/instagram-messages", wh.HandleMessages)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	account := handlers.NewAccountHandler(accountService)
	api.Post("/accounts", account.CreateAccount)
	api.Get("/accounts", account.ListAccounts)
	api.Get("/accounts/:id", account.GetAccount)
	api.Patch("/accounts/:id/active", account.SetActive)
	api.Delete("/accounts/:id", account.RemoveAccount)

	post := handlers.NewPostHandler(postService)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Delete("/posts/:id", post.CancelPost)
	api.Patch("/posts/:id/reschedule", post.Reschedule)
	api.Patch("/posts/:id/pause", post.PausePost)
	api.Patch("/posts/:id/resume", post.ResumePost)
	api.Get("/calendar/posts", post.Calendar)

	rule := handlers.NewRuleHandler(ruleService)
	api.Post("/rules/:kind", rule.CreateRule)
	api.Get("/rules/:kind", rule.ListRules)
	api.Post("/rules/:kind/reorder", rule.ReorderRules)
	api.Post("/rules/:kind/test", rule.TestRules)
	api.Put("/rules/:kind/:id", rule.UpdateRule)
	api.Delete("/rules/:kind/:id", rule.RemoveRule)

	template := handlers.NewTemplateHandler(templateService)
	api.Post("/templates", template.CreateTemplate)
	api.Get("/templates", template.ListTemplates)
	api.Get("/templates/:id", template.GetTemplate)
	api.Put("/templates/:id", template.UpdateTemplate)
	api.Delete("/templates/:id", template.RemoveTemplate)

	inbox := handlers.NewInboxHandler(inboxService)
	api.Get("/inbox/comments", inbox.ListComments)
	api.Get("/inbox/dms", inbox.ListDMs)
	api.Get("/inbox/conversations", inbox.ListConversations)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.UploadMedia)
	api.Get("/media", media.ListMedia)

	logs := handlers.NewLogHandler(eventLogRepo)
	api.Get("/logs/comments", inbox.ListComments)
	api.Get("/logs/dms", inbox.ListDMs)
	api.Get("/logs/events", logs.ListLogs)

	dashboard := handlers.NewDashboardHandler(dashboardService)
	api.Get("/dashboard/summary", dashboard.Summary)

	// cron jobs
	postScheduler := scheduler.New(postRepo, accountRepo, metaClient, eventRecorder, cfg.SecretKey)
	refreshTokenJob := job.NewTokenRefreshJob(accountRepo, metaClient, eventRecorder, cfg.SecretKey)

	c := cron.New()
	c.AddFunc("@every 00h01m00s", postScheduler.Tick)
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()
	defer c.Stop()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

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

	log.Println("Server shutdown complete.")
}
