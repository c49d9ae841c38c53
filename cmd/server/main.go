package main

import (
	"context"
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

	config "github.com/productdigest/content-api/configs"
	"github.com/productdigest/content-api/internal/api/handlers"
	"github.com/productdigest/content-api/internal/api/middleware"
	"github.com/productdigest/content-api/internal/cache"
	"github.com/productdigest/content-api/internal/content"
	job "github.com/productdigest/content-api/internal/jobs"
	"github.com/productdigest/content-api/internal/repository"
	"github.com/productdigest/content-api/internal/service"
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

	// Phase one: the schema must be current before any request is served.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := repository.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	cancel()

	postRepo := repository.NewPostRepository(db)
	eventRepo := repository.NewEventRepository(db)
	bookRepo := repository.NewBookRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	bookCache := cache.NewBookCache(cfg.BooksCacheTTL)
	syncer := content.NewSyncer(postRepo, cfg.PostsDir, cfg.DefaultTimezone, cfg.ScheduleDefaultTime)

	archiveService := service.NewArchiveService(*cfg)
	coverService := service.NewCoverService()
	postService := service.NewPostService(postRepo, syncer, archiveService, cfg.DefaultTimezone)
	eventService := service.NewEventService(eventRepo, cfg.DefaultTimezone)
	bookService := service.NewBookService(bookRepo, bookCache, coverService)
	subscriberService := service.NewSubscriberService(subscriberRepo)
	likeService := service.NewLikeService(likeRepo)

	if _, err := os.Stat(cfg.PostsDir); err == nil {
		synced, err := syncer.SyncFromContent(context.Background())
		if err != nil {
			log.Printf("Warning: content sync failed: %v", err)
		} else {
			log.Printf("Synced %d scheduled post(s) from %s", synced, cfg.PostsDir)
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigin,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	cronAuth := middleware.NewCronAuthMiddleware(*cfg)
	api := app.Group("/api")

	subscriber := handlers.NewSubscriberHandler(subscriberService)
	api.Post("/subscribers", subscriber.Subscribe)

	like := handlers.NewLikeHandler(likeService)
	api.Get("/likes", like.Get)
	api.Post("/likes", like.Increment)

	post := handlers.NewPostHandler(postService)
	api.Get("/posts", post.List)
	api.Post("/posts", post.Upsert)
	api.Post("/posts/publish-due", cronAuth.CronAuth(), post.PublishDue)
	api.Get("/posts/:slug", post.Get)
	api.Post("/posts/:slug/publish", post.Publish)
	api.Patch("/posts/:slug/schedule", post.Reschedule)

	event := handlers.NewEventHandler(eventService)
	api.Get("/events", event.List)
	api.Post("/events", event.Create)
	api.Patch("/events/:id", event.Patch)
	api.Delete("/events/:id", event.Delete)

	book := handlers.NewBookHandler(bookService, bookCache)
	api.Get("/books", book.List)
	api.Post("/books", book.Upsert)
	api.Patch("/books/:id", book.Patch)
	api.Delete("/books/:id", book.Delete)

	if cfg.PublishCronSpec != "" {
		publishJob := job.NewPublishDueJob(syncer, postService)
		c := cron.New()
		if err := c.AddFunc(cfg.PublishCronSpec, publishJob.Run); err != nil {
			log.Fatalf("Invalid PUBLISH_CRON_SPEC %q: %v", cfg.PublishCronSpec, err)
		}
		c.Start()
		log.Printf("Internal publish timer enabled: %s", cfg.PublishCronSpec)
	}

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

	closeDB(db)
	log.Println("Server shutdown complete.")
}
