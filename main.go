package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careerhub/config"
	certificateControllers "careerhub/controllers/certificate"
	courseControllers "careerhub/controllers/course"
	lessonControllers "careerhub/controllers/lesson"
	quizControllers "careerhub/controllers/quiz"
	"careerhub/database"
	"careerhub/logger"
	"careerhub/middleware"
	"careerhub/notifier"
	authRoutes "careerhub/routers/authRoutes"
	certificateRoutes "careerhub/routers/certificateRoutes"
	courseRoutes "careerhub/routers/courseRoutes"
	lessonRoutes "careerhub/routers/lessonRoutes"
	quizRoutes "careerhub/routers/quizRoutes"
	"careerhub/services/learning"
	"careerhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func newSender(cfg *config.Config, log *logger.Logger) notifier.Sender {
	switch {
	case cfg.SendGridAPIKey != "":
		log.Info("notifications via sendgrid")
		return notifier.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailSenderName, cfg.EmailSender)
	case cfg.NotifyWebhookURL != "":
		log.Info("notifications via webhook", "url", cfg.NotifyWebhookURL)
		return notifier.NewWebhookSender(cfg.NotifyWebhookURL, 10*time.Second)
	default:
		log.Warn("no email provider configured, notifications are only logged")
		return notifier.NewConsoleSender(log)
	}
}

// setupApp builds the HTTP application with every route mounted.
func setupApp(cfg *config.Config, svc *learning.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Career Reach Hub",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Log every request
	app.Use(fiberLogger.New(fiberLogger.Config{
		Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	api := app.Group("/api")
	authRoutes.SetupAuthRoutes(api)
	courseRoutes.SetupCourseRoutes(api, courseControllers.NewHandler(svc))
	lessonRoutes.SetupLessonRoutes(api, lessonControllers.NewHandler(svc))
	quizRoutes.SetupQuizRoutes(api, quizControllers.NewHandler(svc))
	certificateRoutes.SetupCertificateRoutes(api, certificateControllers.NewHandler(svc))

	return app
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	logger.Log = log

	if err := database.ConnectDb(cfg); err != nil {
		log.Fatal("database connection failed", "error", err)
	}

	sender := newSender(cfg, log)
	queueOpts := notifier.QueueOptions{
		Workers:    cfg.NotifyWorkers,
		Size:       cfg.NotifyQueueSize,
		MaxRetries: cfg.NotifyMaxRetries,
		Backoff:    cfg.NotifyRetryBackoff,
	}

	var (
		notify    notifier.Notifier
		stopQueue func(ctx context.Context)
	)
	if cfg.RedisURL != "" {
		q, err := notifier.NewAsynqQueue(cfg.RedisURL, sender, queueOpts, log)
		if err != nil {
			log.Fatal("notification queue setup failed", "error", err)
		}
		if err := q.Start(); err != nil {
			log.Fatal("notification queue start failed", "error", err)
		}
		notify, stopQueue = q, func(context.Context) { q.Stop() }
	} else {
		q := notifier.NewQueue(sender, queueOpts, log)
		q.Start()
		notify, stopQueue = q, q.Stop
	}

	svc := learning.NewService(database.Database.Db, notify, log, learning.Options{
		CertificatePrefix: cfg.CertificatePrefix,
		FrontendURL:       cfg.FrontendURL,
	})

	scheduler, err := utils.InitializeCertificateScheduler(svc, cfg.ReconcileSchedule, cfg.ReconcileLookbackDays)
	if err != nil {
		log.Fatal("certificate scheduler setup failed", "schedule", cfg.ReconcileSchedule, "error", err)
	}

	app := setupApp(cfg, svc)

	go func() {
		log.Info("server is running", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	<-scheduler.Stop().Done()
	stopQueue(ctx)
	log.Info("shutdown complete")
}
