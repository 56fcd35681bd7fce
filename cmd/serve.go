package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"gst-billing-backend/controllers"
	"gst-billing-backend/database"
	"gst-billing-backend/events"
	"gst-billing-backend/logger"
	"gst-billing-backend/middlewares"
	"gst-billing-backend/routes"
	"gst-billing-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/spf13/cobra"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the HTTP API and, when REMINDER_INTERVAL_MINUTES is non-zero, the
background reminder dispatcher. SIGINT/SIGTERM trigger a graceful shutdown.`,
	Example: `  # Serve on $PORT after applying migrations
  billing serve --migrate`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply schema migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if serveMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
	}

	rdb, err := database.ConnectRedis(ctx, cfg.RedisAddress)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher events.Publisher = events.LogPublisher{}
	if cfg.PubSubTopic != "" {
		ps, err := events.NewPubSubPublisher(ctx, cfg.PubSubProjectID, cfg.PubSubTopic, cfg.PubSubCredentialsJSON)
		if err != nil {
			return err
		}
		defer ps.Close()
		publisher = ps
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    cfg.BodyLimitBytes,
	})
	app.Use(middlewares.RequestLogger())

	// ---- CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Request-ID",
	}))

	// ---- Global rate limiter, shared through Redis when configured
	limiterCfg := limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}
	if rdb != nil {
		limiterCfg.Storage = database.NewRedisStorage(rdb, "ratelimit:")
	}
	app.Use(limiter.New(limiterCfg))

	// ---- Routes
	reminders := services.NewReminderService(db, cfg.ReminderWindowDays)
	routes.Register(app, routes.Deps{
		DB:        db,
		JWTSecret: cfg.JWTSecret,
		Auth:      controllers.NewAuthController(db, cfg.JWTSecret, cfg.TokenTTL, cfg.PhoneRegion),
		Documents: controllers.NewDocumentController(services.NewDocumentService(db, publisher, cfg.PhoneRegion)),
		Reminders: controllers.NewReminderController(reminders),
	})

	// ---- Reminder dispatcher
	if cfg.ReminderInterval > 0 {
		go services.NewReminderDispatcher(reminders, publisher, rdb, cfg.ReminderInterval).Run(ctx)
	}

	// ---- Start
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("API server starting")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
