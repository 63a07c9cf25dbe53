package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stylehaus/closet/app"
	"github.com/stylehaus/closet/infra/postgres"
	"github.com/stylehaus/closet/infra/rabbitmq"
	"github.com/stylehaus/closet/internal/ai"
	"github.com/stylehaus/closet/internal/middleware"
	"github.com/stylehaus/closet/pkg/aws"
	"github.com/stylehaus/closet/pkg/config"
	"github.com/stylehaus/closet/pkg/events"
	"github.com/stylehaus/closet/pkg/httperror"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ReqHeaderParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_headers",
				"Invalid headers",
				fiber.Map{"error": err.Error()},
			))
		}

		// Handlers that read multipart files need the fiber context.
		ctx := context.WithValue(c.UserContext(), "fiber", c)

		res, err := handler.Handle(ctx, &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(res)
	}
}

func main() {
	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	appConfig := config.Read()
	zap.L().Info("app starting...")

	fiberApp := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    10 * 1024 * 1024,
	})

	pgRepository := postgres.NewPgRepository(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
	)
	defer pgRepository.Close()

	bucket := aws.NewS3Bucket(appConfig)

	remover := ai.NewInferenceRemover(
		appConfig.BgRemovalURL,
		appConfig.BgRemovalAPIKey,
		time.Duration(appConfig.BgRemovalTimeoutSec)*time.Second,
	)

	generator := newOutfitGenerator(appConfig)

	var eventPublisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Warn("Event publisher unavailable, continuing without events", zap.Error(err))
		} else {
			eventPublisher = publisher
			defer publisher.Close()
		}
	}

	uploadItemHandler := app.NewUploadItemHandler(pgRepository, bucket, remover, eventPublisher)
	getItemsHandler := app.NewGetItemsHandler(pgRepository)
	getItemHandler := app.NewGetItemHandler(pgRepository)
	deleteItemHandler := app.NewDeleteItemHandler(pgRepository, bucket, eventPublisher)
	createVisualizationHandler := app.NewCreateVisualizationHandler(pgRepository, bucket, generator, eventPublisher)
	getVisualizationsHandler := app.NewGetVisualizationsHandler(pgRepository)
	getVisualizationHandler := app.NewGetVisualizationHandler(pgRepository)
	deleteVisualizationHandler := app.NewDeleteVisualizationHandler(pgRepository, bucket, eventPublisher)
	removeBackgroundHandler := app.NewRemoveBackgroundHandler(app.NewHTTPImageFetcher(), remover)

	fiberApp.Get("/api/v1/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protectedRoutes := fiberApp.Group("/api/v1")
	protectedRoutes.Use(middleware.NewAuthMiddleware([]byte(appConfig.JWTSecret)))

	protectedRoutes.Post("/upload", handle[app.UploadItemRequest, app.UploadItemResponse](uploadItemHandler))
	protectedRoutes.Get("/closet", handle[app.GetItemsRequest, app.GetItemsResponse](getItemsHandler))
	protectedRoutes.Get("/closet/:id", handle[app.GetItemRequest, app.GetItemResponse](getItemHandler))
	protectedRoutes.Delete("/closet/:id", handle[app.DeleteItemRequest, app.DeleteItemResponse](deleteItemHandler))
	protectedRoutes.Post("/visualize", handle[app.CreateVisualizationRequest, app.CreateVisualizationResponse](createVisualizationHandler))
	protectedRoutes.Get("/visualizations", handle[app.GetVisualizationsRequest, app.GetVisualizationsResponse](getVisualizationsHandler))
	protectedRoutes.Get("/visualizations/:id", handle[app.GetVisualizationRequest, app.GetVisualizationResponse](getVisualizationHandler))
	protectedRoutes.Delete("/visualizations/:id", handle[app.DeleteVisualizationRequest, app.DeleteVisualizationResponse](deleteVisualizationHandler))
	protectedRoutes.Post("/remove-background", removeBackgroundHandler)

	// Start server in a goroutine
	go func() {
		if err := fiberApp.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(fiberApp)
}

func newOutfitGenerator(cfg *config.AppConfig) ai.OutfitGenerator {
	if cfg.OutfitGenerator == "gemini" {
		generator, err := ai.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiImageModel)
		if err != nil {
			zap.L().Fatal("Failed to create outfit generator", zap.Error(err))
		}
		return generator
	}

	zap.L().Info("Using placeholder outfit generator")
	return ai.NewPlaceholderGenerator()
}

func gracefulShutdown(app *fiber.App) {
	// Create channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	zap.L().Info("Shutting down server...")

	// Shutdown with 5 second timeout
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := fiber.Map{
			"code":    httpErr.Code,
			"message": httpErr.Message,
		}

		if httpErr.Details != nil {
			payload["details"] = httpErr.Details
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber validation error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
