package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stylehaus/closet/infra/rabbitmq"
	"github.com/stylehaus/closet/internal/consumers"
	"github.com/stylehaus/closet/pkg/config"
	"github.com/stylehaus/closet/pkg/events"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	zap.L().Info("Closet Worker Service starting...")

	appConfig := config.Read()
	zap.L().Info("Worker config loaded",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("rabbitMQURL", appConfig.RabbitMQURL),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	closetHandler := consumers.NewClosetEventHandler(zap.L())

	itemConsumerConfig := rabbitmq.ConsumerConfig{
		Exchange:      events.ClosetExchange,
		QueueName:     "closet.item.all.v1",
		RoutingKeys:   []string{"item.*.v1"},
		ServiceName:   appConfig.ServiceName,
		PrefetchCount: 10,
	}

	visualizationConsumerConfig := rabbitmq.ConsumerConfig{
		Exchange:      events.VisualizationExchange,
		QueueName:     "closet.visualization.all.v1",
		RoutingKeys:   []string{"visualization.*.v1"},
		ServiceName:   appConfig.ServiceName,
		PrefetchCount: 10,
	}

	itemConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, itemConsumerConfig)
	if err != nil {
		zap.L().Fatal("Failed to create item consumer", zap.Error(err))
	}
	defer itemConsumer.Close()

	visualizationConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, visualizationConsumerConfig)
	if err != nil {
		zap.L().Fatal("Failed to create visualization consumer", zap.Error(err))
	}
	defer visualizationConsumer.Close()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		zap.L().Info("Starting item event consumer...")
		if err := itemConsumer.Consume(ctx, closetHandler.HandleEvent); err != nil {
			if err != context.Canceled {
				zap.L().Error("Item consumer error", zap.Error(err))
			}
		}
	}()

	go func() {
		zap.L().Info("Starting visualization event consumer...")
		if err := visualizationConsumer.Consume(ctx, closetHandler.HandleEvent); err != nil {
			if err != context.Canceled {
				zap.L().Error("Visualization consumer error", zap.Error(err))
			}
		}
	}()

	zap.L().Info("Worker service started successfully. Waiting for events...")

	// Wait for shutdown signal
	<-sigChan
	zap.L().Info("Shutdown signal received, stopping worker service...")
	cancel()
}
