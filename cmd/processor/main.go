package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/your-org/videoforge/internal/ffmpeg"
	"github.com/your-org/videoforge/internal/ledger"
	"github.com/your-org/videoforge/internal/metrics"
	"github.com/your-org/videoforge/internal/processor"
	"github.com/your-org/videoforge/internal/staging"
	"github.com/your-org/videoforge/pkg/config"
	"github.com/your-org/videoforge/pkg/kafka"
	"github.com/your-org/videoforge/pkg/logger"
	"github.com/your-org/videoforge/pkg/storage/objectstore"
	"github.com/your-org/videoforge/pkg/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	godotenv.Load() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	traceShutdown, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		Attributes:  parseResourceAttributes(cfg.Tracing.ResourceAttr),
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		logr.Fatal("init tracing", zap.Error(err))
	}
	defer traceShutdown(context.Background()) //nolint:errcheck

	stagingStore := staging.New(cfg.Pipeline.RawDir, cfg.Pipeline.ProcessedDir)
	if err := stagingStore.EnsureDirectories(); err != nil {
		logr.Fatal("init staging directories", zap.Error(err))
	}

	store, err := objectstore.New(ctx, objectstore.Config{
		Provider:        cfg.Storage.Provider,
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		RawBucket:       cfg.Storage.RawBucket,
		ProcessedBucket: cfg.Storage.ProcessedBucket,
		AccessKey:       cfg.Storage.AccessKey,
		SecretKey:       cfg.Storage.SecretKey,
		UseSSL:          cfg.Storage.UseSSL,
		CredentialsFile: cfg.Storage.CredentialsFile,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		logr.Fatal("init object store", zap.Error(err))
	}

	ledgerStore, err := ledger.NewRedisStore(ctx, ledger.RedisConfig{
		Addr:      cfg.Ledger.RedisAddr,
		Password:  cfg.Ledger.RedisPassword,
		DB:        cfg.Ledger.RedisDB,
		KeyPrefix: cfg.Ledger.KeyPrefix,
	})
	if err != nil {
		logr.Fatal("init ledger", zap.Error(err))
	}

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.ProcessedTopic,
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		Compression:  kafka.CompressionFromString(cfg.Kafka.CompressionCodec),
		RequiredAcks: kafkago.RequireAll,
		MaxAttempts:  cfg.Kafka.Retries,
	})

	engine := ffmpeg.NewEngine(cfg.Pipeline.FFmpegPath, cfg.Pipeline.TargetHeight, logr)

	service := processor.NewService(processor.Params{
		Store:            store,
		Ledger:           ledgerStore,
		Converter:        engine,
		Staging:          stagingStore,
		Producer:         producer,
		Logger:           logr,
		DownloadAttempts: cfg.Pipeline.DownloadAttempts,
		PublishAttempts:  cfg.Pipeline.PublishAttempts,
		RetryBackoff:     cfg.Pipeline.RetryBackoff,
	})

	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.NotificationTopic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: cfg.Kafka.MinBytes,
		MaxBytes: cfg.Kafka.MaxBytes,
	})

	listener := processor.NewListener(consumer, service, logr)
	go func() {
		if err := listener.Run(ctx); err != nil {
			logr.Error("notification listener stopped", zap.Error(err))
		}
	}()

	metrics.StartServer(cfg.Metrics.Addr, logr)

	handler := processor.NewHTTPHandler(service, ledgerStore, logr)
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logr.Error("http server shutdown failed", zap.Error(err))
		}
		if err := consumer.Close(); err != nil {
			logr.Error("consumer shutdown failed", zap.Error(err))
		}
		if err := producer.Close(shutdownCtx); err != nil {
			logr.Error("producer shutdown failed", zap.Error(err))
		}
		if err := ledgerStore.Close(); err != nil {
			logr.Error("ledger shutdown failed", zap.Error(err))
		}
		if err := store.Close(); err != nil {
			logr.Error("object store shutdown failed", zap.Error(err))
		}
	}()

	logr.Info("processor starting",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("notification_topic", cfg.Kafka.NotificationTopic),
		zap.String("storage_provider", cfg.Storage.Provider),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Fatal("http server failed", zap.Error(err))
	}
}

func parseResourceAttributes(raw string) map[string]string {
	if raw == "" {
		return map[string]string{}
	}
	attrs := map[string]string{}
	pairs := strings.Split(raw, ",")
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		if !strings.Contains(pair, "=") {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		attrs[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return attrs
}
