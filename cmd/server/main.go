package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invomail/internal/config"
	"invomail/internal/email/noop"
	"invomail/internal/email/ses"
	"invomail/internal/extract"
	_ "invomail/internal/extract/anthropic"
	_ "invomail/internal/extract/bedrock"
	"invomail/internal/handler"
	"invomail/internal/port"
	sqsqueue "invomail/internal/queue/sqs"
	"invomail/internal/router"
	"invomail/internal/service"
	s3storage "invomail/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize storage
	storage, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize mail sender
	sender, err := newMailSender(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize mail sender: %w", err)
	}

	// Initialize document model chain
	model, err := extract.NewFromConfig(&cfg.Extract)
	if err != nil {
		return fmt.Errorf("failed to initialize document model: %w", err)
	}

	extractor := extract.NewExtractor(model)
	processor := service.NewProcessor(storage, sender, extractor, service.ProcessorConfig{
		Bucket:          cfg.S3.Bucket,
		KeyPrefix:       cfg.S3.KeyPrefix,
		FallbackAddress: cfg.Pipeline.FallbackAddress,
		ArchiveResults:  cfg.Pipeline.ArchiveResults,
		ArchivePrefix:   cfg.Pipeline.ArchivePrefix,
		AttachWorkbook:  cfg.Compose.AttachWorkbook,
		AttachCSV:       cfg.Compose.AttachCSV,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the queue worker when configured
	workerDone := make(chan struct{})
	if cfg.Queue.Enabled {
		queue, err := sqsqueue.NewSQSQueue(&cfg.Queue)
		if err != nil {
			return fmt.Errorf("failed to initialize SQS queue: %w", err)
		}
		worker := service.NewQueueWorker(queue, processor, service.QueueWorkerConfig{
			PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
			Concurrency:  cfg.Queue.Concurrency,
		})
		go func() {
			defer close(workerDone)
			worker.Start(ctx)
		}()
	} else {
		close(workerDone)
	}

	// Initialize handlers
	notificationH := handler.NewNotificationHandler(processor)
	healthH := handler.NewHealthHandler(cfg.Server.Environment)

	// Setup router
	r := router.Setup(notificationH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone

	return nil
}

// newMailSender builds the configured outbound mail provider.
func newMailSender(cfg *config.Config) (port.MailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		return ses.NewSESSender(&cfg.Email)
	default:
		return noop.NewNoopSender(), nil
	}
}
