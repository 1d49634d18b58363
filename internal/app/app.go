package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/miniaturs/config"
	"github.com/andreyxaxa/miniaturs/internal/controller/restapi"
	"github.com/andreyxaxa/miniaturs/internal/infrastructure/fetcher"
	"github.com/andreyxaxa/miniaturs/internal/infrastructure/processor"
	"github.com/andreyxaxa/miniaturs/internal/repo/persistent"
	"github.com/andreyxaxa/miniaturs/internal/usecase/cache"
	"github.com/andreyxaxa/miniaturs/internal/usecase/resize"
	"github.com/andreyxaxa/miniaturs/internal/usecase/validation"
	"github.com/andreyxaxa/miniaturs/pkg/httpserver"
	"github.com/andreyxaxa/miniaturs/pkg/logger"
	"github.com/andreyxaxa/miniaturs/pkg/metrics"
	"github.com/andreyxaxa/miniaturs/pkg/s3client"
	"github.com/andreyxaxa/miniaturs/pkg/signature"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Metrics
	m := metrics.New()

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx,
		s3client.Region(cfg.S3.Region),
		s3client.Endpoint(cfg.S3.Endpoint),
		s3client.StaticCredentials(cfg.S3.AccessKey, cfg.S3.SecretKey),
		s3client.UsePathStyle(cfg.S3.UsePathStyle),
		s3client.CheckBuckets(cfg.S3.ProcessedBucket, cfg.S3.UnprocessedBucket),
	)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// Use-Case

	// resize use-case
	resizeUseCase := resize.New(
		signature.NewVerifier(cfg.Auth.SharedSecret),
		validation.New(),
		cache.NewProcessed(persistent.NewBlobRepo(s3c, cfg.S3.ProcessedBucket), m, l),
		cache.NewUnprocessed(persistent.NewBlobRepo(s3c, cfg.S3.UnprocessedBucket), m, l),
		fetcher.New(&http.Client{Timeout: cfg.Fetch.Timeout}),
		processor.NewCodec(),
		processor.NewRunner(),
		cfg.Validation.Limits(),
		m,
		l,
	)

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.ErrorHandler(restapi.ErrorHandler(l)),
	)
	restapi.NewRouter(httpServer.App, cfg, resizeUseCase, m, l)

	// Start Components
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}
}
