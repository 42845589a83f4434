package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/papercast/papercast/internal/config"
	"github.com/papercast/papercast/internal/handler"
	"github.com/papercast/papercast/internal/service/configstore"
	"github.com/papercast/papercast/internal/service/dispatch"
	"github.com/papercast/papercast/internal/service/logtail"
	"github.com/papercast/papercast/internal/service/mailer"
	"github.com/papercast/papercast/internal/service/pipeline"
	"github.com/papercast/papercast/internal/service/upload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := setupLogger(cfg)

	// The starting snapshot anchors the editor's reset action for the whole
	// process lifetime. A missing document is fatal: the UI cannot come up
	// without something to edit.
	starting, err := os.ReadFile(cfg.ModelsConfigPath)
	if err != nil {
		log.Fatalf("failed to read configuration document %s: %v", cfg.ModelsConfigPath, err)
	}
	store := configstore.New(cfg.ModelsConfigPath, string(starting))
	if cfg.SchemaValidation {
		store.EnableSchemaValidation()
		logger.Info("configuration schema validation enabled")
	}

	if err := os.MkdirAll(cfg.DemoOutputDir, 0o755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}
	uploads, err := upload.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to create upload store: %v", err)
	}

	tailer := logtail.New(cfg.FrontendLogPath, cfg.LogPollInterval, logger)
	go tailer.Run(ctx)

	if cfg.PipelineBaseURL == "" {
		logger.Warn("API_SERVICE_URL is not set; generation will fail until it is configured")
	}
	dispatcher := dispatch.New(
		pipeline.New(cfg.PipelineBaseURL, &http.Client{}),
		mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmailPassword),
		cfg.DemoOutputDir,
		cfg.HasSenderSecret(),
		logger,
	)

	router := handler.NewRouter(cfg, logger, store, tailer, dispatcher, uploads)

	logger.Info("starting papercast frontend",
		"addr", cfg.Addr(),
		"config_document", cfg.ModelsConfigPath,
		"log_file", cfg.FrontendLogPath,
		"proxy_prefix", cfg.ProxyPrefix,
		"email_enabled", cfg.HasSenderSecret(),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
