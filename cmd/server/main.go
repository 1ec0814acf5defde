package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"modelforge/internal/api"
	"modelforge/internal/config"
	"modelforge/internal/logger"
	"modelforge/internal/pg"
	"modelforge/internal/session"
	"modelforge/internal/suggest"
	"modelforge/internal/template"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("modelforge.json", os.Args[1:])
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. starter templates
	catalog, err := template.LoadCatalog(cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	log.Info("templates loaded", "dir", cfg.TemplatesDir, "count", len(catalog.List()))

	// 2. sessions and handlers
	srv := api.NewServer(session.NewStore(), catalog, log)
	srv.TemplatesDir = cfg.TemplatesDir
	srv.ExportRoot = cfg.ExportRoot
	srv.AutoApply = cfg.AutoApply
	srv.SystemName = cfg.SystemName

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. optional database and suggestion endpoint
	if cfg.DBURL != "" {
		db, err := pg.Open(ctx, cfg.DBURL)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer func(db *sql.DB) { _ = db.Close() }(db)
		srv.DB = db
		log.Info("database connected", "db_url", cfg.DBURL)
	}
	if cfg.AIEndpoint != "" {
		client, err := suggest.New(log, suggest.Options{
			Endpoint: cfg.AIEndpoint,
			APIKey:   cfg.AIAPIKey,
			Timeout:  cfg.AITimeout.Duration,
		})
		if err != nil {
			return fmt.Errorf("suggest: %w", err)
		}
		srv.Suggest = client
	}

	// 4. HTTP
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("modelforge listening", "port", cfg.Port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
