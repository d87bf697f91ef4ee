package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"picshare/images/application"
	"picshare/images/persistence"
	"picshare/internal/middleware"
	"picshare/internal/rest"
	"picshare/shared/config"
	"picshare/shared/db/sqlite"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig(cfg.Metadata.DBPath))
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect metadata database")
	}
	defer database.Close()
	log.Info().Str("path", cfg.Metadata.DBPath).Msg("Metadata database connected")

	logStore, err := persistence.NewLogStore(cfg.AuditLog.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open audit log table")
	}
	defer logStore.Close()
	log.Info().Str("path", cfg.AuditLog.Path).Msg("Audit log table opened")

	blobStore, err := persistence.NewMinioBlobStore(persistence.MinioBlobStoreConfig{
		Endpoint:      cfg.Blobs.Endpoint,
		AccessKey:     cfg.Blobs.AccessKey,
		SecretKey:     cfg.Blobs.SecretKey,
		UseSSL:        cfg.Blobs.UseSSL,
		Bucket:        cfg.Blobs.Bucket,
		PublicBaseURL: cfg.Blobs.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create blob store client")
	}
	if err := blobStore.EnsureBucket(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure blob bucket")
	}
	log.Info().Str("endpoint", cfg.Blobs.Endpoint).Str("bucket", cfg.Blobs.Bucket).Msg("Blob store ready")

	imageGateway := application.NewImageGateway(
		persistence.NewMetadataStore(database.DB()),
		blobStore,
	)
	logGateway := application.NewLogGateway(logStore)

	service := gin.New()
	service.Use(middleware.LoggingMiddleware())
	service.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(service, imageGateway, logGateway)

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: service,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()
	log.Info().Str("addr", cfg.Server.ListenAddr).Msg("picshare server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}

	log.Info().Msg("picshare server stopped")
}
