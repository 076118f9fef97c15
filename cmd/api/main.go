package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/catalog"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/imagegen"
	"server/internal/infra"
	"server/internal/media"
	"server/internal/premium"
)

func main() {
	// .env es opcional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	catalogClient := catalog.NewClient(catalog.Options{
		Domain: cfg.ShopifyDomain,
		Token:  cfg.ShopifyStorefrontToken,
	})
	uploader := media.NewUploader(media.Options{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
	})
	synthesizer := imagegen.NewClient(imagegen.Options{
		Token:   cfg.ReplicateToken,
		BaseURL: cfg.ReplicateBaseURL,
		Logger:  logger,
	})
	orchestrator := premium.NewOrchestrator(uploader, synthesizer, cfg.ShopifyDomain, logger)

	app := handlers.NewApp(cfg, logger, catalogClient, orchestrator)
	router := httpapi.NewRouter(app, logger, cfg.AllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
