package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"banksy/internal/domain/jsoncfg"
	"banksy/internal/http/handlers"
	httpapi "banksy/internal/http/httpapi"
	"banksy/internal/infra"
	"banksy/internal/providers/image"
	"banksy/internal/reference"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	style, err := jsoncfg.LoadStyle(cfg.StylePrompt, cfg.StyleDescriptorPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.StyleDescriptorPath).Msg("failed to load style descriptor")
	}

	generator := image.NewOpenAIGenerator(image.OpenAIOptions{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		Organization:   cfg.OpenAIOrg,
		Model:          cfg.ImageModel,
		Size:           cfg.ImageSize,
		RequestTimeout: cfg.ImageRequestTimeout,
		Logger:         &logger,
	})
	if !generator.HasCredentials() {
		logger.Warn().Msg("OPENAI_API_KEY is not set; generate requests will be refused")
	}

	refs := reference.NewResolver(reference.Options{
		URL:    cfg.ReferenceURL,
		Base64: cfg.ReferenceBase64,
		Path:   cfg.ReferencePath,
		Dir:    cfg.ReferenceDir,
		Logger: &logger,
	})

	app := handlers.NewApp(logger, generator, refs, style)
	router := httpapi.NewRouter(cfg, logger, app)
	server := infra.NewHTTPServer(cfg, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().
			Str("model", generator.Model()).
			Str("size", generator.Size()).
			Bool("reference", refs.Resolve() != nil).
			Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
