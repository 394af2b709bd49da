package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JUDEBARNABAS/atim/internal/config"
	"github.com/JUDEBARNABAS/atim/internal/domain/model"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/adapter"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/repository"
	aiAdapters "github.com/JUDEBARNABAS/atim/internal/infra/adapters/ai"
	"github.com/JUDEBARNABAS/atim/internal/infra/adapters/translate"
	"github.com/JUDEBARNABAS/atim/internal/infra/logging"
	"github.com/JUDEBARNABAS/atim/internal/infra/metrics"
	"github.com/JUDEBARNABAS/atim/internal/infra/sched"
	"github.com/JUDEBARNABAS/atim/internal/infra/store"
	"github.com/JUDEBARNABAS/atim/internal/infra/web"
	"github.com/JUDEBARNABAS/atim/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode (console logs, unredacted text)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	langs, err := model.NewLanguageRegistry(cfg.Languages.Pivot, cfg.Languages.Names)
	if err != nil {
		logger.Fatal().Err(err).Msg("languages")
	}

	// ---- Translation gateway ----
	var backend translate.Backend
	if cfg.Translator.URL != "" {
		backend, err = translate.NewRemote(cfg.Translator.URL, cfg.Translator.Timeout.Std())
		if err != nil {
			logger.Fatal().Err(err).Msg("translator")
		}
		logger.Info().Str("url", cfg.Translator.URL).Msg("translation backend: remote")
	} else {
		backend = translate.NewNoop()
		logger.Warn().Msg("TRANSLATOR_URL not set; translation is disabled")
	}
	translator := translate.NewGateway(backend, langs, logger)

	// ---- Chat model (Gemini -> OpenAI-compatible -> disabled) ----
	var chatModel adapter.ChatModel
	switch {
	case cfg.AI.GeminiKey != "":
		chatModel, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("chat model: gemini")
	case cfg.AI.OpenAIKey != "":
		chatModel, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.AI.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("model", cfg.AI.Model).Msg("chat model: openai-compatible")
	default:
		chatModel = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("no AI credential set; chat is disabled")
	}
	chatModel = aiAdapters.NewLimitedChat(chatModel, cfg.AI.ConcurrentLimit)

	// ---- Conversation store ----
	var convStore repository.ConversationStore
	if cfg.Session.Store == "redis" {
		cli, err := store.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer func() { _ = cli.Close() }()
		convStore = store.NewRedisStore(cli, cfg.Session.IdleTTL.Std(), logger)
		logger.Info().Str("addr", cfg.Redis.URL).Msg("conversation store: redis")
	} else {
		memStore := store.NewMemoryStore(logger)
		convStore = memStore
		if cfg.Session.IdleTTL > 0 {
			worker := sched.NewEvictionWorker(cfg.Session.SweepInterval.Std(), cfg.Session.IdleTTL.Std(), memStore, logger)
			go func() { _ = worker.Run(ctx) }()
		}
		logger.Info().Msg("conversation store: memory")
	}

	// ---- Use cases ----
	converseUC := usecase.NewConverseUseCase(convStore, translator, chatModel, langs, logger, cfg.Runtime.Dev)
	translateUC := usecase.NewTranslateUseCase(translator)

	// ---- HTTP server ----
	srv := web.NewServer(converseUC, translateUC, langs, cfg.Session, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
