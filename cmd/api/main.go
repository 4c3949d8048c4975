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

	"github.com/joho/godotenv"

	"github.com/zhouzirui/lingua-channel/internal/config"
	"github.com/zhouzirui/lingua-channel/internal/handler"
	"github.com/zhouzirui/lingua-channel/internal/handler/channel"
	"github.com/zhouzirui/lingua-channel/internal/logging"
	"github.com/zhouzirui/lingua-channel/internal/model/chat"
	"github.com/zhouzirui/lingua-channel/internal/service/hub"
	"github.com/zhouzirui/lingua-channel/internal/service/intake"
	"github.com/zhouzirui/lingua-channel/internal/service/moderation"
	"github.com/zhouzirui/lingua-channel/internal/service/transcript"
	"github.com/zhouzirui/lingua-channel/internal/service/translation"
	"github.com/zhouzirui/lingua-channel/internal/store"
	"github.com/zhouzirui/lingua-channel/internal/telemetry"
)

const serviceVersion = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	telemetry.Init()
	shutdownTracing, err := telemetry.InitTracing(logger, "lingua-channel", serviceVersion)
	if err != nil {
		logger.Warnf("[main] tracing unavailable: %v", err)
	} else {
		defer shutdownTracing()
	}

	backend, err := store.Open(ctx, cfg.Store)
	if err != nil {
		logger.Fatalf("[main] failed to open %s store: %v", cfg.Store.Backend, err)
	}
	defer backend.Close()

	transcriptSvc := transcript.NewService(backend, cfg.Channel.MessageLimit, logger)
	if err := transcriptSvc.EnsureWelcome(ctx, chat.WelcomeText(cfg.Channel.Languages)); err != nil {
		logger.Fatalf("[main] failed to write welcome message: %v", err)
	}

	// Translation and moderation share one chat model when Ark is configured
	var translator translation.Translator = translation.Unavailable{}
	var moderationSvc *moderation.Service
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			logger.Warnf("[main] failed to create chat model, translations will fail: %v", err)
		} else {
			chainTranslator, err := translation.NewChainTranslator(ctx, chatModel)
			if err != nil {
				logger.Fatalf("[main] failed to build translator: %v", err)
			}
			translator = chainTranslator

			moderationSvc, err = moderation.NewService(ctx, chatModel, moderation.Config{LLMEnabled: cfg.AI.ModerationLLMEnabled}, logger)
			if err != nil {
				logger.Fatalf("[main] failed to build moderation service: %v", err)
			}
			logger.Info("[main] AI translation initialized successfully")
		}
	} else {
		logger.Warn("[main] Ark 凭证未配置，翻译请求将返回失败提示")
	}
	if moderationSvc == nil {
		moderationSvc, err = moderation.NewService(ctx, nil, moderation.Config{}, logger)
		if err != nil {
			logger.Fatalf("[main] failed to build moderation service: %v", err)
		}
	}

	dispatcher := translation.NewDispatcher(translator, cfg.Channel.Languages, logger)
	filter := moderation.NewFilter(dispatcher, moderationSvc, logger)
	intakeSvc := intake.NewService(filter, dispatcher, transcriptSvc, logger)

	if cfg.Hub.RegisterOnStart {
		registerCtx, cancel := context.WithTimeout(ctx, cfg.Hub.Timeout)
		if err := hub.NewRegistrar(cfg.Hub, cfg.Channel, nil, logger).Register(registerCtx); err != nil {
			logger.Warnf("[main] hub registration failed, continuing: %v", err)
		}
		cancel()
	}

	router := handler.NewRouter(cfg.Channel.AuthKey, channel.New(cfg.Channel.Name, transcriptSvc, intakeSvc))

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger *logging.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Infof("[main] channel listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		logger.Fatalf("[main] server error: %v", err)
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
