// Command register announces the channel to the hub once and exits.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/lingua-channel/internal/config"
	"github.com/zhouzirui/lingua-channel/internal/logging"
	"github.com/zhouzirui/lingua-channel/internal/service/hub"
)

func main() {
	if err := run(); err != nil {
		log.Printf("[register] %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(ctx, cfg.Hub.Timeout)
	defer cancel()

	return hub.NewRegistrar(cfg.Hub, cfg.Channel, nil, logger).Register(ctx)
}
