package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/roomlog/internal/config"
	"codeberg.org/mutker/roomlog/internal/errors"
	"codeberg.org/mutker/roomlog/internal/logger"
	"codeberg.org/mutker/roomlog/internal/query"
	"codeberg.org/mutker/roomlog/internal/store"
	"codeberg.org/mutker/roomlog/internal/web"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	applyLogLevel(cfg.LogLevel)
	logger.Debug().Msg("Config loaded")
}

func main() {
	errFactory := errors.New()

	segmentStore, err := store.New(cfg.DataDir)
	if err != nil {
		logger.FatalWithCode(errFactory.Wrap(errors.ErrInitApp, err)).Msg("failed to open segment store")
	}

	engine := query.NewEngine(segmentStore)
	server := web.NewServer(web.Config{
		Listen:         cfg.Listen,
		AllowedOrigins: cfg.AllowedOrigins,
	}, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := server.Run(ctx); err != nil {
		logger.ErrorWithCode(errFactory.Wrap(errors.ErrMainLoop, err)).Send()
		os.Exit(1)
	}
	logger.Info().Msg("Exiting...")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func applyLogLevel(level string) {
	switch level {
	case "debug":
		logger.SetLogLevel(logger.DebugLevel)
	case "info":
		logger.SetLogLevel(logger.InfoLevel)
	case "warning":
		logger.SetLogLevel(logger.WarnLevel)
	case "error":
		logger.SetLogLevel(logger.ErrorLevel)
	}
}
