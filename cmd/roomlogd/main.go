package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/roomlog/internal/collector"
	"codeberg.org/mutker/roomlog/internal/config"
	"codeberg.org/mutker/roomlog/internal/errors"
	"codeberg.org/mutker/roomlog/internal/hub"
	"codeberg.org/mutker/roomlog/internal/logger"
	"codeberg.org/mutker/roomlog/internal/plot"
	"codeberg.org/mutker/roomlog/internal/store"
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

	if cfg.SensorName == "" || cfg.HubAddress == "" || cfg.HubToken == "" {
		err := errFactory.WithMessage(errors.ErrMissingConfig,
			"sensor_name, hub_address and hub_token must be set")
		logger.FatalWithCode(err).Send()
	}

	segmentStore, err := store.New(cfg.DataDir)
	if err != nil {
		logger.FatalWithCode(errFactory.Wrap(errors.ErrInitApp, err)).Msg("failed to initialize segment store")
	}

	hubClient, err := hub.New(hub.Config{
		Address: cfg.HubAddress,
		Token:   cfg.HubToken,
	})
	if err != nil {
		logger.FatalWithCode(errFactory.Wrap(errors.ErrInitApp, err)).Msg("failed to initialize hub client")
	}

	renderer, err := newRenderer(segmentStore)
	if err != nil {
		logger.FatalWithCode(errFactory.Wrap(errors.ErrInitApp, err)).Msg("failed to initialize plot renderer")
	}

	col, err := collector.New(collector.Config{
		Interval:   cfg.IntervalDuration(),
		Cycle:      cfg.CycleDuration(),
		SensorName: cfg.SensorName,
		Source:     hubClient,
		Store:      segmentStore,
		Renderer:   renderer,
	})
	if err != nil {
		logger.FatalWithCode(errFactory.Wrap(errors.ErrInitApp, err)).Msg("failed to initialize collector")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := col.Run(ctx); err != nil {
		logger.ErrorWithCode(errFactory.Wrap(errors.ErrMainLoop, err)).Send()
		os.Exit(1)
	}
	logger.Info().Msg("Exiting...")
}

func newRenderer(segmentStore *store.Store) (collector.Renderer, error) {
	if !cfg.StorePlots {
		return plot.NewNoop(), nil
	}

	return plot.New(segmentStore, cfg.PlotDir)
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
