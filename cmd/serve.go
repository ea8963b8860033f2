package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"urbanflux/config"
	"urbanflux/db"
	uhttp "urbanflux/http"
	"urbanflux/logging"
	"urbanflux/prediction"
	"urbanflux/route"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Load the models and serve the HTTP API",
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, cfg.Service.Name)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	services := prediction.Load(
		prediction.Loader{Logger: logger, CacheSize: cfg.Models.CacheSize},
		prediction.ModelPaths{
			Freshness: cfg.Models.Freshness,
			Spoilage:  cfg.Models.Spoilage,
			Priority:  cfg.Models.Priority,
		},
	)
	uhttp.RecordModelState(services.Loaded())

	source, closeSource, err := routeSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	api := uhttp.NewAPI(cfg.Service.Name, services, route.NewAnalyzer(source), logger)
	server := uhttp.NewServer(uhttp.ServerConfigFrom(cfg), api, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("signal received", zap.String("signal", sig.String()))
	}

	if err := server.Stop(); err != nil {
		logger.Error("shutdown", zap.Error(err))
		return err
	}
	logger.Info("exiting")
	return nil
}

// routeSource prefers the SQLite store and falls back to the segments
// listed in the config.
func routeSource(cfg *config.Config) (route.Source, func(), error) {
	if cfg.Route.Database != "" {
		store, err := db.OpenRouteStore(cfg.Route.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("open route store: %w", err)
		}
		return store, func() { store.Close() }, nil
	}
	return staticSegments(cfg.Route.Segments), func() {}, nil
}

func staticSegments(segments []config.Segment) route.StaticSource {
	out := make(route.StaticSource, len(segments))
	for i, s := range segments {
		out[i] = route.Segment(s)
	}
	return out
}
