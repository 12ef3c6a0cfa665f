// Package app assembles the inference service from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"petrasense/api/maintenance"
	"petrasense/config"
	"petrasense/core/inference"
	coremetrics "petrasense/core/metrics"
	coremon "petrasense/core/monitoring"
	"petrasense/core/predlog"
	"petrasense/core/registry"
	"petrasense/core/scheduler"
	"petrasense/infra/logger"
	"petrasense/infra/metrics"
	"petrasense/infra/monitoring"
	"petrasense/infra/mqtt"
	"petrasense/internal/eventbus"
)

// Service orchestrates the inference engine and its transports.
type Service struct {
	Engine *inference.Engine

	cfg     *config.Config
	bus     eventbus.EventBus
	log     logger.Logger
	mqtt    *mqtt.PahoClient
	api     *http.Server
	sweeper *scheduler.Sweeper
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	monitor, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(monitor)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	adapter := registry.New(cfg.Registry, cfg.Inference.ModelDir, logg)
	eng, err := inference.New(cfg.Inference, adapter, logg)
	if err != nil {
		return nil, fmt.Errorf("inference engine: %w", err)
	}

	bus := eventbus.New()
	eng.SetEventBus(bus)
	eng.SetMetricsSink(sink)

	store, err := newLogStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("prediction log: %w", err)
	}
	eng.SetLogStore(store)

	var client *mqtt.PahoClient
	if cfg.API.MQTTEnabled {
		client, err = mqtt.NewPahoClient(cfg.MQTT, eng)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
	}

	svc := &Service{Engine: eng, cfg: cfg, bus: bus, log: logg, mqtt: client}
	if cfg.Sweep.Enabled {
		svc.sweeper, err = scheduler.New(cfg.Sweep, eng, logg)
		if err != nil {
			return nil, fmt.Errorf("sweep scheduler: %w", err)
		}
	}
	svc.api = &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           svc.routes(adapter, store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metrics.StartEventCollector(context.Background(), bus, sink)
	return svc, nil
}

func newLogStore(cfg config.LoggingConfig) (predlog.LogStore, error) {
	switch cfg.Backend {
	case "sqlite":
		return predlog.NewSQLiteStore(cfg.Path)
	default:
		return predlog.NewJSONLStore(cfg.Path)
	}
}

func (s *Service) routes(adapter *registry.Adapter, store predlog.LogStore) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/maintenance/readings", maintenance.NewIngestHandler(s.Engine))
	mux.Handle("/api/maintenance/predict", maintenance.NewPredictHandler(s.Engine))
	mux.Handle("/api/maintenance/predict/batch", maintenance.NewBatchPredictHandler(s.Engine))
	mux.Handle("/api/maintenance/status", maintenance.NewStatusHandler(s.Engine))
	mux.Handle("/api/maintenance/models", maintenance.NewModelsHandler(adapter))
	mux.Handle("/api/maintenance/predictions", maintenance.NewLogHandler(store, s.cfg.API.AuthToken))
	return mux
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.Engine.Initialize(ctx)

	if s.sweeper != nil {
		go func() {
			defer coremon.Recover()
			if err := s.sweeper.Run(ctx); err != nil && ctx.Err() == nil {
				s.log.Errorf("fleet sweep: %v", err)
			}
		}()
	}

	if s.cfg.API.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.API.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		defer coremon.Recover()
		s.log.Infof("API listening on %s", s.cfg.API.Addr)
		if err := s.api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			coremon.CaptureException(err, map[string]string{"component": "api"})
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.api.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	err := s.Engine.Close()
	s.bus.Close()
	coremon.Flush(2 * time.Second)
	return err
}
