package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"petrasense/app"
	"petrasense/config"
	"petrasense/infra/logger"
	"petrasense/infra/mqtt"
	"petrasense/internal/eventbus"
	"petrasense/simulator"
)

var simLocal bool

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate degrading sensor streams for a simulated fleet",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&simLocal, "local", false, "run the service in-process and feed it directly instead of publishing to MQTT")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("simulate")

	if simLocal {
		return runSimulateLocal(ctx, cfg, logg)
	}

	client, err := mqtt.NewPahoClient(cfg.MQTT, nil)
	if err != nil {
		return fmt.Errorf("mqtt client: %w", err)
	}
	defer client.Disconnect()

	sim, err := simulator.New(cfg.Simulator, simulator.PublisherFeed{Pub: client}, logg)
	if err != nil {
		return err
	}
	if err := sim.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runSimulateLocal(ctx context.Context, cfg *config.Config, logg logger.Logger) error {
	cfg.API.MQTTEnabled = false
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	bus := eventbus.NewTyped[simulator.Reading]()
	defer bus.Close()
	simulator.StartBusIngest(ctx, bus, svc.Engine)

	sim, err := simulator.New(cfg.Simulator, simulator.BusFeed{Bus: bus}, logg)
	if err != nil {
		return err
	}
	go func() {
		if err := sim.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Errorf("simulator: %v", err)
		}
	}()
	return svc.Run(ctx)
}
