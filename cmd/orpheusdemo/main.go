// Orpheusdemo serves a single-page text-to-speech demo that simulates, but
// does not perform, synthesis with an Orpheus-3B model.
//
// Usage:
//
//	orpheusdemo [flags]
//	orpheusdemo --config /path/to/orpheusdemo.yaml
//
//	@title			orpheusdemo API
//	@version		1.0
//	@description	Placeholder text-to-speech demo. Fabricates a description and metrics block; no model is loaded and no audio is produced.
//	@BasePath		/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nadzzz/orpheusdemo/internal/config"
	"github.com/nadzzz/orpheusdemo/internal/dispatch"
	"github.com/nadzzz/orpheusdemo/internal/health"
	"github.com/nadzzz/orpheusdemo/internal/transport"
	grpctransport "github.com/nadzzz/orpheusdemo/internal/transport/grpc"
	httptransport "github.com/nadzzz/orpheusdemo/internal/transport/http"
	"github.com/nadzzz/orpheusdemo/internal/tts"
	"github.com/nadzzz/orpheusdemo/internal/tts/placeholder"
	"github.com/nadzzz/orpheusdemo/internal/ui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/orpheusdemo.yaml)")
	printConfig := flag.Bool("print-config", false, "print the effective configuration as YAML and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("orpheusdemo %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *printConfig {
		if err := cfg.WriteYAML(os.Stdout); err != nil {
			slog.Error("failed to print configuration", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Setup structured logging.
	logCloser, err := config.SetupLogging(cfg.Logging)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	slog.Info("orpheusdemo starting", "version", version)

	if err := run(cfg); err != nil {
		slog.Error("orpheusdemo failed", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
	slog.Info("orpheusdemo stopped")
}

func run(cfg *config.Config) error {
	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Only the placeholder backend exists; Validate rejects anything else.
	var synth tts.Synthesizer = placeholder.NewSeeded(cfg.Demo.Seed)
	defer synth.Close()
	slog.Info("using synthesizer", "backend", synth.Name(), "seeded", cfg.Demo.Seed != 0)

	page := ui.Build(ui.Options{Title: cfg.Demo.Title})
	dispatcher := dispatch.New(page, synth)

	healthServer := health.New(cfg.Server.HealthPort)

	transports := []transport.Transport{
		httptransport.New(cfg.Server.Host, cfg.Server.Port),
	}
	if cfg.Transports.GRPC.Enabled {
		grpcTransport := grpctransport.New(cfg.Transports.GRPC.Port)
		healthServer.OnReady(grpcTransport.SetReady)
		transports = append(transports, grpcTransport)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return healthServer.ListenAndServe(gctx)
	})

	for _, t := range transports {
		g.Go(func() error {
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(gctx, dispatcher); err != nil {
				return fmt.Errorf("%s transport: %w", t.Name(), err)
			}
			return nil
		})
	}

	// Mark as ready once all transports are started.
	healthServer.SetReady(true)
	slog.Info("orpheusdemo ready",
		"addr", cfg.Server.Host,
		"port", cfg.Server.Port,
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	// Block until shutdown signal or a transport failure.
	<-gctx.Done()
	slog.Info("shutting down, draining...")
	healthServer.SetReady(false)

	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	return g.Wait()
}
