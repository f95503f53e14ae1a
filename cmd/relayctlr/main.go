package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/noman1228/RelayCtlr/internal/config"
	"github.com/noman1228/RelayCtlr/internal/discovery"
	"github.com/noman1228/RelayCtlr/internal/dispatch"
	"github.com/noman1228/RelayCtlr/internal/metrics"
	"github.com/noman1228/RelayCtlr/internal/relay"
	"github.com/noman1228/RelayCtlr/internal/server"
	"github.com/noman1228/RelayCtlr/internal/transport"
	"github.com/noman1228/RelayCtlr/internal/watchdog"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "relayctlr"
	serviceVersion    = "1.0.0"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logging)
	logger.Info("service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)
	logger.Info("configuration loaded",
		slog.Int("universe", int(cfg.DMX.Universe)),
		slog.Int("start_channel", int(cfg.DMX.StartChannel)),
		slog.Int("relays", cfg.DMX.RelayCount),
		slog.Int("artnet_port", cfg.Network.ArtNetPort),
		slog.Int("ddp_port", cfg.Network.DDPPort),
		slog.Int("discovery_port", cfg.Network.DiscoveryPort),
		slog.Duration("watchdog_timeout", cfg.Watchdog.Timeout()),
	)

	appMetrics := metrics.NewMetrics()

	// Relay table starts all-off and has exactly one writer: the dispatcher.
	table, err := relay.NewTable(cfg.DMX.RelayCount)
	if err != nil {
		logger.Error("failed to create relay table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	watchdogOpts := []watchdog.Option{watchdog.WithTimeout(cfg.Watchdog.Timeout())}
	if cfg.Watchdog.ForceRelaysOff {
		watchdogOpts = append(watchdogOpts, watchdog.WithOnStale(func() {
			logger.Warn("receive timeout, forcing all relays off")
			table.SetAll(false)
		}))
	}
	dog := watchdog.New(watchdogOpts...)

	artnetSrc, err := transport.ListenUDP(cfg.Network.BindAddress, cfg.Network.ArtNetPort)
	if err != nil {
		logger.Error("failed to open Art-Net socket", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer artnetSrc.Close()
	logger.Info("Art-Net listener started", slog.String("address", artnetSrc.LocalAddr().String()))

	ddpSrc, err := transport.ListenUDP(cfg.Network.BindAddress, cfg.Network.DDPPort)
	if err != nil {
		logger.Error("failed to open DDP socket", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer ddpSrc.Close()
	logger.Info("DDP listener started", slog.String("address", ddpSrc.LocalAddr().String()))

	sacnSrc, err := transport.NewSACNSource(cfg.Network.BindAddress, cfg.DMX.Universe, nil, logger)
	if err != nil {
		logger.Error("failed to start sACN receiver", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sacnSrc.Close()

	dispatcher := dispatch.New(dispatch.Config{
		Universe:     cfg.DMX.Universe,
		Subnet:       cfg.DMX.Subnet,
		StartChannel: cfg.DMX.StartChannel,
		TickInterval: cfg.Watchdog.TickInterval(),
	}, table, dog, artnetSrc, sacnSrc, ddpSrc, logger, appMetrics)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = serviceName
	}
	descriptor := discovery.NewDescriptor(hostname, localIP(), serviceVersion,
		cfg.DMX.Universe, cfg.DMX.StartChannel, cfg.DMX.RelayCount)
	responder, err := discovery.NewResponder(cfg.Network.BindAddress, cfg.Network.DiscoveryPort,
		descriptor, logger, appMetrics)
	if err != nil {
		logger.Error("failed to start discovery responder", slog.String("error", err.Error()))
		os.Exit(1)
	}
	responder.Start()

	var httpServer *server.HTTPServer
	if cfg.HTTP.Enabled {
		httpServer = server.NewHTTPServer(cfg, logger, table, dog)
		httpServer.Start()
	}

	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("service started, waiting for signals")
	sig := <-sigChan
	logger.Info("received shutdown signal", slog.String("signal", sig.String()))

	cancel()

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("error stopping HTTP server", slog.String("error", err.Error()))
		}
	}
	responder.Stop()

	logger.Info("service stopped",
		slog.Uint64("frames_decoded", dog.Counter()),
	)
}

// localIP returns the primary outbound IPv4 address for the discovery
// descriptor, or the unspecified address when the host is offline.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "0.0.0.0"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// initLogger creates the structured logger from configuration.
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}
