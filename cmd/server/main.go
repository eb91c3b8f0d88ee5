package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skypro1111/audio-cast-service/internal/config"
	"github.com/skypro1111/audio-cast-service/internal/library"
	"github.com/skypro1111/audio-cast-service/internal/metrics"
	"github.com/skypro1111/audio-cast-service/internal/notify"
	"github.com/skypro1111/audio-cast-service/internal/playback"
	"github.com/skypro1111/audio-cast-service/internal/publish"
	"github.com/skypro1111/audio-cast-service/internal/server"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "audio-cast-service"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration; fall back to defaults when the default config
	// file is absent so the service runs out of the box
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	// Log service startup
	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	// Log configuration summary
	logger.Info("Configuration loaded",
		slog.String("publish_host", cfg.Publish.Host),
		slog.Int("publish_port", cfg.Publish.Port),
		slog.String("http_address", cfg.HTTP.Address),
		slog.Int("http_port", cfg.HTTP.Port),
		slog.String("library_path", cfg.Library.Path),
		slog.Bool("library_watch", cfg.Library.Watch),
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.Int("chunk_size", cfg.Audio.ChunkSize),
		slog.Duration("frame_interval", cfg.Audio.GetFrameInterval()),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	// Initialize sample library
	lib, err := library.New(cfg.Library.Path, logger)
	if err != nil {
		logger.Error("Failed to open sample library", slog.String("error", err.Error()))
		os.Exit(1)
	}
	appMetrics.SetLibraryFiles(lib.Count())
	logger.Info("Sample library opened",
		slog.String("path", lib.Root()),
		slog.Int("files", lib.Count()),
	)

	// Initialize status notifier
	notifier := notify.New(logger)

	// Initialize playback manager on top of the UDP publish transport
	opener := &publish.UDPOpener{
		Host:   cfg.Publish.Host,
		Port:   cfg.Publish.Port,
		Logger: logger,
	}

	manager, err := playback.NewManager(logger, playback.Config{
		ChunkSize:     cfg.Audio.ChunkSize,
		FrameInterval: cfg.Audio.GetFrameInterval(),
	}, &playback.LibrarySource{Library: lib}, opener, notifier, appMetrics)
	if err != nil {
		logger.Error("Failed to create playback manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Playback manager initialized",
		slog.Int("chunk_size", cfg.Audio.ChunkSize),
		slog.Duration("frame_interval", cfg.Audio.GetFrameInterval()),
	)

	// Watch the library directory and push change notifications to
	// connected observers (if enabled)
	var watcher *library.Watcher
	if cfg.Library.Watch {
		watcher, err = lib.Watch(func() {
			appMetrics.SetLibraryFiles(lib.Count())
			notifier.Broadcast(notify.NewFilesUpdatedEvent())
		})
		if err != nil {
			logger.Error("Failed to start library watcher", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Initialize HTTP control API server
	httpServer := server.NewHTTPServer(cfg.HTTP, logger, manager, lib, notifier, appMetrics)
	logger.Info("HTTP control server initialized",
		slog.String("address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
	)

	if err := httpServer.Start(); err != nil {
		logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, waiting for signals...",
		slog.String("publish_target", fmt.Sprintf("%s:%d", cfg.Publish.Host, cfg.Publish.Port)),
	)

	sig := <-sigChan
	logger.Info("Received shutdown signal", slog.String("signal", sig.String()))

	logger.Info("Starting graceful shutdown...")

	// Stop HTTP server first (stop accepting new commands and observers)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
	}

	// Stop the library watcher
	if watcher != nil {
		if err := watcher.Close(); err != nil {
			logger.Error("Error stopping library watcher", slog.String("error", err.Error()))
		}
	}

	// Stop any active playback session and release its channel
	manager.Stop()

	// Signal remaining observers to disconnect
	notifier.Close()

	// Get final statistics
	st := manager.Status()
	logger.Info("Final playback statistics",
		slog.Uint64("sessions_total", st.SessionID),
		slog.Uint64("bytes_sent_last_session", st.BytesSent),
	)

	logger.Info("Service stopped")
}

// loadConfig loads the configuration file, treating an absent file at the
// default path as a request for built-in defaults
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == defaultConfigPath {
		return config.Default(), nil
	}
	return config.Load(path)
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
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
		level = slog.LevelInfo // default fallback
	}

	// Configure handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // Add source info for debug level
	}

	// Determine output destination
	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	// Create handler based on format
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text", "":
		handler = slog.NewTextHandler(output, opts)
	default:
		// Default to text format
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
