package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/greenery-detector/internal/analysis"
	"github.com/ironsheep/greenery-detector/internal/api"
	"github.com/ironsheep/greenery-detector/internal/config"
	"github.com/ironsheep/greenery-detector/internal/logging"
	"github.com/ironsheep/greenery-detector/internal/server"
	"github.com/ironsheep/greenery-detector/internal/tiles"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 15 * time.Second

func main() {
	var (
		configPath string
		mcpMode    bool
	)

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("greenery-detector %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "--mcp":
			mcpMode = true
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n\n", args[i])
			printUsage()
			os.Exit(2)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Server.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting greenery-detector",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.Bool("mcp", mcpMode))

	if cfg.Mapbox.AccessToken == "" {
		logger.Warn("MAPBOX_ACCESS_TOKEN is not set, location analyses will fail")
	}

	source, err := tiles.NewMapboxSource(cfg.Mapbox, nil)
	if err != nil {
		logger.Fatal("invalid mapbox configuration", zap.Error(err))
	}

	defaults, err := cfg.AnalysisOptions()
	if err != nil {
		logger.Fatal("invalid analysis configuration", zap.Error(err))
	}

	service, err := analysis.NewService(source, defaults, cfg.Analysis,
		analysis.WithZoom(cfg.Mapbox.Zoom),
		analysis.WithLogger(logger.Named("analysis")))
	if err != nil {
		logger.Fatal("failed to create analysis service", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if mcpMode {
		srv := server.New(service,
			server.WithLogger(logger.Named("mcp")),
			server.WithVersion(Version),
			server.WithJPEGQuality(cfg.Overlay.JPEGQuality))
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal("mcp server error", zap.Error(err))
		}
		return
	}

	if err := serveHTTP(ctx, cfg, service, logger); err != nil {
		logger.Fatal("http server error", zap.Error(err))
	}
}

// serveHTTP runs the HTTP API until ctx is canceled, then drains in-flight
// requests.
func serveHTTP(ctx context.Context, cfg *config.Config, service *analysis.Service, logger *zap.Logger) error {
	gin.SetMode(cfg.Server.Mode)

	handler := api.NewHandler(service,
		api.HandlerConfig{
			JPEGQuality:    cfg.Overlay.JPEGQuality,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
		},
		api.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit},
		logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(handler, logger.Named("http")),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func printUsage() {
	fmt.Println("greenery-detector - vegetation coverage from satellite imagery")
	fmt.Println()
	fmt.Println("Usage: greenery-detector [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c PATH  Read configuration from a YAML, JSON or TOML file")
	fmt.Println("  --mcp              Serve MCP over stdin/stdout instead of HTTP")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  MAPBOX_ACCESS_TOKEN           Mapbox API token (required for location analyses)")
	fmt.Println("  GREENERY_SERVER_ADDR=:8080    HTTP listen address")
	fmt.Println("  GREENERY_LOG_LEVEL=debug      Enable debug logging")
	fmt.Println("  GREENERY_DETECTION_HUE_MIN=25 Override any configuration key")
	fmt.Println()
	fmt.Println("A .env file in the working directory is loaded if present.")
}
