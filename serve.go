package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/receipt-escape/api"
	"github.com/wricardo/receipt-escape/game/archive"
	"github.com/wricardo/receipt-escape/game/config"
	"github.com/wricardo/receipt-escape/game/engine"
	"github.com/wricardo/receipt-escape/game/metrics"
	"github.com/wricardo/receipt-escape/game/service"
	"github.com/wricardo/receipt-escape/transport/mcp"
	"github.com/wricardo/receipt-escape/transport/websocket"
)

// cleanupInterval is how often the archive is pruned
const cleanupInterval = time.Hour

// storageFlags are shared by every command that builds the service
func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config-dir",
			Usage:   "directory containing deck JSON files",
			Value:   "configs",
			Sources: cli.EnvVars("CONFIG_DIR"),
		},
		&cli.StringFlag{
			Name:    "archive-dir",
			Usage:   "directory where generated puzzles are kept (empty keeps them in memory)",
			Value:   "archive",
			Sources: cli.EnvVars("ARCHIVE_DIR"),
		},
		&cli.DurationFlag{
			Name:    "retention",
			Usage:   "how long generated puzzles are kept",
			Value:   24 * time.Hour,
			Sources: cli.EnvVars("RETENTION"),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server with REST API, print station WebSocket and MCP endpoint",
		Flags: append(storageFlags(),
			&cli.IntFlag{Name: "port", Usage: "HTTP server port", Value: 8080, Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "host", Usage: "HTTP server host", Value: "localhost", Sources: cli.EnvVars("HOST")},
			&cli.BoolFlag{Name: "trace", Usage: "export OpenTelemetry spans to stdout", Sources: cli.EnvVars("TRACE")},
			&cli.BoolFlag{Name: "metrics", Usage: "export OpenTelemetry generation metrics to stdout", Sources: cli.EnvVars("METRICS")},
			&cli.DurationFlag{Name: "metrics-interval", Usage: "how often metrics are exported", Value: time.Minute, Sources: cli.EnvVars("METRICS_INTERVAL")},
			&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		),
		Action: runServe,
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "run an MCP stdio server, starting an internal HTTP API if none is reachable",
		Flags: append(storageFlags(),
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "REST API to proxy to when it is already running",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("API_URL"),
			},
		),
		Action: runStdioMCP,
	}
}

// services bundles what the commands need from initializeServices
type services struct {
	puzzles service.PuzzleService
	store   *archive.Store
	decks   *config.Manager
}

// initializeServices wires the deck manager, the artifact archive and the
// puzzle service. notifier may be nil.
func initializeServices(configDir, archiveDir string, notifier service.Notifier) (*services, error) {
	decks, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck manager: %w", err)
	}

	store := archive.NewStore()
	if archiveDir != "" {
		persistence, err := archive.NewFilePersistence(archiveDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive persistence: %w", err)
		}
		store = archive.NewStoreWithPersistence(persistence)
		if err := store.LoadPersisted(); err != nil {
			logrus.WithError(err).Warn("Failed to load persisted puzzles")
		}
		logrus.WithFields(logrus.Fields{"dir": archiveDir, "puzzles": store.Count()}).Info("Archive opened")
	}

	engineOpts := []engine.Option{}
	if gm, err := metrics.NewGenerationMetrics(); err != nil {
		logrus.WithError(err).Warn("Generation metrics disabled")
	} else {
		engineOpts = append(engineOpts, engine.WithMetrics(gm))
	}
	gen := engine.New(engineOpts...)

	opts := []service.Option{}
	if notifier != nil {
		opts = append(opts, service.WithNotifier(notifier))
	}

	return &services{
		puzzles: service.NewPuzzleService(gen, store, decks, opts...),
		store:   store,
		decks:   decks,
	}, nil
}

// archiveCleanupRoutine periodically removes puzzles older than retention
func archiveCleanupRoutine(ctx context.Context, store *archive.Store, retention time.Duration) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := store.CleanupExpired(retention)
			logrus.WithFields(logrus.Fields{
				"removed":   removed,
				"remaining": store.Count(),
			}).Debug("Archive cleanup finished")
		}
	}
}

// initTracer installs a stdout span exporter; the returned func flushes it
func initTracer() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// initMeter installs a meter provider that periodically exports to stdout.
// It must run before the generation metrics are created.
func initMeter(interval time.Duration) (func(context.Context) error, error) {
	exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// mcpHandler serves single JSON-RPC messages over HTTP POST
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// runServe starts the HTTP server and, when enabled, an ngrok tunnel. It
// returns after SIGINT/SIGTERM once everything is shut down.
func runServe(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cmd.Bool("trace") {
		shutdownTracer, err := initTracer()
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(flushCtx); err != nil {
				logrus.WithError(err).Warn("Failed to flush traces")
			}
		}()
	}

	if cmd.Bool("metrics") {
		shutdownMeter, err := initMeter(cmd.Duration("metrics-interval"))
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownMeter(flushCtx); err != nil {
				logrus.WithError(err).Warn("Failed to flush metrics")
			}
		}()
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	svc, err := initializeServices(cmd.String("config-dir"), cmd.String("archive-dir"), hub)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	go archiveCleanupRoutine(ctx, svc.store, cmd.Duration("retention"))

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient("http://" + addr)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(svc.puzzles, hub))
	mainRouter.Handle("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.WithFields(logrus.Fields{
			"addr":      addr,
			"api":       fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?station=<name>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Infof("%s v%s listening", AppName, Version)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logrus.Info("Shutting down...")
	case runErr = <-errCh:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP server shutdown error")
	}
	wg.Wait()

	if err := svc.store.SaveAll(); err != nil {
		logrus.WithError(err).Warn("Failed to save archive")
	}
	logrus.Info("Server stopped")
	return runErr
}

// runNgrok exposes handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		logrus.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	logrus.Info("Starting ngrok tunnel...")
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logrus.WithError(err).Error("Failed to start ngrok tunnel")
		return
	}

	ngrokURL := tun.URL()
	logrus.WithFields(logrus.Fields{
		"api":       ngrokURL + "/api",
		"websocket": ngrokURL + "/ws?station=<name>",
		"mcp":       ngrokURL + "/mcp",
	}).Infof("Ngrok tunnel established: %s", ngrokURL)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close ngrok tunnel")
		}
	}()

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Debug("Ngrok server stopped")
	}
	logrus.Info("Ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses the REST API at --api-url
// when reachable, otherwise it serves an internal API on a loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/health")
	if err == nil {
		resp.Body.Close()
	}
	if err == nil && resp.StatusCode < 500 {
		logrus.WithField("url", baseURL).Info("External API server found, using it for MCP")
	} else {
		logrus.Info("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		svc, err := initializeServices(cmd.String("config-dir"), cmd.String("archive-dir"), nil)
		if err != nil {
			listener.Close()
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		internal := &http.Server{Handler: api.NewServer(svc.puzzles, nil)}
		go func() {
			if err := internal.Serve(listener); err != nil && err != http.ErrServerClosed {
				logrus.WithError(err).Error("Internal HTTP server error")
			}
		}()
		defer func() {
			internal.Close()
			svc.store.SaveAll()
		}()

		baseURL = "http://" + listener.Addr().String()
		logrus.WithField("url", baseURL).Info("Internal HTTP server started for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	logrus.Info("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
