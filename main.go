// Command gogym serves Go (weiqi) games over HTTP, WebSocket and MCP.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Every flag can also be set from the environment, and a .env file in the
// working directory is loaded first.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/gogym/api"
	"github.com/wricardo/gogym/game/config"
	"github.com/wricardo/gogym/game/service"
	"github.com/wricardo/gogym/game/session"
	"github.com/wricardo/gogym/transport/mcp"
	"github.com/wricardo/gogym/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "gogym"
)

// appConfig is the resolved command line and environment
type appConfig struct {
	Host            string
	Port            int
	ConfigDir       string
	RedisURL        string
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	SyncInterval    time.Duration
	Debug           bool
	External        string

	NgrokEnabled bool
	NgrokAuth    string
	NgrokDomain  string
}

func (c appConfig) addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "Go rules engine served over REST, WebSocket and MCP",
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing board presets", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "redis-url", Usage: "Redis URL for session persistence (in-memory when empty)", Sources: cli.EnvVars("REDIS_URL")},
			&cli.DurationFlag{Name: "session-ttl", Value: session.DefaultSessionTTL, Usage: "Idle time before a session is dropped", Sources: cli.EnvVars("SESSION_TTL")},
			&cli.DurationFlag{Name: "cleanup-interval", Value: time.Hour, Usage: "How often expired sessions are removed", Sources: cli.EnvVars("CLEANUP_INTERVAL")},
			&cli.DurationFlag{Name: "sync-interval", Value: 30 * time.Second, Usage: "How often sessions are written to Redis", Sources: cli.EnvVars("SYNC_INTERVAL")},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("DEBUG")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: serverAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  serverAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, reusing a running API or starting an internal one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "API to reuse when it is reachable", Sources: cli.EnvVars("GOGYM_API_URL")},
				},
				Action: mcpAction,
			},
		},
	}
}

func configFromCommand(cmd *cli.Command) appConfig {
	return appConfig{
		Host:            cmd.String("host"),
		Port:            int(cmd.Int("port")),
		ConfigDir:       cmd.String("config-dir"),
		RedisURL:        cmd.String("redis-url"),
		SessionTTL:      cmd.Duration("session-ttl"),
		CleanupInterval: cmd.Duration("cleanup-interval"),
		SyncInterval:    cmd.Duration("sync-interval"),
		Debug:           cmd.Bool("debug"),
		External:        cmd.String("api-url"),
		NgrokEnabled:    cmd.Bool("ngrok"),
		NgrokAuth:       cmd.String("ngrok-auth"),
		NgrokDomain:     cmd.String("ngrok-domain"),
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}

func serverAction(ctx context.Context, cmd *cli.Command) error {
	cfg := configFromCommand(cmd)
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Infow("starting", "app", AppName, "version", Version, "mode", "server")

	gameService, closeServices, err := initializeServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeServices()

	return runHTTPServer(ctx, cfg, gameService, logger)
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	cfg := configFromCommand(cmd)
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// stdout belongs to the MCP protocol; zap writes to stderr
	logger.Infow("starting", "app", AppName, "version", Version, "mode", "mcp")

	gameService, closeServices, err := initializeServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeServices()

	return runStdioMCP(ctx, cfg, gameService, logger)
}

// initializeServices wires the config and session managers and the game
// service, and starts the maintenance routine. The returned func flushes
// sessions and releases Redis.
func initializeServices(ctx context.Context, cfg appConfig, logger *zap.SugaredLogger) (service.GameService, func(), error) {
	configManager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	var (
		sessionManager *session.Manager
		persistence    *session.RedisPersistence
	)
	if cfg.RedisURL != "" {
		persistence, err = session.NewRedisPersistenceFromURL(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		sessionManager = session.NewManagerWithPersistence(persistence, logger)

		if err := sessionManager.LoadPersistedSessions(ctx); err != nil {
			logger.Warnw("failed to load persisted sessions", "error", err)
		}
		logger.Infow("session persistence enabled", "backend", "redis", "sessions", sessionManager.Count())
	} else {
		sessionManager = session.NewManager(logger)
		logger.Infow("session persistence disabled", "backend", "memory")
	}

	gameService := service.NewGameService(sessionManager, configManager, logger)

	maintenanceCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runMaintenance(maintenanceCtx, cfg, gameService, persistence != nil, logger)
	}()

	closeFn := func() {
		cancel()
		wg.Wait()
		if persistence == nil {
			return
		}
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := gameService.SaveAll(flushCtx); err != nil {
			logger.Warnw("final session sync failed", "error", err)
		}
		if err := persistence.Close(); err != nil {
			logger.Warnw("failed to close redis", "error", err)
		}
	}
	return gameService, closeFn, nil
}

// runMaintenance removes idle sessions and, with persistence, periodically
// writes every session back to Redis.
func runMaintenance(ctx context.Context, cfg appConfig, gameService service.GameService, persist bool, logger *zap.SugaredLogger) {
	cleanup := time.NewTicker(cfg.CleanupInterval)
	defer cleanup.Stop()

	var syncC <-chan time.Time
	if persist {
		syncTicker := time.NewTicker(cfg.SyncInterval)
		defer syncTicker.Stop()
		syncC = syncTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			if removed := gameService.CleanupExpired(ctx, cfg.SessionTTL); removed > 0 {
				logger.Infow("cleaned up expired sessions", "removed", removed)
			}
		case <-syncC:
			if err := gameService.SaveAll(ctx); err != nil {
				logger.Warnw("session sync failed", "error", err)
			}
		}
	}
}

// newRootHandler mounts the REST API at / and the MCP endpoint at /mcp
func newRootHandler(apiServer *api.Server, mcpClient *mcp.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.Handle("/mcp", server.NewStreamableHTTPServer(mcpClient.GetMCPServer(), server.WithStateLess(true)))
	return mux
}

// runHTTPServer serves REST, WebSocket and /mcp until ctx is cancelled.
// With ngrok enabled the same handler is also served through a tunnel.
func runHTTPServer(ctx context.Context, cfg appConfig, gameService service.GameService, logger *zap.SugaredLogger) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()

	hub := websocket.NewHub(logger)
	go hub.Run(hubCtx)

	addr := cfg.addr()
	apiServer := api.NewServer(gameService, hub, logger)
	mcpClient := mcp.NewClient("http://" + addr)
	handler := newRootHandler(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Infow("HTTP server listening",
			"addr", addr,
			"api", "http://"+addr+"/api",
			"websocket", "ws://"+addr+"/ws?session=<session_id>",
			"mcp", "http://"+addr+"/mcp",
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, cfg, handler, logger)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("HTTP server shutdown error", "error", err)
	}
	stopHub()

	wg.Wait()
	logger.Info("server stopped")
	return runErr
}

func serveNgrok(ctx context.Context, cfg appConfig, handler http.Handler, logger *zap.SugaredLogger) {
	if cfg.NgrokAuth == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuth))
	if err != nil {
		logger.Errorw("failed to start ngrok tunnel", "error", err)
		return
	}

	ngrokURL := tun.URL()
	logger.Infow("ngrok tunnel established",
		"url", ngrokURL,
		"api", ngrokURL+"/api",
		"websocket", ngrokURL+"/ws?session=<session_id>",
		"mcp", ngrokURL+"/mcp",
	)

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warnw("ngrok server error", "error", err)
	}
	logger.Info("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses the API at cfg.External
// when one answers; otherwise it starts an internal API on a random loopback
// port.
func runStdioMCP(ctx context.Context, cfg appConfig, gameService service.GameService, logger *zap.SugaredLogger) error {
	baseURL := cfg.External
	if !apiReachable(ctx, baseURL) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(logger)
		go hub.Run(ctx)

		internal := &http.Server{Handler: api.NewServer(gameService, hub, logger)}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warnw("internal HTTP server error", "error", err)
			}
		}()
		defer internal.Close()

		baseURL = "http://" + listener.Addr().String()
		logger.Infow("started internal HTTP server for MCP", "url", baseURL)
	} else {
		logger.Infow("using external API server for MCP", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	stdio := server.NewStdioServer(mcpClient.GetMCPServer())
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func apiReachable(ctx context.Context, baseURL string) bool {
	if baseURL == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
