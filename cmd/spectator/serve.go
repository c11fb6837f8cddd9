package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spectator/internal/app"
	"github.com/rpggio/spectator/internal/mcp"
	"github.com/rpggio/spectator/internal/transport"
	"github.com/spf13/cobra"
)

const mcpSessionTimeout = 30 * time.Minute

func newServeCmd(rt *cliEnv, ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web site, JSON API and MCP endpoint",
		Long: "Serve the catalogue over HTTP. With transport.mode set to stdio the\n" +
			"MCP server is served on stdin/stdout instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeDB, err := rt.openApp()
			if err != nil {
				return err
			}
			defer closeDB()

			if rt.cfg.Transport.Mode == "stdio" {
				return runStdioMode(cmd.Context(), rt.logger, newMCPServer(rt, a, ver))
			}
			return runHTTPMode(rt, a, newMCPServer(rt, a, ver))
		},
	}
}

func newMCPCmd(rt *cliEnv, ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.cfg.Transport.Mode = "stdio"
			a, closeDB, err := rt.openApp()
			if err != nil {
				return err
			}
			defer closeDB()
			return runStdioMode(cmd.Context(), rt.logger, newMCPServer(rt, a, ver))
		},
	}
}

func newMCPServer(rt *cliEnv, a *app.App, ver string) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Creators: a.Creators,
			Reading:  a.Reading,
			Events:   a.Events,
			Search:   a.Search,
			Activity: a.Activity,
		},
		Resolver:      a.APIKeys,
		AuthEnabled:   rt.cfg.Auth.Enabled,
		TransportMode: rt.cfg.Transport.Mode,
		Version:       ver,
		Logger:        rt.logger,
	})
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(rt *cliEnv, a *app.App, mcpServer *sdkmcp.Server) error {
	cfg := rt.cfg
	httpCfg := transport.Config{
		Services: transport.Services{
			Creators: a.Creators,
			Reading:  a.Reading,
			Events:   a.Events,
			Search:   a.Search,
			Activity: a.Activity,
		},
		MCP:         mcp.NewHTTPHandler(mcpServer, mcpSessionTimeout),
		CORSOrigins: cfg.CORS.AllowedOrigins,
		CORSMaxAge:  cfg.CORS.MaxAge,
		Logger:      rt.logger,
	}
	if cfg.Auth.Enabled {
		httpCfg.Resolver = a.APIKeys
	}
	if cfg.RateLimit.Enabled {
		httpCfg.RateLimit = cfg.RateLimit.Requests
		httpCfg.RateLimitWindow = cfg.RateLimit.Window
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(httpCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("server listening", "addr", addr, "auth", cfg.Auth.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	return waitForShutdown(rt.logger, httpServer, errCh)
}

func waitForShutdown(logger *slog.Logger, server *http.Server, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
