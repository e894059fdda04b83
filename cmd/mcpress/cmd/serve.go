package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/mcpress/mcpress/internal/articles"
	"github.com/mcpress/mcpress/internal/config"
	"github.com/mcpress/mcpress/internal/mcp"
	"github.com/spf13/cobra"
)

var (
	serveTransport string
	serveAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server for article retrieval.

The server provides three tools:
  - search_articles: Semantic search (not implemented yet, returns [])
  - get_article: Get a specific article by ID
  - list_articles: List articles filtered by category, media source or author

Examples:
  # stdio (default), for desktop MCP clients
  mcpress serve

  # Server-Sent Events on port 8080
  mcpress serve --transport sse --addr :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "Transport: stdio, sse or http (overrides mcp.transport)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address for sse/http (overrides mcp.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	if serveTransport != "" {
		cfg.MCP.Transport = serveTransport
	}
	if serveAddr != "" {
		cfg.MCP.Addr = serveAddr
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}()

	server := mcp.NewServer(mcp.Config{
		Name:    cfg.MCP.Name,
		Version: cfg.MCP.Version,
	}, articles.NewService(store))

	slog.Info("starting MCP server",
		"backend", cfg.Store.Backend,
		"transport", cfg.MCP.Transport,
		"addr", cfg.MCP.Addr)

	switch cfg.MCP.Transport {
	case config.TransportSSE:
		fmt.Fprintf(cmd.ErrOrStderr(), "Starting MCP server (SSE) on %s...\n", cfg.MCP.Addr)
		return server.ServeSSE(ctx, cfg.MCP.Addr)
	case config.TransportHTTP:
		fmt.Fprintf(cmd.ErrOrStderr(), "Starting MCP server (HTTP) on %s...\n", cfg.MCP.Addr)
		return server.ServeHTTP(ctx, cfg.MCP.Addr)
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server...")
		return server.ServeStdio()
	}
}
