package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpress/mcpress/internal/articles"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// Server exposes the article service as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	articles  *articles.Service
}

const instructions = `MCPress gives read access to a news article database.
Use list_articles to browse by category, media source or author (newest first),
get_article to read one article in full, and search_articles for semantic search.`

// NewServer creates a new MCP server with the article tools registered.
func NewServer(config Config, svc *articles.Service) *Server {
	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	s := &Server{
		mcpServer: mcpServer,
		articles:  svc,
	}
	mcpServer.AddTools(s.tools()...)

	return s
}

func (s *Server) tools() []server.ServerTool {
	searchTool := mcp.NewTool("search_articles",
		mcp.WithDescription("Search news articles by semantic similarity to a query. Returns matching articles with title, summary, author and metadata."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query text"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of articles to return (default: 10)"),
			mcp.DefaultNumber(articles.DefaultSearchLimit),
		),
	)

	getTool := mcp.NewTool("get_article",
		mcp.WithDescription("Get a specific article by its ID, including full content. Returns null if the article does not exist."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("article_id",
			mcp.Required(),
			mcp.Description("The unique identifier of the article"),
		),
	)

	listTool := mcp.NewTool("list_articles",
		mcp.WithDescription("List articles with optional filters, ordered by publish date (newest first)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("category",
			mcp.Description(`Filter by article category (e.g. "politics", "technology")`),
		),
		mcp.WithString("media_source",
			mcp.Description("Filter by media organization name"),
		),
		mcp.WithString("author",
			mcp.Description("Filter by author name (exact match)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of articles to return (default: 20)"),
			mcp.DefaultNumber(articles.DefaultListLimit),
			mcp.Min(0),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of articles to skip for pagination (default: 0)"),
			mcp.DefaultNumber(0),
			mcp.Min(0),
		),
	)

	return []server.ServerTool{
		{Tool: searchTool, Handler: s.searchHandler},
		{Tool: getTool, Handler: s.getArticleHandler},
		{Tool: listTool, Handler: s.listHandler},
	}
}

// searchHandler handles the search_articles tool call.
func (s *Server) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	limit := req.GetInt("limit", articles.DefaultSearchLimit)

	results, err := s.articles.SearchArticles(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return jsonResult(results)
}

// getArticleHandler handles the get_article tool call.
func (s *Server) getArticleHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("article_id")
	if err != nil {
		return mcp.NewToolResultError("article_id parameter is required"), nil
	}

	article, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		slog.Warn("get article failed", "id", id, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("get article failed: %v", err)), nil
	}

	// A missing article is a successful, empty answer.
	return jsonResult(article)
}

// listHandler handles the list_articles tool call.
func (s *Server) listHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := articles.ListFilter{
		Category:    req.GetString("category", ""),
		MediaSource: req.GetString("media_source", ""),
		Author:      req.GetString("author", ""),
		Limit:       req.GetInt("limit", articles.DefaultListLimit),
		Offset:      req.GetInt("offset", 0),
	}

	results, err := s.articles.ListArticles(ctx, filter)
	if err != nil {
		slog.Warn("list articles failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("list articles failed: %v", err)), nil
	}

	return jsonResult(results)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP server over Server-Sent Events on addr until ctx
// is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sse := server.NewSSEServer(s.mcpServer)
	return serveUntilDone(ctx, addr, sse.Start, sse.Shutdown)
}

// ServeHTTP serves the MCP server over streamable HTTP on addr until ctx
// is cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	return serveUntilDone(ctx, addr, httpServer.Start, httpServer.Shutdown)
}

func serveUntilDone(ctx context.Context, addr string, start func(string) error, shutdown func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}
