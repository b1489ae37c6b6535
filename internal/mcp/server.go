// Package mcp exposes the article store and search engine as MCP tools
// served on stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/bytetobeacon/beacon/internal/articles"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes article search tools.
type Server struct {
	pending *articles.Pending
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server over a pending article load.
func NewServer(pending *articles.Pending) *Server {
	s := &Server{pending: pending}

	s.mcp = server.NewMCPServer(
		"beacon",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchArticlesTool, s.handleSearchArticles)
	s.mcp.AddTool(getArticleTool, s.handleGetArticle)
	s.mcp.AddTool(listCategoriesTool, s.handleListCategories)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
