// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the design-pattern library to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ansdev/patternhub/internal/apperr"
	"github.com/ansdev/patternhub/internal/patternsvc"
)

// Server wraps the MCP server with pattern library tools.
type Server struct {
	mcp *server.MCPServer
	svc *patternsvc.Service
}

// New creates a new MCP server with all library tools registered.
func New(svc *patternsvc.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Pattern Library",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_design_pattern",
		mcp.WithDescription("Get documentation for a specific design pattern in Markdown format."),
		mcp.WithString("pattern", mcp.Required(),
			mcp.Description("The name of the design pattern to retrieve (e.g. 'singleton', 'factory')")),
	), s.getDesignPattern)

	s.mcp.AddTool(mcp.NewTool("list_patterns",
		mcp.WithDescription("List the identifiers of all available design patterns."),
	), s.listPatterns)

	s.mcp.AddTool(mcp.NewTool("search_patterns",
		mcp.WithDescription("Full-text search through pattern documentation."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPatterns)

	// Resource: Markdown index of the whole library.
	s.mcp.AddResource(
		mcp.NewResource("patterns://list", "Available Design Patterns",
			mcp.WithResourceDescription("A Markdown-formatted list of all available design patterns."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPatternIndexResource,
	)

	// Resource template: one document per pattern.
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate("design-pattern://{name}", "Design Pattern",
			mcp.WithTemplateDescription("The documentation of a specific design pattern."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.readPatternResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getDesignPattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.Get(ctx, name)
	if err != nil {
		// Failures are data, never protocol errors: a missing pattern gets
		// a structured message and the request itself succeeds.
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidName) {
			return mcp.NewToolResultError(fmt.Sprintf("Pattern %q not found.", name)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error reading pattern %q: %s", name, err)), nil
	}
	return mcp.NewToolResultText(detail.Content), nil
}

func (s *Server) listPatterns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.svc.Names(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(names) == 0 {
		return mcp.NewToolResultText("No design patterns available."), nil
	}
	sort.Strings(names)
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) searchPatterns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPatternIndexResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := s.svc.Names(ctx)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "patterns://list",
			MIMEType: "text/markdown",
			Text:     renderPatternIndex(names),
		},
	}, nil
}

func (s *Server) readPatternResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name := strings.TrimPrefix(req.Params.URI, "design-pattern://")
	text := ""
	detail, err := s.svc.Get(ctx, name)
	switch {
	case err == nil:
		text = detail.Content
	case errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidName):
		text = fmt.Sprintf("Pattern %q not found.", name)
	default:
		text = fmt.Sprintf("Error reading pattern %q: %s", name, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

// renderPatternIndex builds the Markdown body of the patterns://list resource.
func renderPatternIndex(names []string) string {
	if len(names) == 0 {
		return "No design patterns available."
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("# Available Design Patterns\n\n")
	for _, n := range names {
		fmt.Fprintf(&b, "- [%s](design-pattern://%s)\n", capitalize(n), n)
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
