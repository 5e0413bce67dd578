package mcp

import (
	"context"

	"ditztime/internal/config"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server holds the state for the MCP server.
type Server struct {
	cfg     *config.AppConfig
	version string
}

// NewServer creates a new MCP server answering with the defaults of cfg.
func NewServer(cfg *config.AppConfig, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{cfg: cfg, version: version}
}

// build registers every tool on a fresh protocol server.
func (s *Server) build() *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{
		Name:    "ditztime",
		Version: s.version,
	}, nil)

	sdk.AddTool(server, progressReportTool(), s.handleProgressReport)
	sdk.AddTool(server, issueIntervalsTool(), s.handleIssueIntervals)
	return server
}

// Serve runs the MCP protocol over stdio until the client disconnects or ctx
// is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("version", s.version).Msg("Starting MCP server on stdio")
	return s.build().Run(ctx, &sdk.StdioTransport{})
}
