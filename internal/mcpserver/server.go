// Package mcpserver exposes the evaluation pipeline as MCP tools over
// stdio, so agent hosts can discover and drive candidate evaluations.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fairhire/fairhire/internal/pipeline"
	"github.com/fairhire/fairhire/internal/store"
)

// Server wires the pipeline orchestrator and store into MCP tool handlers.
type Server struct {
	orch    *pipeline.Orchestrator
	store   store.Store
	version string
}

// New constructs a Server over the given orchestrator and store.
func New(orch *pipeline.Orchestrator, st store.Store, version string) *Server {
	return &Server{orch: orch, store: st, version: version}
}

// Register adds every tool to the MCP server.
func (s *Server) Register(srv *mcp.Server) {
	mcp.AddTool(srv, MetadataParseResume, s.ParseResume)
	mcp.AddTool(srv, MetadataCheckGuardrails, s.CheckGuardrails)
	mcp.AddTool(srv, MetadataScoreCandidate, s.ScoreCandidate)
	mcp.AddTool(srv, MetadataGenerateSummary, s.GenerateSummary)
	mcp.AddTool(srv, MetadataRunBiasAudit, s.RunBiasAudit)
	mcp.AddTool(srv, MetadataRunFullPipeline, s.RunFullPipeline)
	mcp.AddTool(srv, MetadataGetCandidateReport, s.GetCandidateReport)
	mcp.AddTool(srv, MetadataGetJobAnalytics, s.GetJobAnalytics)
}

// Run serves the tools over stdio until the context is cancelled or the
// transport closes.
func (s *Server) Run(ctx context.Context) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "fairhire",
		Version: s.version,
	}, nil)
	s.Register(srv)
	return srv.Run(ctx, &mcp.StdioTransport{})
}
