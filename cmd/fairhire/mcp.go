package main

import (
	"github.com/spf13/cobra"

	"github.com/fairhire/fairhire/internal/mcpserver"
	"github.com/fairhire/fairhire/internal/pipeline"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the evaluation pipeline as MCP tools over stdio",
	Long: "Exposes parse_resume, check_guardrails, score_candidate, generate_summary, " +
		"run_bias_audit, run_full_pipeline, and get_candidate_report as MCP tools so " +
		"agent hosts can drive candidate evaluations.",
	RunE: serveMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func serveMCP(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := buildClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	orch := pipeline.New(st, client, pipeline.Options{Logger: log})

	log.Info("mcp server starting")
	return mcpserver.New(orch, st, version).Run(ctx)
}
