package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fairhire/fairhire/internal/pipeline"
	"github.com/fairhire/fairhire/internal/types"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run a single pipeline agent for an existing candidate",
	Long: "Runs one agent (parser, guardrail, scorer, summarizer, bias_auditor) for a " +
		"candidate already present in the store. The candidate must be at a stage the " +
		"agent runs from and have the agent's prerequisite data.",
	RunE: runSingleAgent,
}

var (
	agentCandidateID string
	agentName        string
)

func init() {
	rootCmd.AddCommand(agentCmd)

	agentCmd.Flags().StringVar(&agentCandidateID, "candidate-id", "", "Candidate UUID (required)")
	agentCmd.Flags().StringVar(&agentName, "agent", "", "Agent to run: parser, guardrail, scorer, summarizer, bias_auditor (required)")
	_ = agentCmd.MarkFlagRequired("candidate-id")
	_ = agentCmd.MarkFlagRequired("agent")
}

func runSingleAgent(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	candidateID, err := uuid.Parse(agentCandidateID)
	if err != nil {
		return fmt.Errorf("invalid candidate id %q: %w", agentCandidateID, err)
	}

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

	cand, err := orch.RunAgent(ctx, candidateID, types.AgentKind(agentName))
	if err != nil {
		return err
	}
	return printJSON(cand)
}
