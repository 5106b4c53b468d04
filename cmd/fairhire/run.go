package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fairhire/fairhire/internal/config"
	"github.com/fairhire/fairhire/internal/pipeline"
	"github.com/fairhire/fairhire/internal/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate one resume against a job position",
	Long: "Creates the job position and candidate, then runs the full pipeline: " +
		"parse -> guardrails -> score -> summary -> bias audit. Prints the final " +
		"candidate report as JSON.",
	RunE: runEvaluation,
}

var (
	runJobPath    string
	runResumePath string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runJobPath, "job", "", "Path to job position JSON config (required)")
	runCmd.Flags().StringVar(&runResumePath, "resume", "", "Path to resume text file (required)")
	_ = runCmd.MarkFlagRequired("job")
	_ = runCmd.MarkFlagRequired("resume")
}

func runEvaluation(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	jobCfg, err := config.LoadJobConfig(runJobPath)
	if err != nil {
		return err
	}

	resumeText, err := os.ReadFile(runResumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume file %s: %w", runResumePath, err)
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

	job := jobCfg.Position()
	if err := st.CreateJob(ctx, job); err != nil {
		return err
	}

	cand := &types.Candidate{JobID: job.ID, ResumeText: string(resumeText)}
	if err := st.CreateCandidate(ctx, cand); err != nil {
		return err
	}

	orch := pipeline.New(st, client, pipeline.Options{Logger: log})

	final, err := orch.RunFullPipeline(ctx, cand.ID)
	if err != nil {
		log.Error("pipeline failed", zap.Error(err))
		if final != nil {
			_ = printJSON(final)
		}
		return err
	}
	return printJSON(final)
}
