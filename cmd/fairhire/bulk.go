package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fairhire/fairhire/internal/config"
	"github.com/fairhire/fairhire/internal/pipeline"
	"github.com/fairhire/fairhire/internal/types"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Evaluate a directory of resumes against a job position",
	Long: "Creates the job position, one candidate per .txt file in the resume " +
		"directory, and runs the full pipeline for all of them on a bounded worker " +
		"pool. Per-candidate failures never abort the batch.",
	RunE: runBulkEvaluation,
}

var (
	bulkJobPath   string
	bulkResumeDir string
	bulkWorkers   int
)

func init() {
	rootCmd.AddCommand(bulkCmd)

	bulkCmd.Flags().StringVar(&bulkJobPath, "job", "", "Path to job position JSON config (required)")
	bulkCmd.Flags().StringVar(&bulkResumeDir, "resumes", "", "Directory of resume .txt files (required)")
	bulkCmd.Flags().IntVar(&bulkWorkers, "workers", 4, "Number of candidates evaluated in parallel")
	_ = bulkCmd.MarkFlagRequired("job")
	_ = bulkCmd.MarkFlagRequired("resumes")
}

func runBulkEvaluation(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	jobCfg, err := config.LoadJobConfig(bulkJobPath)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(bulkResumeDir)
	if err != nil {
		return fmt.Errorf("failed to read resume directory %s: %w", bulkResumeDir, err)
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

	created := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		text, err := os.ReadFile(filepath.Join(bulkResumeDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read resume file %s: %w", entry.Name(), err)
		}
		cand := &types.Candidate{JobID: job.ID, ResumeText: string(text)}
		if err := st.CreateCandidate(ctx, cand); err != nil {
			return err
		}
		created++
	}
	if created == 0 {
		return fmt.Errorf("no .txt resume files found in %s", bulkResumeDir)
	}

	orch := pipeline.New(st, client, pipeline.Options{Logger: log, BulkWorkers: bulkWorkers})

	results, err := orch.RunBulk(ctx, job.ID)
	if err != nil {
		return err
	}
	return printJSON(results)
}
