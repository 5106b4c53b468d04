// Package main provides the fairhire CLI: candidate evaluation pipelines
// over resume files, single-agent runs, bulk evaluation, and the MCP
// agent-discovery surface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "fairhire"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "AI-assisted candidate evaluation pipeline",
	Long: "fairhire evaluates resumes against job positions through a staged agent pipeline: " +
		"PII redaction, parsing, guardrail checks, rubric scoring, summary, and bias audit.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "verbose/debug output")
	rootCmd.PersistentFlags().Bool("json", false, "json format for logging")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL (overrides DATABASE_URL env var; omit for in-memory store)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("database-url", rootCmd.PersistentFlags().Lookup("database-url"))
	_ = viper.BindEnv("database-url", "DATABASE_URL")
	_ = viper.BindEnv("gemini-api-key", "GEMINI_API_KEY")
}
