// Package main provides the recruit_agent CLI: document ingestion, resume
// ranking, job description generation and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	debugLogs bool
	jsonLogs  bool
)

var rootCmd = &cobra.Command{
	Use:   "recruit_agent",
	Short: "AI recruitment assistant",
	Long: "recruit_agent parses resumes and job descriptions into structured records, " +
		"ranks resumes against a job description, generates job descriptions and " +
		"serves the interview API.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./recruit-agent.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Log as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
