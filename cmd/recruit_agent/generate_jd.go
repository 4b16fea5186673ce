package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/recruitment-manager/internal/jobdesc"
)

var (
	jdPrompt string
	jdOut    string
)

var generateJDCmd = &cobra.Command{
	Use:   "generate-jd [role]",
	Short: "Generate a job description with the LLM",
	Long: `Generate a markdown job description. A role argument is expanded into the
full job description prompt; --prompt sends a prompt as-is.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerateJD,
}

func init() {
	generateJDCmd.Flags().StringVarP(&jdPrompt, "prompt", "p", "", "Raw prompt to send instead of a role")
	generateJDCmd.Flags().StringVarP(&jdOut, "out", "o", "", "Write the markdown to this file instead of stdout")
	rootCmd.AddCommand(generateJDCmd)
}

func runGenerateJD(cmd *cobra.Command, args []string) error {
	role := strings.TrimSpace(strings.Join(args, " "))
	if role == "" && jdPrompt == "" {
		return fmt.Errorf("provide a role or --prompt")
	}
	if role != "" && jdPrompt != "" {
		return fmt.Errorf("role and --prompt are mutually exclusive; provide only one")
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	client, err := a.llmClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	gen := jobdesc.NewGenerator(client, a.cfg.LLM.Timeout, a.logger)

	var markdown string
	if role != "" {
		markdown, err = gen.GenerateForRole(ctx, role)
	} else {
		markdown, err = gen.Generate(ctx, jdPrompt)
	}
	if err != nil {
		return err
	}

	if jdOut == "" {
		fmt.Fprintln(cmd.OutOrStdout(), markdown)
		return nil
	}
	if err := os.WriteFile(jdOut, []byte(markdown+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jdOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Job description written to %s\n", jdOut)
	return nil
}
