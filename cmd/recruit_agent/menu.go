package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/recruitment-manager/internal/export"
	"github.com/jonathan/recruitment-manager/internal/extraction"
	"github.com/jonathan/recruitment-manager/internal/ingestion"
	"github.com/jonathan/recruitment-manager/internal/jobdesc"
	"github.com/jonathan/recruitment-manager/internal/llm"
	"github.com/jonathan/recruitment-manager/internal/observability"
	"github.com/jonathan/recruitment-manager/internal/ranking"
	"github.com/jonathan/recruitment-manager/internal/types"
)

const (
	menuIngestJD    = "Ingest job descriptions"
	menuIngestCV    = "Ingest resumes"
	menuRank        = "Rank resumes against a job description"
	menuGenerateJD  = "Generate a job description"
	menuInterview   = "Run a practice interview"
	menuExit        = "Exit"
	defaultSkillSet = "Go, SQL"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu",
	RunE:  runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	m := &menu{cmd: cmd, app: a}
	defer m.close()

	for {
		sel := promptui.Select{
			Label: "What would you like to do?",
			Items: []string{menuIngestJD, menuIngestCV, menuRank, menuGenerateJD, menuInterview, menuExit},
		}
		_, choice, err := sel.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || choice == menuExit {
			return nil
		}
		if err != nil {
			return err
		}

		if err := m.run(choice); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				continue
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
}

// menu lazily opens the client and store the chosen actions need
type menu struct {
	cmd    *cobra.Command
	app    *app
	client llm.Client
	closer []func()
}

func (m *menu) close() {
	for i := len(m.closer) - 1; i >= 0; i-- {
		m.closer[i]()
	}
}

func (m *menu) chatClient() (llm.Client, error) {
	if m.client != nil {
		return m.client, nil
	}
	client, err := m.app.llmClient(m.cmd.Context())
	if err != nil {
		return nil, err
	}
	m.client = client
	m.closer = append(m.closer, func() { _ = client.Close() })
	return client, nil
}

func (m *menu) run(choice string) error {
	switch choice {
	case menuIngestJD:
		return m.ingest(types.KindJobDescription)
	case menuIngestCV:
		return m.ingest(types.KindResume)
	case menuRank:
		return m.rank()
	case menuGenerateJD:
		return m.generateJD()
	case menuInterview:
		return m.interview()
	default:
		return fmt.Errorf("unknown choice %q", choice)
	}
}

func (m *menu) ingest(kind types.DocumentKind) error {
	dir, err := ask(fmt.Sprintf("Folder of %s files", kind.Label()), "", existingDir)
	if err != nil {
		return err
	}

	client, err := m.chatClient()
	if err != nil {
		return err
	}
	store, err := m.app.openStore(m.cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := m.app.pipeline(store, client).ProcessFolder(m.cmd.Context(), kind, dir)
	if err != nil {
		return err
	}
	printSummary(m.cmd, kind, ingestion.Summarize(results))
	return nil
}

func (m *menu) rank() error {
	jdPath, err := ask("Job description file", "", existingFile)
	if err != nil {
		return err
	}
	dir, err := ask("Folder of resumes", m.app.cfg.Storage.ResumeDir, existingDir)
	if err != nil {
		return err
	}
	out, err := ask("Excel output (blank to skip)", "", nil)
	if err != nil {
		return err
	}

	jdText, err := extraction.ExtractFile(jdPath)
	if err != nil {
		return err
	}
	paths, err := collectFiles([]string{dir})
	if err != nil {
		return err
	}

	scorer, err := m.app.scorer(m.cmd.Context(), "")
	if err != nil {
		return err
	}
	results, err := ranking.RankFiles(m.cmd.Context(), scorer, jdText, paths, ranking.Options{Logger: m.app.logger})
	if err != nil {
		return err
	}
	printRankings(m.cmd.OutOrStdout(), results)

	if strings.TrimSpace(out) != "" {
		path, err := export.WriteRankings(out, filepath.Base(jdPath), results)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.cmd.OutOrStdout(), "Ranking written to %s\n", path)
	}
	return nil
}

func (m *menu) generateJD() error {
	role, err := ask("Role", "", required)
	if err != nil {
		return err
	}
	client, err := m.chatClient()
	if err != nil {
		return err
	}

	markdown, err := jobdesc.NewGenerator(client, m.app.cfg.LLM.Timeout, m.app.logger).GenerateForRole(m.cmd.Context(), role)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.cmd.OutOrStdout(), markdown)
	return nil
}

func (m *menu) interview() error {
	name, err := ask("Candidate name", "", nil)
	if err != nil {
		return err
	}
	skillsLine, err := ask("Skills (comma separated)", defaultSkillSet, required)
	if err != nil {
		return err
	}

	// model-backed questions only when configured and reachable
	var client llm.Client
	if m.app.cfg.Interview.UseLLM {
		if client, err = m.chatClient(); err != nil {
			m.app.logger.Warn("LLM unavailable, using question bank", zap.Error(err))
			client = nil
		}
	}
	engine := m.app.interviewEngine(client)
	ctx := m.cmd.Context()
	out := m.cmd.OutOrStdout()

	start, err := engine.Start(ctx, types.StartInterviewRequest{
		CandidateID:   "cli",
		CandidateName: name,
		Skills:        splitSkills(skillsLine),
	})
	if err != nil {
		return err
	}

	question := start.Message.Content
	for n := start.Progress.Current; ; n++ {
		fmt.Fprintf(out, "\nQ%d/%d: %s\n", n, start.Progress.Total, question)
		answer, err := ask("Answer", "", required)
		if err != nil {
			return err
		}
		res, err := engine.SubmitAnswer(ctx, start.SessionID, answer)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Score %d/10: %s\n", res.Evaluation.Score, res.Evaluation.Feedback)
		if res.Completed {
			fmt.Fprintf(out, "\n%s\n", res.Message.Content)
			break
		}
		question = res.Message.Content
	}

	report, err := engine.Results(start.SessionID)
	if err != nil {
		return err
	}
	observability.NewPrinter(out).PrintInterviewReport(report)
	return nil
}

// splitSkills splits a comma separated list, dropping blanks
func splitSkills(line string) []string {
	var skills []string
	for _, s := range strings.Split(line, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{Label: label, Default: def, Validate: validate}
	v, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

func existingDir(s string) error {
	info, err := os.Stat(strings.TrimSpace(s))
	if err != nil || !info.IsDir() {
		return errors.New("not a folder")
	}
	return nil
}

func existingFile(s string) error {
	info, err := os.Stat(strings.TrimSpace(s))
	if err != nil || info.IsDir() {
		return errors.New("not a file")
	}
	return nil
}
