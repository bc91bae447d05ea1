package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nikogura/resume-refiner/pkg/completion"
	"github.com/nikogura/resume-refiner/pkg/config"
	"github.com/nikogura/resume-refiner/pkg/jd"
	"github.com/nikogura/resume-refiner/pkg/prompt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Files written into a job directory by tailor.
const (
	rawDraftFile = "raw.txt"
	jdCopyFile   = "jd.txt"
)

//nolint:gochecknoglobals // Cobra boilerplate
var tailorFlags struct {
	company    string
	title      string
	extra      string
	baseResume string
	jobsDir    string
	chain      string
}

//nolint:gochecknoglobals // Cobra boilerplate
var tailorCmd = &cobra.Command{
	Use:   "tailor <jd-file-or-url>",
	Short: "Draft a resume aimed at one job",
	Long: `Tailor rewrites the base resume for one company and role using the tailor
model chain. The draft is written to <jobs-dir>/<Company>__<Title>/raw.txt
together with a copy of the job description, ready for refine.

Example:
  resume-refiner tailor jd.txt --company "Acme Corp" --title "VP Engineering"
  resume-refiner tailor jd.txt --company Acme --title CTO --extra "Emphasise SRE leadership"`,
	Args: cobra.ExactArgs(1),
	RunE: runTailor,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(tailorCmd)
	addTailorFlags(tailorCmd)
}

func addTailorFlags(c *cobra.Command) {
	c.Flags().StringVar(&tailorFlags.company, "company", "", "Company name (first word of the JD if not provided)")
	c.Flags().StringVar(&tailorFlags.title, "title", "", "Job title (rest of the JD's first line if not provided)")
	c.Flags().StringVar(&tailorFlags.extra, "extra", "", "Extra instructions for the model")
	c.Flags().StringVar(&tailorFlags.baseResume, "base-resume", "", "Base resume file (default from config)")
	c.Flags().StringVar(&tailorFlags.jobsDir, "jobs-dir", "jobs", "Directory holding per-job drafts")
	c.Flags().StringVar(&tailorFlags.chain, "tailor-chain", "", "Comma separated backend chain for tailoring (default from config)")
}

func runTailor(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		return err
	}

	var jobDescription string
	jobDescription, err = jd.FetchWithContext(ctx, args[0])
	if err != nil {
		return err
	}

	var dir string
	dir, _, err = tailorDraft(ctx, cfg, jobDescription)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Tailored draft written to: %s\n", filepath.Join(dir, rawDraftFile))
	return err
}

// tailorDraft runs phase 1 and stores the draft and JD in the job directory.
func tailorDraft(ctx context.Context, cfg config.Config, jobDescription string) (dir, draft string, err error) {
	basePath := tailorFlags.baseResume
	if basePath == "" {
		basePath = cfg.BaseResumePath
	}
	if basePath == "" {
		err = errors.New("no base resume: pass --base-resume or set base_resume_path in config")
		return dir, draft, err
	}

	var baseResume string
	baseResume, err = readText(basePath)
	if err != nil {
		return dir, draft, err
	}

	var systemPrompt string
	systemPrompt, err = prompt.LoadSystemPrompt(cfg.SystemPromptPath, cfg.GetLayout())
	if err != nil {
		return dir, draft, err
	}

	company, title := tailorFlags.company, tailorFlags.title
	headCompany, headTitle := jd.Headline(jobDescription)
	if company == "" {
		company = headCompany
	}
	if title == "" {
		title = headTitle
	}

	p := prompt.BuildTailorPrompt(prompt.TailorRequest{
		SystemPrompt:   systemPrompt,
		Company:        company,
		Title:          title,
		JobDescription: jobDescription,
		Extra:          tailorFlags.extra,
		BaseResume:     baseResume,
	})

	chain := resolveChain(tailorFlags.chain, cfg.GetTailorChain())
	var result completion.Result
	result, err = runCompletion(ctx, cfg, chain, p, "Tailoring resume...")
	if err != nil {
		return dir, draft, err
	}
	draft = result.Text

	safeCompany, safeTitle := jobNames(jobDescription, company, title)
	dir = jobDir(tailorFlags.jobsDir, safeCompany, safeTitle)

	err = writeText(filepath.Join(dir, rawDraftFile), draft)
	if err != nil {
		return dir, draft, err
	}
	err = writeText(filepath.Join(dir, jdCopyFile), jobDescription)
	return dir, draft, err
}
