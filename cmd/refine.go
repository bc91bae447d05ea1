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
	"github.com/nikogura/resume-refiner/pkg/renderer"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var refineFlags struct {
	company      string
	title        string
	outputDir    string
	format       string
	chain        string
	keepMarkdown bool
	keepTagged   bool
}

//nolint:gochecknoglobals // Cobra boilerplate
var refineCmd = &cobra.Command{
	Use:   "refine <jd-file-or-url> <raw-resume-file>",
	Short: "Refine a resume draft into a formatted document",
	Long: `Refine sends the job description and a resume draft through the refine
model chain, parses the tagged sections of the answer and renders them.

The output is named resume_<Company>_<Title>.<ext>. Company and title come
from the first line of the job description unless given as flags.

Example:
  resume-refiner refine jd.txt jobs/Acme__VP/raw.txt
  resume-refiner refine https://example.com/jobs/123 raw.txt --format pdf
  resume-refiner refine jd.txt raw.txt --chain gemini-2.5-flash,anthropic/claude-sonnet-4-20250514`,
	Args: cobra.ExactArgs(2),
	RunE: runRefine,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(refineCmd)
	refineCmd.Flags().StringVar(&refineFlags.company, "company", "", "Company name (first word of the JD if not provided)")
	refineCmd.Flags().StringVar(&refineFlags.title, "title", "", "Job title (rest of the JD's first line if not provided)")
	refineCmd.Flags().StringVar(&refineFlags.outputDir, "output-dir", "", "Output directory (default from config)")
	refineCmd.Flags().StringVar(&refineFlags.format, "format", "", "Output format: docx, pdf or markdown (default from config)")
	refineCmd.Flags().StringVar(&refineFlags.chain, "chain", "", "Comma separated backend chain (default from config)")
	refineCmd.Flags().BoolVar(&refineFlags.keepMarkdown, "keep-markdown", false, "Keep the intermediate markdown file")
	refineCmd.Flags().BoolVar(&refineFlags.keepTagged, "keep-tagged", false, "Save the parsed sections as tagged text next to the output")
}

func runRefine(cmd *cobra.Command, args []string) (err error) {
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

	var draft string
	draft, err = readText(args[1])
	if err != nil {
		return err
	}

	var outPath string
	outPath, err = refineDraft(ctx, cfg, jobDescription, draft, refineFlags.company, refineFlags.title, outputDir(refineFlags.outputDir, cfg))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Resume generated: %s\n", outPath)
	return err
}

// refineDraft runs phase 2 and writes the document into dir.
func refineDraft(ctx context.Context, cfg config.Config, jobDescription, draft, company, title, dir string) (outPath string, err error) {
	layout := cfg.GetLayout()

	var systemPrompt string
	systemPrompt, err = prompt.LoadSystemPrompt(cfg.SystemPromptPath, layout)
	if err != nil {
		return outPath, err
	}

	p := prompt.BuildRefinePrompt(systemPrompt, jobDescription, draft)
	chain := resolveChain(refineFlags.chain, cfg.GetRefineChain())

	var result completion.Result
	result, err = runCompletion(ctx, cfg, chain, p, "Refining resume...")
	if err != nil {
		return outPath, err
	}

	format := refineFlags.format
	if format == "" {
		format = cfg.GetFormat()
	}

	safeCompany, safeTitle := jobNames(jobDescription, company, title)
	outPath = filepath.Join(dir, resumeFilename(safeCompany, safeTitle, renderer.Extension(format)))

	_, err = buildDocument(ctx, cfg, result.Text, outputOptions{
		path:         outPath,
		format:       format,
		keepMarkdown: refineFlags.keepMarkdown,
		keepTagged:   refineFlags.keepTagged,
	})
	return outPath, err
}
