package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nikogura/resume-refiner/pkg/config"
	"github.com/nikogura/resume-refiner/pkg/jd"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var pipelineCmd = &cobra.Command{
	Use:   "pipeline <jd-file-or-url>",
	Short: "Tailor a draft and refine it into a document in one run",
	Long: `Pipeline runs tailor and then refine on the same job description.

The draft goes to <jobs-dir>/<Company>__<Title>/raw.txt and the finished
document to <jobs-dir>/<Company>__<Title>/phase2 unless --output-dir is set.

Example:
  resume-refiner pipeline jd.txt --company "Acme Corp" --title "VP Engineering"`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(pipelineCmd)
	addTailorFlags(pipelineCmd)
	pipelineCmd.Flags().StringVar(&refineFlags.outputDir, "output-dir", "", "Output directory (default <job dir>/phase2)")
	pipelineCmd.Flags().StringVar(&refineFlags.format, "format", "", "Output format: docx, pdf or markdown (default from config)")
	pipelineCmd.Flags().StringVar(&refineFlags.chain, "chain", "", "Comma separated backend chain for refining (default from config)")
	pipelineCmd.Flags().BoolVar(&refineFlags.keepMarkdown, "keep-markdown", false, "Keep the intermediate markdown file")
	pipelineCmd.Flags().BoolVar(&refineFlags.keepTagged, "keep-tagged", false, "Save the parsed sections as tagged text next to the output")
}

func runPipeline(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Minute)
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

	fmt.Println("Phase 1: tailoring")
	var dir, draft string
	dir, draft, err = tailorDraft(ctx, cfg, jobDescription)
	if err != nil {
		return err
	}

	outDir := refineFlags.outputDir
	if outDir == "" {
		outDir = filepath.Join(dir, "phase2")
	}

	fmt.Println("Phase 2: refining")
	var outPath string
	outPath, err = refineDraft(ctx, cfg, jobDescription, draft, tailorFlags.company, tailorFlags.title, outDir)
	if err != nil {
		return err
	}

	fmt.Println("\n✓ Full pipeline complete.")
	fmt.Printf("  Draft:  %s\n", filepath.Join(dir, rawDraftFile))
	fmt.Printf("  Resume: %s\n", outPath)
	return err
}
