package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nikogura/resume-refiner/pkg/config"
	"github.com/nikogura/resume-refiner/pkg/document"
	"github.com/nikogura/resume-refiner/pkg/renderer"
	"github.com/nikogura/resume-refiner/pkg/tags"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var renderFlags struct {
	output       string
	format       string
	preview      bool
	style        string
	emitTagged   bool
	keepMarkdown bool
}

//nolint:gochecknoglobals // Cobra boilerplate
var renderCmd = &cobra.Command{
	Use:   "render <tagged-file>",
	Short: "Render already tagged resume text without calling a model",
	Long: `Render parses a file of [SECTION]...[/SECTION] blocks and lays it out
exactly as refine would, with no model calls. Useful for hand edits.

Example:
  resume-refiner render tagged.txt --output resume.docx
  resume-refiner render tagged.txt --preview
  resume-refiner render tagged.txt --emit-tagged > normalised.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderFlags.output, "output", "o", "", "Output file (default <input>.<ext>)")
	renderCmd.Flags().StringVar(&renderFlags.format, "format", "", "Output format: docx, pdf or markdown (default from config)")
	renderCmd.Flags().BoolVar(&renderFlags.preview, "preview", false, "Print a terminal preview instead of writing a file")
	renderCmd.Flags().StringVar(&renderFlags.style, "style", "", "Preview style: dark, light or notty (default detects the terminal)")
	renderCmd.Flags().BoolVar(&renderFlags.emitTagged, "emit-tagged", false, "Print the recognized sections as normalised tagged text")
	renderCmd.Flags().BoolVar(&renderFlags.keepMarkdown, "keep-markdown", false, "Keep the intermediate markdown file")
}

func runRender(cmd *cobra.Command, args []string) (err error) {
	var tagged string
	tagged, err = readText(args[0])
	if err != nil {
		return err
	}

	// Rendering makes no model calls, so missing API keys are fine here.
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if errors.Is(err, config.ErrNoAPIKey) {
		logger.Debug("rendering without API keys")
		err = nil
	}
	if err != nil {
		return err
	}
	layout := cfg.GetLayout()

	if renderFlags.emitTagged {
		fmt.Print(tags.Compose(tags.Parse(tagged, layout.Tags()), layout.Tags()))
		return err
	}

	if renderFlags.preview {
		var assembler *document.Assembler
		assembler, err = document.NewAssembler(layout)
		if err != nil {
			return err
		}
		blocks := assembler.Assemble(tags.Parse(tagged, layout.Tags()))
		md := renderer.Markdown(renderer.Header{Name: cfg.Name, Contact: cfg.Contact}, blocks)

		var out string
		out, err = renderer.Preview(md, renderFlags.style)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return err
	}

	format := renderFlags.format
	if format == "" {
		format = cfg.GetFormat()
	}
	outPath := renderFlags.output
	if outPath == "" {
		outPath = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + renderer.Extension(format)
	}

	_, err = buildDocument(cmd.Context(), cfg, tagged, outputOptions{
		path:         outPath,
		format:       format,
		keepMarkdown: renderFlags.keepMarkdown,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Resume rendered: %s\n", outPath)
	return err
}
