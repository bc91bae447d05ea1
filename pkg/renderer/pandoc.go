// Package renderer turns assembled resume blocks into markdown and, through
// pandoc, into docx or pdf files.
package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Output formats.
const (
	FormatDocx     = "docx"
	FormatPDF      = "pdf"
	FormatMarkdown = "markdown"
)

// Options selects the output format and its pandoc inputs.
type Options struct {
	Format string
	// ReferenceDoc styles docx output. Optional.
	ReferenceDoc string
	// TemplatePath and ClassFile are required for pdf output.
	TemplatePath string
	ClassFile    string
}

// Extension returns the file extension for format.
func Extension(format string) (ext string) {
	switch strings.ToLower(format) {
	case FormatPDF:
		ext = ".pdf"
	case FormatMarkdown, "md":
		ext = ".md"
	default:
		ext = ".docx"
	}
	return ext
}

// Render converts the markdown file at markdownPath into outputPath.
func Render(ctx context.Context, markdownPath, outputPath string, opts Options) (err error) {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = FormatDocx
	}

	switch format {
	case FormatMarkdown, "md":
		err = copyMarkdown(markdownPath, outputPath)
	case FormatDocx:
		err = RenderDocx(ctx, markdownPath, outputPath, opts.ReferenceDoc)
	case FormatPDF:
		err = RenderPDF(ctx, markdownPath, outputPath, opts.TemplatePath, opts.ClassFile)
	default:
		err = errors.Errorf("unsupported output format %q", opts.Format)
	}
	return err
}

// RenderDocx converts markdown to a Word document, optionally styled by a
// reference document.
func RenderDocx(ctx context.Context, markdownPath, outputPath, referenceDoc string) (err error) {
	files := []string{markdownPath}
	if referenceDoc != "" {
		files = append(files, referenceDoc)
	}
	err = validateFiles(files...)
	if err != nil {
		return err
	}

	err = checkPandocExists(ctx)
	if err != nil {
		return err
	}

	err = ensureDir(outputPath)
	if err != nil {
		return err
	}

	args := []string{"-f", "markdown", "-t", "docx", "-o", outputPath}
	if referenceDoc != "" {
		args = append(args, "--reference-doc", referenceDoc)
	}
	args = append(args, markdownPath)

	cmd := exec.CommandContext(ctx, "pandoc", args...)

	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", string(output))
		return err
	}

	return err
}

// RenderPDF converts markdown to PDF using pandoc with LaTeX templates.
func RenderPDF(ctx context.Context, markdownPath, outputPath, templatePath, classPath string) (err error) {
	err = validateFiles(markdownPath, templatePath, classPath)
	if err != nil {
		return err
	}

	err = checkPandocExists(ctx)
	if err != nil {
		return err
	}

	err = ensureDir(outputPath)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx,
		"pandoc",
		"-f", "markdown",
		"-t", "pdf",
		"-o", outputPath,
		"--template", templatePath,
		"--number-sections=false",
		markdownPath,
	)

	// TEXINPUTS must include the directory with the .cls file.
	classDir := filepath.Dir(classPath)
	texinputs := classDir + ":" + os.Getenv("TEXINPUTS")
	cmd.Env = append(os.Environ(), "TEXINPUTS="+texinputs)

	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", string(output))
		return err
	}

	return err
}

// checkPandocExists verifies pandoc is installed.
func checkPandocExists(ctx context.Context) (err error) {
	cmd := exec.CommandContext(ctx, "pandoc", "--version")
	err = cmd.Run()
	if err != nil {
		err = errors.New("pandoc not found in PATH (install pandoc to generate docx or pdf output)")
		return err
	}
	return err
}

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	err = nil
	return err
}

func ensureDir(outputPath string) (err error) {
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}
	return err
}

func copyMarkdown(markdownPath, outputPath string) (err error) {
	if filepath.Clean(markdownPath) == filepath.Clean(outputPath) {
		return err
	}

	var data []byte
	data, err = os.ReadFile(markdownPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to read markdown file: %s", markdownPath)
		return err
	}

	err = WriteMarkdown(string(data), outputPath)
	return err
}

// WriteMarkdown writes markdown content to a file.
func WriteMarkdown(content, outputPath string) (err error) {
	err = ensureDir(outputPath)
	if err != nil {
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write markdown file: %s", outputPath)
		return err
	}

	return err
}

// CleanupMarkdown removes intermediate markdown files after rendering.
func CleanupMarkdown(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove markdown file: %s", path)
			return err
		}
	}
	return err
}
