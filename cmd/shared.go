package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikogura/resume-refiner/pkg/backend"
	"github.com/nikogura/resume-refiner/pkg/completion"
	"github.com/nikogura/resume-refiner/pkg/config"
	"github.com/nikogura/resume-refiner/pkg/document"
	"github.com/nikogura/resume-refiner/pkg/renderer"
	"github.com/nikogura/resume-refiner/pkg/tags"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/nikogura/resume-refiner"

// buildRouter registers a client for every provider with an API key.
func buildRouter(ctx context.Context, cfg config.Config) (router *backend.Router, err error) {
	router = backend.NewRouter()

	if cfg.GeminiAPIKey != "" {
		var gemini *backend.GeminiClient
		gemini, err = backend.NewGeminiClient(ctx, cfg.GeminiAPIKey, "")
		if err != nil {
			return router, err
		}
		router.Register(backend.Gemini, gemini)
	}
	if cfg.AnthropicAPIKey != "" {
		router.Register(backend.Anthropic, backend.NewAnthropicClient(cfg.AnthropicAPIKey, ""))
	}
	if cfg.OpenAIAPIKey != "" {
		router.Register(backend.OpenAI, backend.NewOpenAIClient(cfg.OpenAIAPIKey, ""))
	}

	return router, err
}

// newOrchestrator builds an orchestrator from the configured retry policy.
// Metrics and traces go to the global otel providers.
func newOrchestrator(cfg config.Config) (o *completion.Orchestrator, err error) {
	var policy completion.Policy
	policy, err = cfg.GetRetryPolicy()
	if err != nil {
		return o, err
	}

	o, err = completion.New(completion.Config{
		Policy: policy,
		Logger: logger.Named("completion"),
		Meter:  otel.Meter(instrumentationName),
		Tracer: otel.Tracer(instrumentationName),
	})
	return o, err
}

// resolveChain prefers a --chain flag value over the configured chain.
func resolveChain(flagValue string, configured completion.Chain) (chain completion.Chain) {
	chain = completion.ParseChain(flagValue)
	if len(chain) == 0 {
		chain = configured
	}
	return chain
}

// runCompletion sends prompt through chain and reports the attempts.
func runCompletion(ctx context.Context, cfg config.Config, chain completion.Chain, prompt, message string) (result completion.Result, err error) {
	var router *backend.Router
	router, err = buildRouter(ctx, cfg)
	if err != nil {
		return result, err
	}

	missing := router.Unavailable(chain)
	if len(missing) == len(chain) {
		err = errors.Errorf("no API key configured for any backend in chain %v", chain)
		return result, err
	}
	for _, id := range missing {
		logger.Warn("backend has no configured client and will fail", zap.String("backend", string(id)))
	}

	var o *completion.Orchestrator
	o, err = newOrchestrator(cfg)
	if err != nil {
		return result, err
	}

	err = withProgress(message, func() (runErr error) {
		result, runErr = o.Run(ctx, chain, prompt, router)
		return runErr
	})

	attempts := result.Attempts
	var allFailed *completion.AllFailedError
	if errors.As(err, &allFailed) {
		attempts = allFailed.Attempts
	}
	if getVerbose() || err != nil {
		fmt.Print(attemptReport(attempts))
	}

	if err != nil {
		err = errors.Wrap(err, "completion failed")
		return result, err
	}

	fmt.Printf("✓ Completion from %s\n", result.Backend)
	return result, err
}

// outputOptions are the rendering choices shared by refine, pipeline and render.
type outputOptions struct {
	path         string
	format       string
	keepMarkdown bool
	keepTagged   bool
}

// buildDocument parses tagged text, lays it out and renders it to opts.path.
func buildDocument(ctx context.Context, cfg config.Config, tagged string, opts outputOptions) (blocks []document.Block, err error) {
	layout := cfg.GetLayout()

	var assembler *document.Assembler
	assembler, err = document.NewAssembler(layout)
	if err != nil {
		return blocks, err
	}

	sections := tags.Parse(tagged, layout.Tags())
	if len(sections) == 0 {
		err = errors.New("completion contained no recognized tagged sections")
		return blocks, err
	}
	for _, name := range layout.Tags() {
		if _, ok := sections[name]; !ok {
			logger.Debug("section absent from completion", zap.String("section", name))
		}
	}

	blocks = assembler.Assemble(sections)
	md := renderer.Markdown(renderer.Header{Name: cfg.Name, Contact: cfg.Contact}, blocks)

	base := strings.TrimSuffix(opts.path, filepath.Ext(opts.path))
	mdPath := base + ".md"

	err = renderer.WriteMarkdown(md, mdPath)
	if err != nil {
		return blocks, err
	}

	if opts.keepTagged {
		err = writeText(base+".tagged.txt", tags.Compose(sections, layout.Tags()))
		if err != nil {
			return blocks, err
		}
	}

	format := opts.format
	if format == "" {
		format = cfg.GetFormat()
	}

	err = renderer.Render(ctx, mdPath, opts.path, renderer.Options{
		Format:       format,
		ReferenceDoc: cfg.Pandoc.ReferenceDoc,
		TemplatePath: cfg.Pandoc.TemplatePath,
		ClassFile:    cfg.Pandoc.ClassFile,
	})
	if err != nil {
		return blocks, err
	}

	if !opts.keepMarkdown && filepath.Clean(mdPath) != filepath.Clean(opts.path) {
		err = renderer.CleanupMarkdown(mdPath)
		if err != nil {
			return blocks, err
		}
	}

	return blocks, err
}

func readText(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s", path)
		return content, err
	}
	content = string(data)
	if strings.TrimSpace(content) == "" {
		err = errors.Errorf("%s is empty", path)
		return content, err
	}
	return content, err
}

func writeText(path, content string) (err error) {
	err = os.MkdirAll(filepath.Dir(path), 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create directory for %s", path)
		return err
	}
	err = os.WriteFile(path, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write %s", path)
		return err
	}
	return err
}

// outputDir prefers the flag value over the configured default.
func outputDir(flagValue string, cfg config.Config) (dir string) {
	dir = flagValue
	if dir == "" {
		dir = cfg.Defaults.OutputDir
	}
	if dir == "" {
		dir = "./output"
	}
	return dir
}
