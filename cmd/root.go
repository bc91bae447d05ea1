package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var logger = zap.NewNop()

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "resume-refiner",
	Short: "Tailor and refine resumes with a chain of language models",
	Long: `resume-refiner turns a job description and a resume draft into a
formatted resume document.

Model calls go through an ordered chain of backends (Gemini, Claude, OpenAI).
Transient failures are retried with backoff, rate limits and empty answers fall
through to the next backend. The model's tagged answer is parsed into sections
and laid out as docx, pdf or markdown.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRuntime,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logs and attempt report)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file, JSON or YAML (default is $HOME/.resume-refiner/config.json)")
}

// setupRuntime loads .env files and builds the structured logger.
func setupRuntime(cmd *cobra.Command, args []string) (err error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	logger, err = newLogger(getVerbose())
	return err
}

// newLogger logs JSON to stderr: warnings only by default, everything when verbose.
func newLogger(debug bool) (l *zap.Logger, err error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}

	l, err = cfg.Build()
	return l, err
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}
