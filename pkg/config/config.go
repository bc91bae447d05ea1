// Package config loads resume-refiner settings from JSON or YAML files and
// the environment.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nikogura/resume-refiner/pkg/completion"
	"github.com/nikogura/resume-refiner/pkg/document"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables that override API keys from the file.
const (
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
)

// ErrNoAPIKey is returned by Validate when no backend has a key.
var ErrNoAPIKey = errors.New("no API key configured")

// DefaultTailorModel drafts phase 1 resumes.
const DefaultTailorModel = "gpt-4.1-mini"

// DefaultRefineChain is tried in order when the config names no refine chain.
func DefaultRefineChain() (chain completion.Chain) {
	chain = completion.NewChain(
		"gemini-2.5-flash",
		"gemini-flash-latest",
		"gemini-2.0-flash",
		"gemini-2.5-flash-lite",
	)
	return chain
}

// Config represents the application configuration.
type Config struct {
	Name             string           `json:"name" yaml:"name"`
	Contact          []string         `json:"contact,omitempty" yaml:"contact,omitempty"`
	GeminiAPIKey     string           `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`
	AnthropicAPIKey  string           `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"`
	OpenAIAPIKey     string           `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`
	Models           ModelsConfig     `json:"models,omitempty" yaml:"models,omitempty"`
	Retry            RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
	SystemPromptPath string           `json:"system_prompt_path,omitempty" yaml:"system_prompt_path,omitempty"`
	BaseResumePath   string           `json:"base_resume_path,omitempty" yaml:"base_resume_path,omitempty"`
	Layout           *document.Layout `json:"layout,omitempty" yaml:"layout,omitempty"`
	Pandoc           PandocConfig     `json:"pandoc" yaml:"pandoc"`
	Defaults         DefaultConfig    `json:"defaults" yaml:"defaults"`
}

// ModelsConfig holds the backend chains for each phase. Entries are backend
// IDs such as "gemini-2.5-flash" or "anthropic/claude-sonnet-4-20250514".
type ModelsConfig struct {
	Refine []string `json:"refine,omitempty" yaml:"refine,omitempty"`
	Tailor []string `json:"tailor,omitempty" yaml:"tailor,omitempty"`
}

// RetryConfig holds the completion retry policy.
type RetryConfig struct {
	MaxAttempts int    `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty" validate:"gte=0,lte=10"`
	BaseDelay   string `json:"base_delay,omitempty" yaml:"base_delay,omitempty"`
	OnFatal     string `json:"on_fatal,omitempty" yaml:"on_fatal,omitempty" validate:"omitempty,oneof=abort skip"`
}

// PandocConfig holds pandoc-related configuration.
type PandocConfig struct {
	ReferenceDoc string `json:"reference_doc,omitempty" yaml:"reference_doc,omitempty"`
	TemplatePath string `json:"template_path,omitempty" yaml:"template_path,omitempty"`
	ClassFile    string `json:"class_file,omitempty" yaml:"class_file,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=docx pdf markdown"`
}

// GetRefineChain returns the refine chain or the default Gemini chain.
func (c *Config) GetRefineChain() (chain completion.Chain) {
	if len(c.Models.Refine) == 0 {
		chain = DefaultRefineChain()
		return chain
	}
	chain = completion.NewChain(c.Models.Refine...)
	return chain
}

// GetTailorChain returns the tailor chain or the default tailoring model.
func (c *Config) GetTailorChain() (chain completion.Chain) {
	if len(c.Models.Tailor) == 0 {
		chain = completion.NewChain(DefaultTailorModel)
		return chain
	}
	chain = completion.NewChain(c.Models.Tailor...)
	return chain
}

// GetRetryPolicy converts the retry settings into an orchestrator policy.
func (c *Config) GetRetryPolicy() (policy completion.Policy, err error) {
	policy.MaxAttempts = c.Retry.MaxAttempts

	if c.Retry.BaseDelay != "" {
		policy.BaseDelay, err = time.ParseDuration(c.Retry.BaseDelay)
		if err != nil {
			err = errors.Wrapf(err, "invalid retry.base_delay %q", c.Retry.BaseDelay)
			return policy, err
		}
	}

	policy.OnFatal, err = completion.ParseFatalPolicy(c.Retry.OnFatal)
	if err != nil {
		err = errors.Wrap(err, "invalid retry.on_fatal")
		return policy, err
	}

	return policy, err
}

// GetLayout returns the configured layout or the canonical one.
func (c *Config) GetLayout() (layout document.Layout) {
	if c.Layout == nil {
		layout = document.DefaultLayout()
		return layout
	}
	layout = *c.Layout
	if layout.JoinSeparator == "" {
		layout.JoinSeparator = document.DefaultJoinSeparator
	}
	return layout
}

// GetFormat returns the output format, docx unless configured.
func (c *Config) GetFormat() (format string) {
	format = c.Defaults.Format
	if format == "" {
		format = "docx"
	}
	return format
}

// DefaultPath returns ~/.resume-refiner/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".resume-refiner", "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides.
// With no explicit path a missing default file is not an error: keys may come
// from the environment alone.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		err = decode(path, data, &cfg)
		if err != nil {
			return cfg, err
		}
	case os.IsNotExist(err) && configPath == "":
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'resume-refiner init' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

func decode(path string, data []byte, cfg *Config) (err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return err
	}
	return err
}

func (c *Config) applyEnv() {
	if key := os.Getenv(EnvGeminiAPIKey); key != "" {
		c.GeminiAPIKey = key
	}
	if key := os.Getenv(EnvAnthropicAPIKey); key != "" {
		c.AnthropicAPIKey = key
	}
	if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
		c.OpenAIAPIKey = key
	}
}

// Validate checks that the configuration is usable and fills defaults.
func (c *Config) Validate() (err error) {
	err = validator.New().Struct(c)
	if err != nil {
		err = errors.Wrap(err, "invalid config")
		return err
	}

	if c.GeminiAPIKey == "" && c.AnthropicAPIKey == "" && c.OpenAIAPIKey == "" {
		err = errors.Wrapf(ErrNoAPIKey, "set one of %s, %s, %s or the matching config field",
			EnvGeminiAPIKey, EnvAnthropicAPIKey, EnvOpenAIAPIKey)
		return err
	}

	_, err = c.GetRetryPolicy()
	if err != nil {
		return err
	}

	if c.Layout != nil {
		err = c.Layout.Validate()
		if err != nil {
			err = errors.Wrap(err, "invalid layout")
			return err
		}
	}

	if c.GetFormat() == "pdf" {
		if c.Pandoc.TemplatePath == "" {
			err = errors.New("pandoc.template_path is required for pdf output")
			return err
		}
		if c.Pandoc.ClassFile == "" {
			err = errors.New("pandoc.class_file is required for pdf output")
			return err
		}
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "./output"
	}

	return err
}

// InitConfig creates a default configuration file. A .yaml or .yml path
// produces YAML.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return err
	}

	defaultConfig := Config{
		Name:           "Your Name",
		Contact:        []string{"you@example.com | +1 555 0100 | linkedin.com/in/you"},
		GeminiAPIKey:   "",
		Models:         ModelsConfig{Refine: chainStrings(DefaultRefineChain()), Tailor: []string{DefaultTailorModel}},
		Retry:          RetryConfig{MaxAttempts: completion.DefaultMaxAttempts, BaseDelay: completion.DefaultBaseDelay.String(), OnFatal: "abort"},
		BaseResumePath: filepath.Join(homeDir, ".resume-refiner", "base_resume.md"),
		Defaults: DefaultConfig{
			OutputDir: filepath.Join(homeDir, "Documents", "Resumes"),
			Format:    "docx",
		},
	}

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(defaultConfig)
	default:
		data, err = json.MarshalIndent(defaultConfig, "", "  ")
	}
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}

func chainStrings(chain completion.Chain) (ids []string) {
	for _, id := range chain {
		ids = append(ids, string(id))
	}
	return ids
}
