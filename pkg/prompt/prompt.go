// Package prompt builds the model prompts for the tailoring and refining phases.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/nikogura/resume-refiner/pkg/document"
	"github.com/pkg/errors"
)

//go:embed defaults/system_prompt.txt
var defaultSystemPrompt string

// Placeholders expanded in system prompt templates.
const (
	TagsPlaceholder          = "{{TAGS}}"
	SentinelPlaceholder      = "{{SENTINEL}}"
	EntrySectionsPlaceholder = "{{ENTRY_SECTIONS}}"
)

// RefineTrailer ends every refine prompt.
const RefineTrailer = "OUTPUT ONLY THE TAGGED RESUME."

// DefaultSystemPrompt returns the built-in system prompt template.
func DefaultSystemPrompt() (template string) {
	template = defaultSystemPrompt
	return template
}

// LoadSystemPrompt reads the template at path, or uses the built-in one when
// path is empty, and expands it for layout.
func LoadSystemPrompt(path string, layout document.Layout) (systemPrompt string, err error) {
	template := defaultSystemPrompt
	if path != "" {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to read system prompt %s", path)
			return systemPrompt, err
		}
		template = string(data)
	}

	systemPrompt = Expand(template, layout)
	return systemPrompt, err
}

// Expand fills the layout placeholders of a system prompt template.
func Expand(template string, layout document.Layout) (expanded string) {
	var entrySections []string
	for _, s := range layout.Sections {
		if s.Shape == document.Entries {
			entrySections = append(entrySections, "["+strings.ToUpper(s.Name)+"]")
		}
	}
	entryList := strings.Join(entrySections, ", ")
	if entryList == "" {
		entryList = "entry sections"
	}

	sentinel := layout.Sentinel
	if sentinel == "" {
		sentinel = "-"
	}

	expanded = strings.NewReplacer(
		TagsPlaceholder, TagInstructions(layout),
		SentinelPlaceholder, sentinel,
		EntrySectionsPlaceholder, entryList,
	).Replace(template)
	return expanded
}

// TagInstructions lists the layout's sections as the model should emit them.
func TagInstructions(layout document.Layout) (instructions string) {
	var sb strings.Builder
	for _, s := range layout.Sections {
		name := strings.ToUpper(s.Name)
		fmt.Fprintf(&sb, "[%s]\n", name)
		if s.Label != "" && s.Label != name {
			fmt.Fprintf(&sb, "(%s)\n", s.Label)
		}
		fmt.Fprintf(&sb, "[/%s]\n", name)
	}
	instructions = strings.TrimRight(sb.String(), "\n")
	return instructions
}

// TailorRequest holds the inputs of the tailoring phase.
type TailorRequest struct {
	SystemPrompt   string
	Company        string
	Title          string
	JobDescription string
	Extra          string
	BaseResume     string
}

// BuildTailorPrompt creates the phase 1 prompt, which produces a raw draft
// aimed at one company and role.
func BuildTailorPrompt(req TailorRequest) (prompt string) {
	extra := strings.TrimSpace(req.Extra)
	if extra == "" {
		extra = "(none)"
	}

	prompt = fmt.Sprintf(`%s

COMPANY: %s
TARGET JOB TITLE: %s

JOB DESCRIPTION:
%s

EXTRA INSTRUCTIONS FROM CANDIDATE (OPTIONAL):
%s

BASE RESUME:
%s`,
		strings.TrimSpace(req.SystemPrompt),
		strings.TrimSpace(req.Company),
		strings.TrimSpace(req.Title),
		strings.TrimSpace(req.JobDescription),
		extra,
		strings.TrimSpace(req.BaseResume),
	)
	prompt = strings.TrimSpace(prompt)
	return prompt
}

// BuildRefinePrompt creates the phase 2 prompt, which turns a draft into
// tagged sections.
func BuildRefinePrompt(systemPrompt, jobDescription, baseResume string) (prompt string) {
	prompt = fmt.Sprintf(`%s

JOB_DESCRIPTION:
%s

BASE_RESUME:
%s

%s
`,
		strings.TrimSpace(systemPrompt),
		strings.TrimSpace(jobDescription),
		strings.TrimSpace(baseResume),
		RefineTrailer,
	)
	return prompt
}
