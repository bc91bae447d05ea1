package document

import (
	"fmt"
	"strings"

	"github.com/nikogura/resume-refiner/pkg/entries"
	"github.com/nikogura/resume-refiner/pkg/tags"
	"github.com/pkg/errors"
)

// Shape says how a section's lines become blocks.
type Shape int

const (
	// Prose emits one Paragraph per non-blank line.
	Prose Shape = iota
	// Bullets emits one Bullet per non-blank line, markers stripped.
	Bullets
	// Joined emits a single Paragraph of all lines joined by the layout separator.
	Joined
	// Entries splits the section on the layout sentinel.
	Entries
)

var shapeNames = map[Shape]string{
	Prose:   "prose",
	Bullets: "bullets",
	Joined:  "joined",
	Entries: "entries",
}

func (s Shape) String() (name string) {
	name, ok := shapeNames[s]
	if !ok {
		name = fmt.Sprintf("shape(%d)", int(s))
	}
	return name
}

// MarshalText lets shapes appear by name in JSON and YAML config.
func (s Shape) MarshalText() (text []byte, err error) {
	name, ok := shapeNames[s]
	if !ok {
		err = errors.Errorf("unknown shape %d", int(s))
		return text, err
	}
	text = []byte(name)
	return text, err
}

// UnmarshalText parses a shape name.
func (s *Shape) UnmarshalText(text []byte) (err error) {
	want := strings.ToLower(strings.TrimSpace(string(text)))
	for shape, name := range shapeNames {
		if name == want {
			*s = shape
			return err
		}
	}
	err = errors.Errorf("unknown shape %q: must be one of prose, bullets, joined, entries", string(text))
	return err
}

// SectionSpec describes one section of the output document.
type SectionSpec struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Shape Shape  `json:"shape" yaml:"shape"`
}

// Layout is the ordered set of sections the assembler emits.
type Layout struct {
	Sections      []SectionSpec `json:"sections" yaml:"sections"`
	Sentinel      string        `json:"sentinel" yaml:"sentinel"`
	JoinSeparator string        `json:"join_separator" yaml:"join_separator"`
}

// DefaultJoinSeparator joins the lines of a Joined section.
const DefaultJoinSeparator = " | "

// DefaultLayout returns the canonical resume layout.
func DefaultLayout() (layout Layout) {
	layout = Layout{
		Sections: []SectionSpec{
			{Name: "CONTACT", Label: "CONTACT", Shape: Prose},
			{Name: "SUMMARY", Label: "EXECUTIVE SUMMARY", Shape: Prose},
			{Name: "CORE_SKILLS", Label: "CORE STRENGTHS", Shape: Joined},
			{Name: "EXPERIENCE", Label: "EXPERIENCE", Shape: Entries},
			{Name: "ACHIEVEMENTS", Label: "KEY ACHIEVEMENTS", Shape: Bullets},
			{Name: "PROJECTS", Label: "PORTFOLIO PROJECTS", Shape: Bullets},
			{Name: "TECHNICAL_SKILLS", Label: "TECHNICAL LEADERSHIP SKILLS", Shape: Prose},
			{Name: "CERTIFICATIONS", Label: "CERTIFICATIONS", Shape: Bullets},
			{Name: "EDUCATION", Label: "EDUCATION", Shape: Bullets},
		},
		Sentinel:      entries.DefaultSentinel,
		JoinSeparator: DefaultJoinSeparator,
	}
	return layout
}

// Tags returns the section names in layout order, for use by the tag parser.
func (l Layout) Tags() (names []string) {
	names = make([]string, 0, len(l.Sections))
	for _, s := range l.Sections {
		names = append(names, tags.Key(s.Name))
	}
	return names
}

// Validate checks that every section has a usable, unique tag name and a
// known shape.
func (l Layout) Validate() (err error) {
	if len(l.Sections) == 0 {
		err = errors.New("layout has no sections")
		return err
	}

	seen := make(map[string]bool, len(l.Sections))
	for i, s := range l.Sections {
		key := tags.Key(s.Name)
		if !tags.ValidName(key) {
			err = errors.Errorf("section %d: invalid tag name %q", i, s.Name)
			return err
		}
		if seen[key] {
			err = errors.Errorf("section %d: duplicate tag name %q", i, key)
			return err
		}
		seen[key] = true

		if _, ok := shapeNames[s.Shape]; !ok {
			err = errors.Errorf("section %s: unknown shape %d", key, int(s.Shape))
			return err
		}
	}

	return err
}

// label falls back to the tag name when no label is configured.
func (s SectionSpec) label() (label string) {
	label = strings.TrimSpace(s.Label)
	if label == "" {
		label = tags.Key(s.Name)
	}
	return label
}
