// Package document turns parsed resume sections into an ordered, flat
// sequence of style blocks for a renderer to lay out.
package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nikogura/resume-refiner/pkg/entries"
	"github.com/nikogura/resume-refiner/pkg/tags"
	"github.com/pkg/errors"
)

// Kind is the structural role of a Block.
type Kind int

const (
	// Heading is a section label.
	Heading Kind = iota
	// Paragraph is one line of prose.
	Paragraph
	// Bullet is one list item.
	Bullet
	// EntryHeader opens an entry such as a position held.
	EntryHeader
)

func (k Kind) String() (name string) {
	switch k {
	case Heading:
		name = "heading"
	case Paragraph:
		name = "paragraph"
	case Bullet:
		name = "bullet"
	case EntryHeader:
		name = "entry_header"
	default:
		name = fmt.Sprintf("kind(%d)", int(k))
	}
	return name
}

// Block is one renderer-agnostic unit of document structure. Grouping is
// expressed by adjacency: the Bullets after an EntryHeader belong to it.
type Block struct {
	Kind Kind
	Text string
}

// Assembler converts section maps into blocks according to a Layout.
type Assembler struct {
	layout Layout
}

// NewAssembler validates layout and returns an Assembler for it.
func NewAssembler(layout Layout) (a *Assembler, err error) {
	err = layout.Validate()
	if err != nil {
		err = errors.Wrap(err, "invalid layout")
		return a, err
	}
	if layout.JoinSeparator == "" {
		layout.JoinSeparator = DefaultJoinSeparator
	}

	a = &Assembler{layout: layout}
	return a, err
}

// Layout returns the layout in use.
func (a *Assembler) Layout() (layout Layout) {
	layout = a.layout
	return layout
}

// Assemble emits blocks for every layout section present in sections, in
// layout order. Keys are matched case-insensitively. Absent and blank
// sections contribute nothing.
func (a *Assembler) Assemble(sections map[string]string) (blocks []Block) {
	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Keys differing only in case collapse; the first non-blank one wins.
	normalized := make(map[string]string, len(sections))
	for _, k := range keys {
		key := tags.Key(k)
		if strings.TrimSpace(normalized[key]) != "" {
			continue
		}
		normalized[key] = sections[k]
	}

	for _, section := range a.layout.Sections {
		body := strings.TrimSpace(normalized[tags.Key(section.Name)])
		if body == "" {
			continue
		}

		content := a.sectionBlocks(section.Shape, body)
		if len(content) == 0 {
			continue
		}

		blocks = append(blocks, Block{Kind: Heading, Text: section.label()})
		blocks = append(blocks, content...)
	}

	return blocks
}

func (a *Assembler) sectionBlocks(shape Shape, body string) (blocks []Block) {
	switch shape {
	case Entries:
		for _, e := range entries.Split(body, a.layout.Sentinel) {
			if e.Header != "" {
				blocks = append(blocks, Block{Kind: EntryHeader, Text: e.Header})
			}
			for _, d := range e.Details {
				blocks = append(blocks, Block{Kind: Bullet, Text: d})
			}
		}
	case Joined:
		lines := nonBlankLines(body)
		if len(lines) > 0 {
			blocks = append(blocks, Block{Kind: Paragraph, Text: strings.Join(lines, a.layout.JoinSeparator)})
		}
	case Bullets:
		for _, line := range nonBlankLines(body) {
			item := entries.StripBulletMarker(line)
			if item != "" {
				blocks = append(blocks, Block{Kind: Bullet, Text: item})
			}
		}
	default:
		for _, line := range nonBlankLines(body) {
			blocks = append(blocks, Block{Kind: Paragraph, Text: line})
		}
	}
	return blocks
}

func nonBlankLines(body string) (lines []string) {
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Assemble lays out sections with DefaultLayout.
func Assemble(sections map[string]string) (blocks []Block) {
	a := &Assembler{layout: DefaultLayout()}
	blocks = a.Assemble(sections)
	return blocks
}
