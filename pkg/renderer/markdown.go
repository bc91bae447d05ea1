package renderer

import (
	"strings"

	"github.com/nikogura/resume-refiner/pkg/document"
)

// Header is the candidate block printed above the first section.
type Header struct {
	Name    string
	Contact []string
}

// Markdown lays out blocks as pandoc markdown, applying document.StyleFor
// for emphasis and capitalisation. Consecutive bullets form one list.
func Markdown(header Header, blocks []document.Block) (md string) {
	var sb strings.Builder

	if name := strings.TrimSpace(header.Name); name != "" {
		sb.WriteString("# " + escapeInline(name) + "\n\n")
	}
	var contact []string
	for _, line := range header.Contact {
		line = strings.TrimSpace(line)
		if line != "" {
			contact = append(contact, escapeLine(line))
		}
	}
	if len(contact) > 0 {
		// A trailing backslash is a pandoc hard line break.
		sb.WriteString(strings.Join(contact, "\\\n") + "\n\n")
	}

	prev := document.Kind(-1)
	for _, b := range blocks {
		style := document.StyleFor(b.Kind)
		text := strings.TrimSpace(b.Text)
		if style.AllCaps {
			text = strings.ToUpper(text)
		}

		if prev == document.Bullet && b.Kind != document.Bullet {
			sb.WriteString("\n")
		}

		switch b.Kind {
		case document.Heading:
			sb.WriteString("## " + escapeInline(text) + "\n\n")
		case document.Bullet:
			sb.WriteString("- " + escapeLine(text) + "\n")
		default:
			line := escapeLine(text)
			if style.Bold {
				line = "**" + escapeInline(text) + "**"
			}
			sb.WriteString(line + "\n\n")
		}
		prev = b.Kind
	}

	md = strings.TrimRight(sb.String(), "\n") + "\n"
	return md
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

func escapeInline(text string) (escaped string) {
	escaped = inlineEscaper.Replace(text)
	return escaped
}

// escapeLine also neutralises characters that would turn a paragraph into a
// heading, list or quote.
func escapeLine(text string) (escaped string) {
	escaped = escapeInline(text)
	if escaped == "" {
		return escaped
	}

	switch escaped[0] {
	case '#', '>', '-', '+', '|', '=':
		escaped = `\` + escaped
		return escaped
	}

	digits := 0
	for digits < len(escaped) && escaped[digits] >= '0' && escaped[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(escaped) && (escaped[digits] == '.' || escaped[digits] == ')') {
		escaped = escaped[:digits] + `\` + escaped[digits:]
	}
	return escaped
}
