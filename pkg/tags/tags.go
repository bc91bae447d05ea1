// Package tags extracts named sections from model output.
//
// # Grammar
//
// A section is an open marker, a body and a close marker:
//
//	[NAME] body [/NAME]
//
// NAME is one or more ASCII letters, digits or underscores and is matched
// case-insensitively. The body is taken verbatim (it may span lines) and is
// trimmed of surrounding whitespace. For every requested name the first open
// marker is paired with the nearest close marker after it. A name whose open
// or close marker is missing is absent from the result; later duplicates of a
// name are ignored. Sections are located independently, so interleaved or
// overlapping sections do not affect each other.
package tags

import (
	"strings"
)

// ValidName reports whether name is usable as a tag name.
func ValidName(name string) (valid bool) {
	if name == "" {
		return valid
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !isAlnum && c != '_' {
			return valid
		}
	}
	valid = true
	return valid
}

// Key normalises a tag name to the form used as a map key.
func Key(name string) (key string) {
	key = strings.ToUpper(strings.TrimSpace(name))
	return key
}

// Locate finds the body of the first complete [name]...[/name] pair in text.
// start and end are byte offsets of the untrimmed body.
func Locate(text, name string) (start, end int, found bool) {
	if !ValidName(name) {
		return start, end, found
	}

	open := "[" + name + "]"
	closing := "[/" + name + "]"

	openAt := indexFold(text, open, 0)
	if openAt < 0 {
		return start, end, found
	}
	bodyStart := openAt + len(open)

	closeAt := indexFold(text, closing, bodyStart)
	if closeAt < 0 {
		return start, end, found
	}

	start, end, found = bodyStart, closeAt, true
	return start, end, found
}

// Find returns the trimmed body of the named section.
func Find(text, name string) (body string, found bool) {
	var start, end int
	start, end, found = Locate(text, name)
	if !found {
		return body, found
	}
	body = strings.TrimSpace(text[start:end])
	return body, found
}

// Parse extracts every recognized section present in text.
// Keys are upper-cased tag names; absent sections have no key.
func Parse(text string, recognized []string) (sections map[string]string) {
	sections = make(map[string]string)
	for _, name := range recognized {
		key := Key(name)
		if _, seen := sections[key]; seen {
			continue
		}
		body, found := Find(text, key)
		if !found {
			continue
		}
		sections[key] = body
	}
	return sections
}

// Compose writes sections back in tagged form, in the given order.
// Names missing from sections are skipped.
func Compose(sections map[string]string, order []string) (text string) {
	var sb strings.Builder
	for _, name := range order {
		key := Key(name)
		body, ok := sections[key]
		if !ok || !ValidName(key) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("[" + key + "]\n")
		sb.WriteString(strings.TrimSpace(body))
		sb.WriteString("\n[/" + key + "]\n")
	}
	text = sb.String()
	return text
}

// indexFold is strings.Index with ASCII case folding, starting at from.
func indexFold(s, substr string, from int) (idx int) {
	idx = -1
	n := len(substr)
	for i := from; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			idx = i
			return idx
		}
	}
	return idx
}
