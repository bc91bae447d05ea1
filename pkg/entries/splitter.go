// Package entries splits list-shaped resume sections into repeating entries.
package entries

import (
	"strings"
)

// DefaultSentinel starts a new work history entry.
const DefaultSentinel = "Company:"

// Entry is one repeating record of a section, such as a single job.
type Entry struct {
	Header  string
	Details []string
}

// Split breaks sectionText into entries. A trimmed line beginning with
// sentinel (case-sensitive) opens a new entry and becomes its header; the
// non-blank lines after it are its details, bullet markers stripped.
//
// Lines before the first sentinel form an entry with an empty header, kept
// only when it has details. When no sentinel appears at all the whole section
// is one such entry. An empty sentinel never matches, so the section stays flat.
func Split(sectionText, sentinel string) (entries []Entry) {
	var current *Entry

	flush := func() {
		if current == nil {
			return
		}
		if current.Header != "" || len(current.Details) > 0 {
			entries = append(entries, *current)
		}
		current = nil
	}

	for _, raw := range strings.Split(sectionText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if sentinel != "" && strings.HasPrefix(line, sentinel) {
			flush()
			current = &Entry{Header: line}
			continue
		}

		detail := StripBulletMarker(line)
		if detail == "" {
			continue
		}
		if current == nil {
			current = &Entry{}
		}
		current.Details = append(current.Details, detail)
	}
	flush()

	return entries
}

// StripBulletMarker removes a leading run of '-' characters and the
// whitespace that follows it.
func StripBulletMarker(line string) (stripped string) {
	stripped = strings.TrimSpace(line)
	trimmed := strings.TrimLeft(stripped, "-")
	if trimmed == stripped {
		return stripped
	}
	stripped = strings.TrimSpace(trimmed)
	return stripped
}
