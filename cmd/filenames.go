package cmd

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nikogura/resume-refiner/pkg/jd"
)

const (
	maxCompanyPart = 25
	maxTitlePart   = 35
)

//nolint:gochecknoglobals // compiled once
var unsafeRun = regexp.MustCompile(`[^A-Za-z0-9]+`)

// safePart makes s usable inside a filename: every run of characters other
// than ASCII letters and digits becomes one underscore, the result is cut to
// limit bytes and stripped of edge underscores.
func safePart(s string, limit int) (part string) {
	part = unsafeRun.ReplaceAllString(s, "_")
	if limit > 0 && len(part) > limit {
		part = part[:limit]
	}
	part = strings.Trim(part, "_")
	return part
}

// jobNames picks the company and title used for output names: explicit
// values win, otherwise they come from the JD's first line.
func jobNames(jobDescription, company, title string) (safeCompany, safeTitle string) {
	headCompany, headTitle := jd.Headline(jobDescription)
	if strings.TrimSpace(company) == "" {
		company = headCompany
	}
	if strings.TrimSpace(title) == "" {
		title = headTitle
	}

	safeCompany = safePart(company, maxCompanyPart)
	if safeCompany == "" {
		safeCompany = "Company"
	}
	safeTitle = safePart(title, maxTitlePart)
	if safeTitle == "" {
		safeTitle = "Role"
	}
	return safeCompany, safeTitle
}

// resumeFilename returns resume_<company>_<title><ext>.
func resumeFilename(safeCompany, safeTitle, ext string) (name string) {
	name = "resume_" + safeCompany + "_" + safeTitle + ext
	return name
}

// jobDir returns <base>/<company>__<title>, where tailored drafts live.
func jobDir(base, safeCompany, safeTitle string) (dir string) {
	dir = filepath.Join(base, safeCompany+"__"+safeTitle)
	return dir
}
