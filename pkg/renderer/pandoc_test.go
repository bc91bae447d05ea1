package renderer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) (path string) {
	t.Helper()
	path = filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestWriteMarkdown(t *testing.T) {
	dir := t.TempDir()
	content := "# Jane Doe\n\n## EXECUTIVE SUMMARY\n\nLeader.\n"

	tests := []struct {
		name string
		path string
	}{
		{name: "flat", path: filepath.Join(dir, "resume.md")},
		{name: "nested directories are created", path: filepath.Join(dir, "jobs", "Acme__VP", "resume.md")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, WriteMarkdown(content, tt.path))

			data, err := os.ReadFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, content, string(data))
		})
	}
}

func TestCleanupMarkdown(t *testing.T) {
	dir := t.TempDir()
	first := writeFixture(t, dir, "resume.md", "a")
	second := writeFixture(t, dir, "resume.tagged.md", "b")

	require.NoError(t, CleanupMarkdown(first, second))
	for _, p := range []string{first, second} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "%s should be removed", p)
	}

	assert.Error(t, CleanupMarkdown(filepath.Join(dir, "missing.md")))
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	existing := writeFixture(t, dir, "resume.md", "x")
	missing := filepath.Join(dir, "missing.latex")

	tests := []struct {
		name    string
		paths   []string
		wantErr bool
	}{
		{name: "no paths", paths: nil},
		{name: "existing file", paths: []string{existing}},
		{name: "missing file", paths: []string{missing}, wantErr: true},
		{name: "one of several missing", paths: []string{existing, missing}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFiles(tt.paths...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "file not found")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRenderPDFRejectsMissingInputs(t *testing.T) {
	dir := t.TempDir()
	md := writeFixture(t, dir, "resume.md", "# Jane Doe\n")
	tmpl := writeFixture(t, dir, "resume.latex", "$body$")
	cls := writeFixture(t, dir, "resume.cls", "%")
	out := filepath.Join(dir, "resume.pdf")

	tests := []struct {
		name     string
		template string
		class    string
		missing  string
	}{
		{name: "missing template", template: filepath.Join(dir, "nope.latex"), class: cls, missing: "nope.latex"},
		{name: "missing class file", template: tmpl, class: filepath.Join(dir, "nope.cls"), missing: "nope.cls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RenderPDF(context.Background(), md, out, tt.template, tt.class)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)

			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestRenderDocxRejectsMissingReferenceDoc(t *testing.T) {
	dir := t.TempDir()
	md := writeFixture(t, dir, "resume.md", "# Jane Doe\n")

	err := RenderDocx(context.Background(), md, filepath.Join(dir, "resume.docx"), filepath.Join(dir, "reference.docx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference.docx")
}

func TestCheckPandocExists(t *testing.T) {
	if err := checkPandocExists(context.Background()); err != nil {
		t.Skip("pandoc not installed")
	}
}
