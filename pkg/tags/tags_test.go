package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var resumeTags = []string{"SUMMARY", "CORE_SKILLS", "EXPERIENCE", "PROJECTS", "EDUCATION"}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		recognized []string
		want       map[string]string
	}{
		{
			name:       "single section",
			text:       "[SUMMARY]Hello\n[/SUMMARY]",
			recognized: []string{"SUMMARY"},
			want:       map[string]string{"SUMMARY": "Hello"},
		},
		{
			name:       "no tags",
			text:       "no tags here",
			recognized: []string{"SUMMARY"},
			want:       map[string]string{},
		},
		{
			name:       "case insensitive markers",
			text:       "[summary]\n  Leads teams.  \n[/Summary]",
			recognized: []string{"SUMMARY"},
			want:       map[string]string{"SUMMARY": "Leads teams."},
		},
		{
			name:       "recognized names are normalised",
			text:       "[EDUCATION]BSc[/EDUCATION]",
			recognized: []string{"education"},
			want:       map[string]string{"EDUCATION": "BSc"},
		},
		{
			name:       "missing close tag is absent",
			text:       "[SUMMARY]dangling text\n[PROJECTS]p[/PROJECTS]",
			recognized: resumeTags,
			want:       map[string]string{"PROJECTS": "p"},
		},
		{
			name:       "mismatched close tag is absent",
			text:       "[SUMMARY]text[/CORE_SKILLS]",
			recognized: resumeTags,
			want:       map[string]string{},
		},
		{
			name:       "close before open is absent",
			text:       "[/SUMMARY] stray [SUMMARY] never closed",
			recognized: []string{"SUMMARY"},
			want:       map[string]string{},
		},
		{
			name:       "first occurrence wins",
			text:       "[SUMMARY]first[/SUMMARY]\n[SUMMARY]second[/SUMMARY]",
			recognized: []string{"SUMMARY"},
			want:       map[string]string{"SUMMARY": "first"},
		},
		{
			name:       "non greedy body",
			text:       "[PROJECTS]a[/PROJECTS] middle [/PROJECTS]",
			recognized: []string{"PROJECTS"},
			want:       map[string]string{"PROJECTS": "a"},
		},
		{
			name:       "order in source does not matter",
			text:       "[EDUCATION]e[/EDUCATION][SUMMARY]s[/SUMMARY]",
			recognized: resumeTags,
			want:       map[string]string{"EDUCATION": "e", "SUMMARY": "s"},
		},
		{
			name:       "interleaved sections are independent",
			text:       "[SUMMARY]s1 [PROJECTS]p1 [/SUMMARY] p2[/PROJECTS]",
			recognized: []string{"SUMMARY", "PROJECTS"},
			want:       map[string]string{"SUMMARY": "s1 [PROJECTS]p1", "PROJECTS": "p1 [/SUMMARY] p2"},
		},
		{
			name:       "unrecognized tags are ignored",
			text:       "[OTHER]x[/OTHER][SUMMARY]y[/SUMMARY]",
			recognized: []string{"SUMMARY"},
			want:       map[string]string{"SUMMARY": "y"},
		},
		{
			name:       "empty body is present",
			text:       "[SUMMARY]\n\n[/SUMMARY]",
			recognized: []string{"SUMMARY"},
			want:       map[string]string{"SUMMARY": ""},
		},
		{
			name:       "multi line body is verbatim",
			text:       "[EXPERIENCE]\nCompany: Acme\n- Did X\n\n- Did Y\n[/EXPERIENCE]",
			recognized: []string{"EXPERIENCE"},
			want:       map[string]string{"EXPERIENCE": "Company: Acme\n- Did X\n\n- Did Y"},
		},
		{
			name:       "invalid recognized names are skipped",
			text:       "[SUM MARY]x[/SUM MARY]",
			recognized: []string{"SUM MARY", ""},
			want:       map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text, tt.recognized))
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	sections := map[string]string{
		"SUMMARY":     "Engineering leader.\nBuilds platforms.",
		"CORE_SKILLS": "Go\nKubernetes\nSRE",
		"EXPERIENCE":  "Company: Acme | VP Eng | 2020-2024\n- Grew org to 80\n- Cut spend 30%\n\nCompany: Globex\n- Shipped things",
		"EDUCATION":   "BSc Computer Science",
	}

	text := Compose(sections, resumeTags)
	assert.Equal(t, sections, Parse(text, resumeTags))
}

func TestComposeSkipsMissing(t *testing.T) {
	text := Compose(map[string]string{"SUMMARY": "  hi  "}, []string{"SUMMARY", "PROJECTS"})
	assert.Equal(t, "[SUMMARY]\nhi\n[/SUMMARY]\n", text)
}

func TestLocate(t *testing.T) {
	text := "xx[Tag]body[/TAG]yy"
	start, end, found := Locate(text, "TAG")
	assert.True(t, found)
	assert.Equal(t, "body", text[start:end])

	_, _, found = Locate(text, "OTHER")
	assert.False(t, found)

	_, _, found = Locate(text, "T]G")
	assert.False(t, found)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("CORE_SKILLS"))
	assert.True(t, ValidName("a1"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("CORE SKILLS"))
	assert.False(t, ValidName("X]"))
	assert.False(t, ValidName("/X"))
}
