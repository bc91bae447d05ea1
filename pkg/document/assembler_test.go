package document

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nikogura/resume-refiner/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAssemble(t *testing.T) {
	tests := []struct {
		name     string
		sections map[string]string
		want     []Block
	}{
		{
			name:     "empty input",
			sections: map[string]string{},
			want:     nil,
		},
		{
			name:     "prose section",
			sections: map[string]string{"SUMMARY": "Leader.\n\nBuilder."},
			want: []Block{
				{Kind: Heading, Text: "EXECUTIVE SUMMARY"},
				{Kind: Paragraph, Text: "Leader."},
				{Kind: Paragraph, Text: "Builder."},
			},
		},
		{
			name:     "core skills are joined",
			sections: map[string]string{"CORE_SKILLS": "Go\n  Kubernetes \n\nSRE"},
			want: []Block{
				{Kind: Heading, Text: "CORE STRENGTHS"},
				{Kind: Paragraph, Text: "Go | Kubernetes | SRE"},
			},
		},
		{
			name:     "bullets strip markers",
			sections: map[string]string{"PROJECTS": "- One\n--Two\n-\nThree"},
			want: []Block{
				{Kind: Heading, Text: "PORTFOLIO PROJECTS"},
				{Kind: Bullet, Text: "One"},
				{Kind: Bullet, Text: "Two"},
				{Kind: Bullet, Text: "Three"},
			},
		},
		{
			name: "experience entries",
			sections: map[string]string{
				"EXPERIENCE": "Company: Acme\n- Did X\n\nCompany: Globex\n- Did Y\n- Did Z",
			},
			want: []Block{
				{Kind: Heading, Text: "EXPERIENCE"},
				{Kind: EntryHeader, Text: "Company: Acme"},
				{Kind: Bullet, Text: "Did X"},
				{Kind: EntryHeader, Text: "Company: Globex"},
				{Kind: Bullet, Text: "Did Y"},
				{Kind: Bullet, Text: "Did Z"},
			},
		},
		{
			name:     "experience without sentinel",
			sections: map[string]string{"EXPERIENCE": "- Did X\n- Did Y"},
			want: []Block{
				{Kind: Heading, Text: "EXPERIENCE"},
				{Kind: Bullet, Text: "Did X"},
				{Kind: Bullet, Text: "Did Y"},
			},
		},
		{
			name: "canonical order regardless of input",
			sections: map[string]string{
				"EDUCATION":      "BSc",
				"SUMMARY":        "Leader.",
				"CERTIFICATIONS": "CKA",
				"CONTACT":        "me@example.com",
			},
			want: []Block{
				{Kind: Heading, Text: "CONTACT"},
				{Kind: Paragraph, Text: "me@example.com"},
				{Kind: Heading, Text: "EXECUTIVE SUMMARY"},
				{Kind: Paragraph, Text: "Leader."},
				{Kind: Heading, Text: "CERTIFICATIONS"},
				{Kind: Bullet, Text: "CKA"},
				{Kind: Heading, Text: "EDUCATION"},
				{Kind: Bullet, Text: "BSc"},
			},
		},
		{
			name:     "blank section has no heading",
			sections: map[string]string{"SUMMARY": "  \n ", "EDUCATION": "BSc"},
			want: []Block{
				{Kind: Heading, Text: "EDUCATION"},
				{Kind: Bullet, Text: "BSc"},
			},
		},
		{
			name:     "bullets of only markers have no heading",
			sections: map[string]string{"PROJECTS": "-\n--"},
			want:     nil,
		},
		{
			name:     "keys are case insensitive",
			sections: map[string]string{"summary": "Leader."},
			want: []Block{
				{Kind: Heading, Text: "EXECUTIVE SUMMARY"},
				{Kind: Paragraph, Text: "Leader."},
			},
		},
		{
			name:     "unknown sections are ignored",
			sections: map[string]string{"HOBBIES": "Chess"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assemble(tt.sections)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Assemble() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssembleIsIdempotent(t *testing.T) {
	sections := map[string]string{
		"SUMMARY":     "Leader.",
		"summary":     "ignored duplicate",
		"CORE_SKILLS": "Go\nRust",
		"EXPERIENCE":  "Company: Acme\n- Did X",
		"EDUCATION":   "BSc",
	}

	first := Assemble(sections)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, Assemble(sections)); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestParseThenAssemble(t *testing.T) {
	completion := `Here is your resume.
[SUMMARY]
Platform leader.
[/SUMMARY]
[EXPERIENCE]
Company: Acme | VP | 2020-2024
- Grew team
[/EXPERIENCE]
[EDUCATION]
- BSc
[/EDUCATION]`

	layout := DefaultLayout()
	got := Assemble(tags.Parse(completion, layout.Tags()))
	want := []Block{
		{Kind: Heading, Text: "EXECUTIVE SUMMARY"},
		{Kind: Paragraph, Text: "Platform leader."},
		{Kind: Heading, Text: "EXPERIENCE"},
		{Kind: EntryHeader, Text: "Company: Acme | VP | 2020-2024"},
		{Kind: Bullet, Text: "Grew team"},
		{Kind: Heading, Text: "EDUCATION"},
		{Kind: Bullet, Text: "BSc"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomLayout(t *testing.T) {
	a, err := NewAssembler(Layout{
		Sections: []SectionSpec{
			{Name: "roles", Label: "Roles", Shape: Entries},
			{Name: "tools", Shape: Joined},
		},
		Sentinel:      "Role:",
		JoinSeparator: ", ",
	})
	require.NoError(t, err)

	got := a.Assemble(map[string]string{
		"TOOLS": "vim\ngit",
		"ROLES": "Role: Lead\n- a",
	})
	want := []Block{
		{Kind: Heading, Text: "Roles"},
		{Kind: EntryHeader, Text: "Role: Lead"},
		{Kind: Bullet, Text: "a"},
		{Kind: Heading, Text: "TOOLS"},
		{Kind: Paragraph, Text: "vim, git"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		wantErr string
	}{
		{name: "default", layout: DefaultLayout()},
		{name: "empty", layout: Layout{}, wantErr: "no sections"},
		{
			name:    "invalid name",
			layout:  Layout{Sections: []SectionSpec{{Name: "CORE SKILLS"}}},
			wantErr: "invalid tag name",
		},
		{
			name:    "duplicate name",
			layout:  Layout{Sections: []SectionSpec{{Name: "SUMMARY"}, {Name: "summary"}}},
			wantErr: "duplicate tag name",
		},
		{
			name:    "unknown shape",
			layout:  Layout{Sections: []SectionSpec{{Name: "SUMMARY", Shape: Shape(9)}}},
			wantErr: "unknown shape",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := NewAssembler(Layout{})
	assert.Error(t, err)
}

func TestLayoutTags(t *testing.T) {
	assert.Equal(t, []string{
		"CONTACT", "SUMMARY", "CORE_SKILLS", "EXPERIENCE", "ACHIEVEMENTS",
		"PROJECTS", "TECHNICAL_SKILLS", "CERTIFICATIONS", "EDUCATION",
	}, DefaultLayout().Tags())
}

func TestLayoutDecoding(t *testing.T) {
	jsonDoc := `{"sections":[{"name":"SUMMARY","label":"Profile","shape":"prose"},{"name":"JOBS","shape":"entries"}],"sentinel":"Employer:"}`
	var fromJSON Layout
	require.NoError(t, json.Unmarshal([]byte(jsonDoc), &fromJSON))

	yamlDoc := `
sections:
  - name: SUMMARY
    label: Profile
    shape: prose
  - name: JOBS
    shape: ENTRIES
sentinel: "Employer:"
`
	var fromYAML Layout
	require.NoError(t, yaml.Unmarshal([]byte(yamlDoc), &fromYAML))

	want := Layout{
		Sections: []SectionSpec{
			{Name: "SUMMARY", Label: "Profile", Shape: Prose},
			{Name: "JOBS", Shape: Entries},
		},
		Sentinel: "Employer:",
	}
	assert.Equal(t, want, fromJSON)
	assert.Equal(t, want, fromYAML)

	var bad Layout
	err := json.Unmarshal([]byte(`{"sections":[{"name":"X","shape":"table"}]}`), &bad)
	assert.Error(t, err)

	out, err := json.Marshal(SectionSpec{Name: "X", Shape: Joined})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"shape":"joined"`)
}

func TestStyleFor(t *testing.T) {
	heading := StyleFor(Heading)
	assert.True(t, heading.Bold)
	assert.True(t, heading.AllCaps)
	assert.Equal(t, 26, heading.Size)
	assert.Equal(t, 200, heading.SpacingBefore)
	assert.Equal(t, 100, heading.SpacingAfter)

	assert.Equal(t, Style{Bold: true, Size: 22, SpacingBefore: 120}, StyleFor(EntryHeader))
	assert.Equal(t, Style{Size: 22, SpacingAfter: 60, Bullet: true}, StyleFor(Bullet))
	assert.Equal(t, Style{Size: 22}, StyleFor(Paragraph))
	assert.Equal(t, "entry_header", EntryHeader.String())
}
