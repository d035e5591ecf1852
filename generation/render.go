package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/hupe1980/cvmesh/domain"
)

// Section names understood by the Markdown renderer.
const (
	sectionSummary      = "summary"
	sectionWork         = "work"
	sectionSkills       = "skills"
	sectionEducation    = "education"
	sectionProjects     = "projects"
	sectionCertificates = "certificates"
)

var defaultLayout = []string{sectionSummary, sectionWork, sectionSkills, sectionEducation, sectionProjects, sectionCertificates}

// layouts orders the CV sections per template.
var layouts = map[string][]string{
	"engineering": {sectionSummary, sectionSkills, sectionWork, sectionProjects, sectionEducation, sectionCertificates},
	"data":        {sectionSummary, sectionSkills, sectionProjects, sectionWork, sectionEducation, sectionCertificates},
	"design":      {sectionSummary, sectionProjects, sectionWork, sectionSkills, sectionEducation, sectionCertificates},
	"executive":   {sectionSummary, sectionWork, sectionEducation, sectionCertificates, sectionSkills, sectionProjects},
	"management":  {sectionSummary, sectionWork, sectionSkills, sectionEducation, sectionCertificates, sectionProjects},
	"finance":     {sectionSummary, sectionWork, sectionCertificates, sectionEducation, sectionSkills, sectionProjects},
}

func layout(name string) []string {
	if l, ok := layouts[name]; ok {
		return l
	}
	return defaultLayout
}

const markdownTemplates = `
{{define "header"}}# {{or .Basics.Name "Curriculum Vitae"}}
{{with .Basics.Label}}
**{{.}}**
{{end}}{{with contact .Basics}}
{{.}}
{{end}}{{end}}

{{define "summary"}}{{with .Basics.Summary}}
## Summary

{{.}}
{{end}}{{end}}

{{define "work"}}{{if .Work}}
## Experience
{{range .Work}}
### {{.Position}}{{with .Company}} · {{.}}{{end}}
{{with dates .StartDate .EndDate}}*{{.}}*
{{end}}{{with .Summary}}
{{.}}
{{end}}{{range .Highlights}}- {{.}}
{{end}}{{end}}{{end}}{{end}}

{{define "skills"}}{{if .Skills}}
## Skills
{{range .Skills}}
- **{{.Name}}**: {{join .Keywords ", "}}{{end}}
{{end}}{{end}}

{{define "education"}}{{if .Education}}
## Education
{{range .Education}}
- {{with .StudyType}}{{.}} {{end}}{{with .Area}}in {{.}}{{end}}{{with .Institution}}, {{.}}{{end}}{{with dates .StartDate .EndDate}} ({{.}}){{end}}{{end}}
{{end}}{{end}}

{{define "projects"}}{{if .Projects}}
## Projects
{{range .Projects}}
### {{.Name}}
{{range .Description}}- {{.}}
{{end}}{{end}}{{end}}{{end}}

{{define "certificates"}}{{if .Certificates}}
## Certifications
{{range .Certificates}}
- {{.Name}}{{with .Details}}: {{join . "; "}}{{end}}{{end}}
{{end}}{{end}}
`

var markdown = template.Must(template.New("cv").Funcs(template.FuncMap{
	"join":    strings.Join,
	"dates":   dates,
	"contact": contact,
}).Parse(markdownTemplates))

func dates(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " - Present"
	case start == "":
		return end
	default:
		return start + " - " + end
	}
}

func contact(b domain.Basics) string {
	var parts []string
	for _, s := range []string{b.Email, b.Phone, b.Location.Address, b.URL} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	for _, p := range b.Profiles {
		parts = append(parts, p.URL)
	}
	return strings.Join(parts, " | ")
}

// RenderMarkdown renders cv with the section order of templateName.
func RenderMarkdown(cv domain.Resume, templateName string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.ExecuteTemplate(&buf, "header", cv); err != nil {
		return nil, fmt.Errorf("render header: %w", err)
	}
	for _, section := range layout(templateName) {
		if err := markdown.ExecuteTemplate(&buf, section, cv); err != nil {
			return nil, fmt.Errorf("render %s: %w", section, err)
		}
	}
	return buf.Bytes(), nil
}

// RenderJSON renders cv as indented JSON Resume.
func RenderJSON(cv domain.Resume) ([]byte, error) {
	return json.MarshalIndent(cv, "", "  ")
}
