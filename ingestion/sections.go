package ingestion

import (
	"regexp"
	"strings"

	"github.com/hupe1980/cvmesh/domain"
)

type section string

const (
	secHeader         section = "header"
	secSummary        section = "summary"
	secExperience     section = "experience"
	secEducation      section = "education"
	secSkills         section = "skills"
	secProjects       section = "projects"
	secCertifications section = "certifications"
	secOther          section = "other"
)

// headings maps heading patterns to sections. Order matters: the first
// matching pattern wins.
var headings = []struct {
	re  *regexp.Regexp
	sec section
}{
	{regexp.MustCompile(`^(professional\s+)?(summary|profile|objective|about\s*me)$`), secSummary},
	{regexp.MustCompile(`^((work|professional)\s+)?experience$|^employment(\s+history)?$|^career\s+history$`), secExperience},
	{regexp.MustCompile(`^education$|^academic(\s+background)?$|^qualifications$|^degrees?$`), secEducation},
	{regexp.MustCompile(`^(technical\s+)?skills$|^competencies$|^expertise$|^proficiencies$`), secSkills},
	{regexp.MustCompile(`^((personal|selected)\s+)?projects$|^portfolio$`), secProjects},
	{regexp.MustCompile(`^(professional\s+)?certifications?$|^certificates?$|^licenses?$`), secCertifications},
	{regexp.MustCompile(`^languages?$|^interests?$|^hobbies$|^publications?$|^awards?$|^honors?$`), secOther},
}

var (
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe     = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	linkedinRe  = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	githubRe    = regexp.MustCompile(`(?i)github\.com/[\w-]+`)
	urlRe       = regexp.MustCompile(`https?://[\w.-]+\.[a-z]{2,}(/[\w./-]*)?`)
	dateRe      = regexp.MustCompile(`(?i)((?:[a-z]+\s+)?\d{4}(?:-\d{2})?)\s*(?:-|–|—|to)\s*((?:[a-z]+\s+)?\d{4}(?:-\d{2})?|present|current)`)
	roleRe      = regexp.MustCompile(`^(.+?)\s+(?:at|@|\|)\s+(.+)$`)
	degreeRe    = regexp.MustCompile(`(?i)\b(bachelor|master|phd|doctor|b\.?sc?\.?|m\.?sc?\.?|b\.?a\.?|m\.?a\.?|mba|diploma)\b`)
	bulletRe    = regexp.MustCompile(`^\s*[•\-*]\s+`)
	skillCatRe  = regexp.MustCompile(`^([^:]+):\s*(.+)$`)
	splitRe     = regexp.MustCompile(`\s*[,;•|]\s*`)
	certSplitRe = regexp.MustCompile(`\s+[-–—,]\s+`)
)

// classify returns the section a heading line opens.
func classify(line string) (section, bool) {
	h := strings.ToLower(strings.TrimSpace(line))
	h = strings.TrimLeft(h, "# ")
	h = strings.TrimRight(h, ": ")
	if h == "" || len(h) > 40 {
		return "", false
	}
	for _, entry := range headings {
		if entry.re.MatchString(h) {
			return entry.sec, true
		}
	}
	return "", false
}

// split groups the text lines by section. Lines before the first heading
// belong to the header.
func split(text string) map[section][]string {
	out := make(map[section][]string)
	current := secHeader
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if sec, ok := classify(line); ok {
			current = sec
			continue
		}
		out[current] = append(out[current], strings.TrimRight(line, " \t"))
	}
	return out
}

// blocks splits lines into blank-line separated entries.
func blocks(lines []string) [][]string {
	var (
		out [][]string
		cur []string
	)
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, strings.TrimSpace(l))
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func stripBullet(s string) (string, bool) {
	if loc := bulletRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:]), true
	}
	return strings.TrimSpace(s), false
}

// ParseText builds a Resume from a plain text or Markdown CV using heading
// based section detection.
func ParseText(text string) domain.Resume {
	secs := split(text)
	r := domain.Resume{Basics: parseHeader(secs[secHeader])}
	if summary := strings.Join(nonEmpty(secs[secSummary]), " "); summary != "" {
		r.Basics.Summary = summary
	}
	r.Work = parseExperience(secs[secExperience])
	r.Education = parseEducation(secs[secEducation])
	r.Skills = parseSkills(secs[secSkills])
	r.Projects = parseProjects(secs[secProjects])
	r.Certificates = parseCertificates(secs[secCertifications])
	return r
}

func nonEmpty(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func parseHeader(lines []string) domain.Basics {
	var b domain.Basics
	for i, line := range nonEmpty(lines) {
		plain := strings.TrimLeft(line, "# ")
		if i == 0 && !emailRe.MatchString(plain) {
			b.Name = plain
			continue
		}
		contact := false
		if m := emailRe.FindString(plain); m != "" {
			contact = true
			if b.Email == "" {
				b.Email = m
			}
			plain = strings.Replace(plain, m, "", 1)
		}
		if m := linkedinRe.FindString(plain); m != "" {
			contact = true
			b.Profiles = append(b.Profiles, domain.Profile{Network: "LinkedIn", URL: "https://" + m})
			plain = strings.Replace(plain, m, "", 1)
		}
		if m := githubRe.FindString(plain); m != "" {
			contact = true
			b.Profiles = append(b.Profiles, domain.Profile{Network: "GitHub", URL: "https://" + m})
			plain = strings.Replace(plain, m, "", 1)
		}
		if m := urlRe.FindString(plain); m != "" {
			contact = true
			if b.URL == "" {
				b.URL = m
			}
			plain = strings.Replace(plain, m, "", 1)
		}
		if m := phoneRe.FindString(plain); m != "" {
			contact = true
			if b.Phone == "" {
				b.Phone = strings.TrimSpace(m)
			}
		}
		if !contact && b.Label == "" {
			b.Label = plain
		}
	}
	return b
}

func parseExperience(lines []string) []domain.Work {
	var out []domain.Work
	for _, block := range blocks(lines) {
		var w domain.Work
		for i, line := range block {
			text, bullet := stripBullet(line)
			switch {
			case bullet:
				w.Highlights = append(w.Highlights, text)
			case w.StartDate == "" && dateRe.MatchString(text):
				m := dateRe.FindStringSubmatch(text)
				w.StartDate = m[1]
				if end := strings.ToLower(m[2]); end != "present" && end != "current" {
					w.EndDate = m[2]
				}
				if rest := strings.TrimSpace(strings.Trim(dateRe.ReplaceAllString(text, ""), "|,() ")); rest != "" && w.Company == "" {
					w.Company = rest
				}
			case i == 0:
				if m := roleRe.FindStringSubmatch(text); m != nil {
					w.Position, w.Company = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
				} else {
					w.Position = text
				}
			case w.Company == "":
				w.Company = text
			default:
				w.Summary = strings.TrimSpace(w.Summary + " " + text)
			}
		}
		if w.Position != "" || w.Company != "" {
			out = append(out, w)
		}
	}
	return out
}

func parseEducation(lines []string) []domain.Education {
	var out []domain.Education
	for _, block := range blocks(lines) {
		var e domain.Education
		for _, line := range block {
			text, _ := stripBullet(line)
			switch {
			case e.StartDate == "" && dateRe.MatchString(text):
				m := dateRe.FindStringSubmatch(text)
				e.StartDate, e.EndDate = m[1], m[2]
				if rest := strings.TrimSpace(strings.Trim(dateRe.ReplaceAllString(text, ""), "|,() ")); rest != "" && e.Institution == "" {
					e.Institution = rest
				}
			case e.StudyType == "" && degreeRe.MatchString(text):
				if study, area, ok := strings.Cut(text, " in "); ok {
					e.StudyType, e.Area = strings.TrimSpace(study), strings.TrimSpace(area)
				} else {
					e.StudyType = text
				}
			case strings.HasPrefix(strings.ToUpper(text), "GPA"):
				e.GPA = strings.TrimSpace(strings.TrimLeft(text[3:], ": "))
			case e.Institution == "":
				e.Institution = text
			}
		}
		if e.Institution != "" || e.StudyType != "" {
			out = append(out, e)
		}
	}
	return out
}

func parseSkills(lines []string) []domain.Skill {
	var (
		out     []domain.Skill
		general []string
	)
	for _, line := range nonEmpty(lines) {
		text, _ := stripBullet(line)
		if m := skillCatRe.FindStringSubmatch(text); m != nil {
			out = append(out, domain.Skill{Name: strings.TrimSpace(m[1]), Keywords: splitList(m[2])})
			continue
		}
		general = append(general, splitList(text)...)
	}
	if len(general) > 0 {
		out = append(out, domain.Skill{Name: "General", Keywords: general})
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, item := range splitRe.Split(s, -1) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseProjects(lines []string) []domain.Project {
	var out []domain.Project
	for _, block := range blocks(lines) {
		name, _ := stripBullet(block[0])
		p := domain.Project{Name: name}
		if before, after, ok := strings.Cut(name, ":"); ok {
			p.Name = strings.TrimSpace(before)
			if d := strings.TrimSpace(after); d != "" {
				p.Description = append(p.Description, d)
			}
		}
		for _, line := range block[1:] {
			text, _ := stripBullet(line)
			p.Description = append(p.Description, text)
		}
		out = append(out, p)
	}
	return out
}

func parseCertificates(lines []string) []domain.Certificate {
	var out []domain.Certificate
	for _, line := range nonEmpty(lines) {
		text, _ := stripBullet(line)
		parts := certSplitRe.Split(text, 3)
		c := domain.Certificate{Name: parts[0]}
		if len(parts) > 1 {
			c.Details = append(c.Details, "Issuer: "+parts[1])
		}
		if len(parts) > 2 {
			c.Details = append(c.Details, "Date: "+parts[2])
		}
		out = append(out, c)
	}
	return out
}
