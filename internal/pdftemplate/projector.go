package pdftemplate

import (
	"strings"
	"time"

	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
)

const (
	recommendationMaxLen  = 550
	recommendationHardCut = 500

	listReduceToOne = 200
	listReduceToTwo = 150

	techRecapFirst  = 400
	techRecapSecond = 300

	projectsReduceToTwo = 600
	projectsReduceToOne = 500
)

// Projector maps a structured CV and interview findings into the bounded
// TemplateFields the renderer consumes. The limiting policy is
// deterministic on purpose: the downstream layout has fixed boxes and
// overflowing text breaks the page.
type Projector struct {
	footerLogoURL string
}

func NewProjector(footerLogoURL string) *Projector {
	return &Projector{footerLogoURL: footerLogoURL}
}

// Project builds the template fields from a structured CV alone.
// Interview-derived fields (recommendation, soft skills) stay empty until
// ApplyPaper merges them in.
func (p *Projector) Project(cv cvstruct.StructuredCv) TemplateFields {
	groups := GroupTechSkills(cv.Skills)

	fields := TemplateFields{
		Name:                  Sanitize(cv.Name),
		Seniority:             SeniorityLabel(cv.WorkExperience, time.Now()),
		CoreSkills:            sanitizeList(coreSkillsFromGroups(groups)),
		SoftSkills:            []string{},
		Languages:             sanitizeList(limitList(renderLanguages(cv.Languages), 3)),
		Education:             sanitizeList(reduceByLength(limitList(renderEducation(cv.Education), 3))),
		Trainings:             sanitizeList(reduceByLength(limitList(append(append([]string{}, cv.Certifications...), cv.Courses...), 3))),
		TechCompetenciesLine:  Sanitize(renderTechLine(groups)),
		ProjectExperienceLine: Sanitize(renderProjectLine(cv.WorkExperience)),
		FooterLogoURL:         p.footerLogoURL,
	}
	return fields
}

// ApplyPaper overrides CV-derived fields with the interview's verified
// findings re-parsed from the final paper text
func (p *Projector) ApplyPaper(fields *TemplateFields, paperContent string) {
	sections := ParsePaper(paperContent)

	if items, ok := sections["Our Recommendation"]; ok && len(items) > 0 {
		fields.Recommendation = Sanitize(TruncateRecommendation(strings.Join(items, " ")))
	}
	if items, ok := sections["Core Skills"]; ok && len(items) > 0 {
		fields.CoreSkills = sanitizeList(limitList(items, 3))
	}
	if items, ok := sections["Soft Skills"]; ok && len(items) > 0 {
		fields.SoftSkills = sanitizeList(limitList(items, 3))
	}
	if items, ok := sections["Languages"]; ok && len(items) > 0 {
		fields.Languages = sanitizeList(limitList(items, 3))
	}
	if items, ok := sections["Education"]; ok && len(items) > 0 {
		fields.Education = sanitizeList(reduceByLength(limitList(items, 3)))
	}
	if items, ok := sections["Trainings & Certifications"]; ok && len(items) > 0 {
		fields.Trainings = sanitizeList(reduceByLength(limitList(items, 3)))
	}
	if items, ok := sections["Technical Competencies"]; ok && len(items) > 0 {
		fields.TechCompetenciesLine = Sanitize(renderTechLine(GroupTechSkills(items)))
	}
}

// TruncateRecommendation bounds the recommendation text at 550 characters,
// preferring the last complete sentence within the limit. Only when no
// sentence boundary exists does it hard-cut at 500 and append an ellipsis.
func TruncateRecommendation(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= recommendationMaxLen {
		return text
	}

	window := text[:recommendationMaxLen]
	cut := -1
	for _, boundary := range []string{".", "!", "?"} {
		if i := strings.LastIndex(window, boundary); i > cut {
			cut = i
		}
	}
	if cut >= 0 {
		return strings.TrimSpace(window[:cut+1])
	}
	return text[:recommendationHardCut] + "..."
}

func limitList(items []string, max int) []string {
	cleaned := make([]string, 0, max)
	for _, item := range items {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		cleaned = append(cleaned, item)
		if len(cleaned) == max {
			break
		}
	}
	return cleaned
}

// reduceByLength shrinks a list further when its combined text would
// overflow the template box: over 200 chars keeps one entry, over 150
// keeps two
func reduceByLength(items []string) []string {
	combined := len(strings.Join(items, " "))
	switch {
	case combined > listReduceToOne && len(items) > 1:
		return items[:1]
	case combined > listReduceToTwo && len(items) > 2:
		return items[:2]
	default:
		return items
	}
}

func coreSkillsFromGroups(groups []TechGroup) []string {
	seen := make(map[string]bool)
	var skills []string
	for _, group := range groups {
		for _, skill := range group.Skills {
			key := strings.ToLower(skill)
			if seen[key] {
				continue
			}
			seen[key] = true
			skills = append(skills, skill)
			if len(skills) == 3 {
				return skills
			}
		}
	}
	return skills
}

func renderLanguages(languages []cvstruct.LanguageItem) []string {
	rendered := make([]string, 0, len(languages))
	for _, lang := range languages {
		name := strings.TrimSpace(lang.Name)
		if name == "" {
			continue
		}
		if level := strings.TrimSpace(lang.Level); level != "" {
			rendered = append(rendered, name+" ("+level+")")
		} else {
			rendered = append(rendered, name)
		}
	}
	return rendered
}

func renderEducation(education []cvstruct.EducationItem) []string {
	rendered := make([]string, 0, len(education))
	for _, entry := range education {
		var parts []string
		if degree := strings.TrimSpace(entry.Degree); degree != "" {
			parts = append(parts, degree)
		}
		if institution := strings.TrimSpace(entry.Institution); institution != "" {
			parts = append(parts, institution)
		}
		if len(parts) == 0 {
			continue
		}
		line := strings.Join(parts, ", ")
		if period := renderPeriod(entry.From, entry.To); period != "" {
			line += " (" + period + ")"
		}
		rendered = append(rendered, line)
	}
	return rendered
}

// renderProjectLine keeps the most recent 3 positions, shrinking to 2 or
// 1 when the combined text would overflow
func renderProjectLine(experience []cvstruct.ExperienceItem) string {
	entries := renderProjectEntries(experience, 3)
	line := strings.Join(entries, " | ")
	if len(line) > projectsReduceToTwo {
		entries = renderProjectEntries(experience, 2)
		line = strings.Join(entries, " | ")
	}
	if len(line) > projectsReduceToOne {
		entries = renderProjectEntries(experience, 1)
		line = strings.Join(entries, " | ")
	}
	return line
}

func renderProjectEntries(experience []cvstruct.ExperienceItem, max int) []string {
	var entries []string
	for _, item := range experience {
		title := strings.TrimSpace(item.Title)
		company := strings.TrimSpace(item.Company)
		if title == "" && company == "" {
			continue
		}

		var sb strings.Builder
		sb.WriteString(title)
		if company != "" {
			if title != "" {
				sb.WriteString(" - ")
			}
			sb.WriteString(company)
		}
		if period := renderPeriod(item.From, item.To); period != "" {
			sb.WriteString(" (" + period + ")")
		}

		bullets := item.Bullets
		if len(bullets) > 2 {
			bullets = bullets[:2]
		}
		if len(bullets) > 0 {
			sb.WriteString(": ")
			sb.WriteString(strings.Join(bullets, "<br>"))
		}

		entries = append(entries, sb.String())
		if len(entries) == max {
			break
		}
	}
	return entries
}

func renderPeriod(from, to string) string {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	switch {
	case from != "" && to != "":
		return from + " - " + to
	case from != "":
		return from + " - present"
	case to != "":
		return to
	default:
		return ""
	}
}

// Sanitize drops characters outside Latin-1. The legacy fallback renderer
// consumes a single-byte encoding and substitution glyphs corrupt its
// layout, so unsupported characters are removed rather than replaced.
func Sanitize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if r <= 0xFF {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func sanitizeList(items []string) []string {
	sanitized := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(Sanitize(item)); s != "" {
			sanitized = append(sanitized, s)
		}
	}
	return sanitized
}
