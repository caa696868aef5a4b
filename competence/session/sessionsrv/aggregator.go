package sessionsrv

import (
	"strings"

	"github.com/loresagaashi/cv-converter-agent/competence/session"
)

// paperLayout is the fixed header order of the final paper. The exact
// header text and order are a load-bearing contract: the PDF export path
// re-parses this plain-text layout back into structured fields.
var paperLayout = []struct {
	section session.Section
	header  string
}{
	{session.SectionRecommendation, "Our Recommendation"},
	{session.SectionCoreSkills, "Core Skills"},
	{session.SectionSoftSkills, "Soft Skills"},
	{session.SectionLanguages, "Languages"},
	{session.SectionEducation, "Education"},
	{session.SectionTrainings, "Trainings & Certifications"},
	{session.SectionTechnical, "Technical Competencies"},
	{session.SectionProjects, "Project Experience"},
	{session.SectionAdditionalInfo, "Additional Information from Interview"},
}

// ProjectRecord is one project reconstructed from its tagged turn items
type ProjectRecord struct {
	Role        string
	Description string
	Duration    string
}

// PaperAggregator reduces the turn log into the final paper text.
// Same turn log, same output: generation is idempotent and re-runnable.
type PaperAggregator struct{}

func NewPaperAggregator() *PaperAggregator {
	return &PaperAggregator{}
}

// BuildContent renders the deterministic plain-text paper from the turns.
// Turns with a not_confirmed verdict are discarded; items deduplicate
// case-insensitively within each section preserving first-seen order.
// Returns NoContent when nothing confirmed or new survives filtering.
func (a *PaperAggregator) BuildContent(turns []session.Turn) (string, error) {
	itemsBySection := make(map[session.Section][]string)
	seenBySection := make(map[session.Section]map[string]bool)

	for _, turn := range turns {
		if turn.Verdict.Status == session.StatusNotConfirmed {
			continue
		}
		seen := seenBySection[turn.Section]
		if seen == nil {
			seen = make(map[string]bool)
			seenBySection[turn.Section] = seen
		}
		for _, item := range turn.Verdict.ExtractedItems {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			key := strings.ToLower(item)
			if seen[key] {
				continue
			}
			seen[key] = true
			itemsBySection[turn.Section] = append(itemsBySection[turn.Section], item)
		}
	}

	var sb strings.Builder
	empty := true

	for _, entry := range paperLayout {
		items := itemsBySection[entry.section]
		var bullets []string

		switch entry.section {
		case session.SectionRecommendation:
			// verbatim, space-joined, never truncated here
			if text := strings.Join(items, " "); text != "" {
				bullets = []string{text}
			}
		case session.SectionProjects:
			for _, record := range ReconstructProjects(items) {
				bullets = append(bullets, record.Render())
			}
		default:
			bullets = items
		}

		if len(bullets) == 0 {
			continue
		}
		empty = false

		sb.WriteString(entry.header)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", len(entry.header)))
		sb.WriteString("\n")
		for _, bullet := range bullets {
			sb.WriteString("- ")
			sb.WriteString(bullet)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if empty {
		return "", session.ErrNoContent()
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

// ReconstructProjects groups tagged ROLE:/DESC:/TIME: items back into
// project records. DESC and TIME entries attach to the most recent open
// ROLE entry; untagged legacy items stand alone as role entries.
func ReconstructProjects(items []string) []ProjectRecord {
	var records []ProjectRecord

	for _, item := range items {
		switch {
		case strings.HasPrefix(item, "ROLE:"):
			records = append(records, ProjectRecord{
				Role: strings.TrimSpace(strings.TrimPrefix(item, "ROLE:")),
			})
		case strings.HasPrefix(item, "DESC:"):
			value := strings.TrimSpace(strings.TrimPrefix(item, "DESC:"))
			if i := lastOpenRecord(records, func(r ProjectRecord) bool { return r.Description == "" }); i >= 0 {
				records[i].Description = value
			} else {
				records = append(records, ProjectRecord{Description: value})
			}
		case strings.HasPrefix(item, "TIME:"):
			value := strings.TrimSpace(strings.TrimPrefix(item, "TIME:"))
			if i := lastOpenRecord(records, func(r ProjectRecord) bool { return r.Duration == "" }); i >= 0 {
				records[i].Duration = value
			} else {
				records = append(records, ProjectRecord{Duration: value})
			}
		default:
			records = append(records, ProjectRecord{Role: strings.TrimSpace(item)})
		}
	}

	return records
}

func lastOpenRecord(records []ProjectRecord, open func(ProjectRecord) bool) int {
	for i := len(records) - 1; i >= 0; i-- {
		if open(records[i]) {
			return i
		}
	}
	return -1
}

// Render formats one project as a paper bullet, omitting missing parts
func (r ProjectRecord) Render() string {
	var sb strings.Builder
	sb.WriteString(r.Role)
	if r.Description != "" {
		if sb.Len() > 0 {
			sb.WriteString(" - ")
		}
		sb.WriteString(r.Description)
	}
	if r.Duration != "" {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("(" + r.Duration + ")")
	}
	return sb.String()
}
