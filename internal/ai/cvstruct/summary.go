package cvstruct

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/loresagaashi/cv-converter-agent/internal/ai/llmx"
	"github.com/loresagaashi/cv-converter-agent/pkg/logx"
)

const structureSystemPrompt = `You are a professional CV analyst. Extract structured information from CV text and return ONLY valid JSON.`

const structureUserPromptTemplate = `Extract all information from this CV text in the following JSON structure:

{
  "name": string,
  "profile": string (concise third-person professional summary),
  "work_experience": [{
    "from": string (YYYY-MM),
    "to": string (YYYY-MM or "Present"),
    "title": string,
    "company": string,
    "location": string,
    "bullets": string[] (key responsibilities and achievements)
  }],
  "education": [{
    "from": string (YYYY-MM),
    "to": string (YYYY-MM or "Present"),
    "degree": string,
    "institution": string
  }],
  "projects": [same shape as work_experience],
  "certifications": string[],
  "courses": string[],
  "skills": string[] (flat list, technical and soft),
  "languages": [{"name": string, "level": string}]

}

IMPORTANT:
- Use empty string or empty array when information is missing
- Dates must be "YYYY-MM" or the literal "Present"
- Maintain chronological order (newest first)
- Return ONLY the JSON, no explanatory text

CV TEXT:
`

const summarySystemPrompt = `You are a recruitment analyst. Summarize candidate competences and return ONLY valid JSON.`

const summaryUserPromptTemplate = `Read the CV text below and return JSON of the form:

{
  "profile": string (concise third-person summary of the candidate, max 150 words),
  "skills": string[] (flat list of concrete competences)
}

Return ONLY the JSON.

CV TEXT:
`

// StructureFromText asks the LLM for a structured CV and normalizes whatever
// comes back. LLM failure degrades to the heuristic fallback; never errors.
func StructureFromText(ctx context.Context, completer llmx.Completer, cvText string) StructuredCv {
	raw, err := completer.Complete(ctx, structureSystemPrompt, structureUserPromptTemplate+cvText)
	if err != nil {
		logx.Warnf("CV structuring degraded to heuristic: %v", err)
		raw = ""
	}
	return Normalize(raw, cvText)
}

// CompetenceSummary produces the plain-text competence paper content for a CV:
// a short profile paragraph followed by a skill list. Degrades to the
// heuristic structure when the LLM is unavailable.
func CompetenceSummary(ctx context.Context, completer llmx.Completer, cvText string) string {
	profile := ""
	var skills []string

	raw, err := completer.Complete(ctx, summarySystemPrompt, summaryUserPromptTemplate+cvText)
	if err == nil {
		if obj := ExtractFirstJSONObject(raw); obj != "" {
			var fields map[string]any
			if jsonErr := json.Unmarshal([]byte(obj), &fields); jsonErr == nil {
				profile = strings.TrimSpace(coerceString(fields["profile"]))
				skills = DedupeSkills(coerceStringList(fields["skills"]))
			}
		}
	} else {
		logx.Warnf("Competence summary degraded to heuristic: %v", err)
	}

	if profile == "" && len(skills) == 0 {
		cv := Empty()
		applyTextFallback(&cv, cvText)
		profile = cv.Profile
		skills = cv.Skills
	}

	var sb strings.Builder
	if profile != "" {
		sb.WriteString(profile)
		sb.WriteString("\n")
	}
	if len(skills) > 0 {
		sb.WriteString("\nSkills:\n")
		for _, skill := range skills {
			sb.WriteString("- ")
			sb.WriteString(skill)
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}
