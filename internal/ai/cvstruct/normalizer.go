package cvstruct

import (
	"encoding/json"
	"strings"
)

const profileFallbackMaxLen = 600

// Normalize repairs arbitrary LLM output into a StructuredCv. It never
// returns nil fields and never fails: unusable output degrades to the
// heuristic fallback built from the original CV text.
func Normalize(rawLLMOutput, originalCvText string) StructuredCv {
	cv := Empty()

	if obj := ExtractFirstJSONObject(rawLLMOutput); obj != "" {
		var fields map[string]any
		if err := json.Unmarshal([]byte(obj), &fields); err == nil {
			cv.Name = coerceString(fields["name"])
			cv.Profile = strings.TrimSpace(coerceString(fields["profile"]))
			cv.WorkExperience = coerceExperience(fields["work_experience"])
			cv.Education = coerceEducation(fields["education"])
			cv.Projects = coerceExperience(fields["projects"])
			cv.Certifications = coerceStringList(fields["certifications"])
			cv.Courses = coerceStringList(fields["courses"])
			cv.Skills = DedupeSkills(coerceStringList(fields["skills"]))
			cv.Languages = coerceLanguages(fields["languages"])
		}
	}

	if cv.Profile == "" && len(cv.Skills) == 0 {
		applyTextFallback(&cv, originalCvText)
	}

	return cv
}

// ExtractFirstJSONObject returns the substring from the first "{" to the
// last "}" of the text, tolerating prose around the JSON payload
func ExtractFirstJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// DedupeSkills removes case-insensitive duplicates preserving first-seen order
func DedupeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func coerceStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func coerceExperience(v any) []ExperienceItem {
	items, ok := v.([]any)
	if !ok {
		return []ExperienceItem{}
	}
	out := make([]ExperienceItem, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, ExperienceItem{
			From:     coerceString(fields["from"]),
			To:       coerceString(fields["to"]),
			Title:    coerceString(fields["title"]),
			Company:  coerceString(fields["company"]),
			Location: coerceString(fields["location"]),
			Bullets:  coerceStringList(fields["bullets"]),
		})
	}
	return out
}

func coerceEducation(v any) []EducationItem {
	items, ok := v.([]any)
	if !ok {
		return []EducationItem{}
	}
	out := make([]EducationItem, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, EducationItem{
			From:        coerceString(fields["from"]),
			To:          coerceString(fields["to"]),
			Degree:      coerceString(fields["degree"]),
			Institution: coerceString(fields["institution"]),
		})
	}
	return out
}

// maxLanguages bounds the language list at the template's capacity so
// round-tripped edits cannot grow it past what the PDF can show
const maxLanguages = 3

func coerceLanguages(v any) []LanguageItem {
	items, ok := v.([]any)
	if !ok {
		return []LanguageItem{}
	}
	out := make([]LanguageItem, 0, len(items))
	for _, item := range items {
		if len(out) == maxLanguages {
			break
		}
		switch entry := item.(type) {
		case map[string]any:
			name := coerceString(entry["name"])
			if name != "" {
				out = append(out, LanguageItem{
					Name:  name,
					Level: coerceString(entry["level"]),
				})
			}
		case string:
			if entry = strings.TrimSpace(entry); entry != "" {
				out = append(out, LanguageItem{Name: entry})
			}
		}
	}
	return out
}

// applyTextFallback derives a minimal profile and skill list directly from
// the raw CV text when the LLM gave us nothing usable
func applyTextFallback(cv *StructuredCv, cvText string) {
	lines := strings.Split(cvText, "\n")

	var profileLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		profileLines = append(profileLines, line)
		if len(profileLines) == 3 {
			break
		}
	}
	profile := strings.Join(profileLines, " ")
	if len(profile) > profileFallbackMaxLen {
		profile = profile[:profileFallbackMaxLen]
	}
	cv.Profile = profile

	cv.Skills = DedupeSkills(skillsFromText(lines))
}

func skillsFromText(lines []string) []string {
	skillsIdx := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), "skills") {
			skillsIdx = i
			break
		}
	}
	if skillsIdx == -1 {
		return nil
	}

	var candidates []string
	if _, after, found := strings.Cut(lines[skillsIdx], ":"); found {
		candidates = append(candidates, after)
	}
	for i := skillsIdx + 1; i < len(lines) && i <= skillsIdx+10; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			break
		}
		candidates = append(candidates, line)
	}

	var skills []string
	for _, candidate := range candidates {
		for _, token := range strings.FieldsFunc(candidate, func(r rune) bool {
			return r == ',' || r == ';' || r == '/' || r == '|'
		}) {
			token = strings.Trim(strings.TrimSpace(token), "-•*")
			token = strings.TrimSpace(token)
			if len(token) >= 2 {
				skills = append(skills, token)
			}
		}
	}
	return skills
}
