package pdftemplate

import (
	"strings"
	"testing"
	"time"

	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateRecommendationShortTextUntouched(t *testing.T) {
	text := "They are a strong hire. No reservations."
	assert.Equal(t, text, TruncateRecommendation(text))
}

func TestTruncateRecommendationNoSentenceBoundary(t *testing.T) {
	text := strings.Repeat("a", 700)

	result := TruncateRecommendation(text)

	require.Equal(t, 503, len(result))
	assert.True(t, strings.HasSuffix(result, "..."))
	assert.Equal(t, strings.Repeat("a", 500), result[:500])
}

func TestTruncateRecommendationCutsAtSentenceBoundary(t *testing.T) {
	text := strings.Repeat("b", 400) + "." + strings.Repeat("c", 299)

	result := TruncateRecommendation(text)

	assert.Equal(t, strings.Repeat("b", 400)+".", result)
	assert.NotContains(t, result, "...")
}

func TestTruncateRecommendationLateBoundaryStillWithinLimit(t *testing.T) {
	text := strings.Repeat("d", 540) + ". " + strings.Repeat("e", 200)

	result := TruncateRecommendation(text)

	assert.Equal(t, strings.Repeat("d", 540)+".", result)
	assert.LessOrEqual(t, len(result), 550)
}

func TestReduceByLength(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		expected int
	}{
		{"short list kept whole", []string{"BSc CS", "MSc CS", "PhD"}, 3},
		{"over 150 keeps two", []string{strings.Repeat("x", 80), strings.Repeat("y", 80), "short"}, 2},
		{"over 200 keeps one", []string{strings.Repeat("x", 120), strings.Repeat("y", 120), strings.Repeat("z", 120)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, reduceByLength(tt.items), tt.expected)
		})
	}
}

func TestSanitizeDropsNonLatin1(t *testing.T) {
	assert.Equal(t, "résumé café", Sanitize("résumé café"))
	assert.Equal(t, "Go developer ", Sanitize("Go developer 🚀"))
	assert.Equal(t, "", Sanitize("日本語"))
}

func TestProjectCapsListsAtThree(t *testing.T) {
	cv := cvstruct.Empty()
	cv.Skills = []string{"Go", "Java", "Python", "Rust", "PHP"}
	cv.Languages = []cvstruct.LanguageItem{
		{Name: "English", Level: "C1"},
		{Name: "German", Level: "B2"},
		{Name: "French"},
		{Name: "Spanish"},
	}

	fields := NewProjector("https://cdn.example.com/logo.png").Project(cv)

	assert.Len(t, fields.CoreSkills, 3)
	assert.Equal(t, []string{"English (C1)", "German (B2)", "French"}, fields.Languages)
	assert.Equal(t, "https://cdn.example.com/logo.png", fields.FooterLogoURL)
}

func TestProjectRendersProjectLine(t *testing.T) {
	cv := cvstruct.Empty()
	cv.WorkExperience = []cvstruct.ExperienceItem{
		{
			Title:   "Backend Developer",
			Company: "Acme",
			From:    "2021-01",
			To:      "2023-06",
			Bullets: []string{"Built the billing pipeline", "Led a team of 3", "A third bullet that must be dropped"},
		},
	}

	fields := NewProjector("").Project(cv)

	assert.Equal(t,
		"Backend Developer - Acme (2021-01 - 2023-06): Built the billing pipeline<br>Led a team of 3",
		fields.ProjectExperienceLine)
}

func TestProjectLineShrinksWhenOverflowing(t *testing.T) {
	long := strings.Repeat("did many impressive things here", 10)
	cv := cvstruct.Empty()
	for i := 0; i < 3; i++ {
		cv.WorkExperience = append(cv.WorkExperience, cvstruct.ExperienceItem{
			Title:   "Engineer",
			Company: "Company",
			Bullets: []string{long},
		})
	}

	fields := NewProjector("").Project(cv)

	// three full entries would exceed 600 chars; the line shrinks to one
	assert.LessOrEqual(t, strings.Count(fields.ProjectExperienceLine, "Engineer - Company"), 1)
}

func TestApplyPaperOverridesCvFields(t *testing.T) {
	content := "Our Recommendation\n" +
		"------------------\n" +
		"- Strong hire, no reservations.\n" +
		"\n" +
		"Core Skills\n" +
		"-----------\n" +
		"- Kotlin\n" +
		"- Terraform\n" +
		"\n" +
		"Soft Skills\n" +
		"-----------\n" +
		"- Mentoring\n"

	cv := cvstruct.Empty()
	cv.Skills = []string{"Go"}
	projector := NewProjector("")
	fields := projector.Project(cv)
	projector.ApplyPaper(&fields, content)

	assert.Equal(t, "Strong hire, no reservations.", fields.Recommendation)
	assert.Equal(t, []string{"Kotlin", "Terraform"}, fields.CoreSkills)
	assert.Equal(t, []string{"Mentoring"}, fields.SoftSkills)
}

func TestSeniorityLabel(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		experience []cvstruct.ExperienceItem
		expected   string
	}{
		{"no experience", nil, "Intern"},
		{"two months", []cvstruct.ExperienceItem{{From: "2025-04", To: "2025-06"}}, "Intern"},
		{"one year", []cvstruct.ExperienceItem{{From: "2024-06", To: "2025-06"}}, "Junior"},
		{"three years", []cvstruct.ExperienceItem{{From: "2022-06", To: "present"}}, "Mid-level"},
		{"seven years across jobs", []cvstruct.ExperienceItem{
			{From: "2018-01", To: "2022-01"},
			{From: "2022-01", To: "present"},
		}, "Senior"},
		{"unparseable dates ignored", []cvstruct.ExperienceItem{{From: "sometime", To: "later"}}, "Intern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SeniorityLabel(tt.experience, now))
		})
	}
}

func TestParsePaperRoundTrip(t *testing.T) {
	content := "Languages\n" +
		"---------\n" +
		"- English (C1)\n" +
		"- German (B2)\n" +
		"\n" +
		"Education\n" +
		"---------\n" +
		"- BSc Computer Science, TU Wien (2015 - 2018)\n"

	sections := ParsePaper(content)

	assert.Equal(t, []string{"English (C1)", "German (B2)"}, sections["Languages"])
	assert.Equal(t, []string{"BSc Computer Science, TU Wien (2015 - 2018)"}, sections["Education"])
}

func TestParsePaperIgnoresMalformedBlocks(t *testing.T) {
	content := "Not A Header\nsome prose\n- stray bullet\n"

	sections := ParsePaper(content)

	assert.Empty(t, sections)
}
