package cvstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExtractsJSONFromProse(t *testing.T) {
	raw := `Sure! Here is the structured CV you asked for:
{"name":"Jane Doe","profile":"Backend engineer","skills":["Go","Python"],"languages":["English"]}
Let me know if you need anything else.`

	cv := Normalize(raw, "")

	assert.Equal(t, "Jane Doe", cv.Name)
	assert.Equal(t, "Backend engineer", cv.Profile)
	assert.Equal(t, []string{"Go", "Python"}, cv.Skills)
	require.Len(t, cv.Languages, 1)
	assert.Equal(t, "English", cv.Languages[0].Name)
}

func TestNormalizeDeduplicatesSkills(t *testing.T) {
	raw := `{"profile":"dev","skills":["Python","python","PYTHON","Go"]}`

	cv := Normalize(raw, "")

	assert.Equal(t, []string{"Python", "Go"}, cv.Skills)
}

func TestNormalizeCoercesWrongTypes(t *testing.T) {
	raw := `{"name":42,"profile":null,"skills":"not a list","work_experience":{"oops":true},"education":null}`

	cv := Normalize(raw, "")

	assert.Empty(t, cv.Name)
	assert.NotNil(t, cv.Skills)
	assert.NotNil(t, cv.WorkExperience)
	assert.NotNil(t, cv.Education)
	assert.NotNil(t, cv.Projects)
	assert.NotNil(t, cv.Certifications)
	assert.NotNil(t, cv.Courses)
	assert.NotNil(t, cv.Languages)
}

func TestNormalizeGarbageNeverFails(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{broken", "{}"} {
		cv := Normalize(raw, "")
		assert.NotNil(t, cv.Skills, "input %q", raw)
		assert.NotNil(t, cv.WorkExperience, "input %q", raw)
	}
}

func TestNormalizeLanguagesAcceptObjectsAndStrings(t *testing.T) {
	raw := `{"profile":"dev","skills":["Go"],"languages":[{"name":"German","level":"B2"},"French"]}`

	cv := Normalize(raw, "")

	require.Len(t, cv.Languages, 2)
	assert.Equal(t, LanguageItem{Name: "German", Level: "B2"}, cv.Languages[0])
	assert.Equal(t, LanguageItem{Name: "French"}, cv.Languages[1])
}

func TestNormalizeCapsLanguagesAtThree(t *testing.T) {
	raw := `{"profile":"dev","skills":["Go"],"languages":["English","German","French","Spanish","Italian"]}`

	cv := Normalize(raw, "")

	require.Len(t, cv.Languages, maxLanguages)
	assert.Equal(t, "English", cv.Languages[0].Name)
	assert.Equal(t, "French", cv.Languages[2].Name)
}

func TestNormalizeFallsBackToCvText(t *testing.T) {
	cvText := `Jane Doe
Senior Backend Engineer

Skills: Go, Python; Docker
Kubernetes | Terraform

Experience
...`

	cv := Normalize("the model refused to answer", cvText)

	assert.Contains(t, cv.Profile, "Jane Doe")
	assert.Contains(t, cv.Profile, "Senior Backend Engineer")
	assert.Equal(t, []string{"Go", "Python", "Docker", "Kubernetes", "Terraform"}, cv.Skills)
}

func TestNormalizeFallbackBoundsProfileLength(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "a very long line of cv text that keeps going and going\n"
	}

	cv := Normalize("", long)

	assert.LessOrEqual(t, len(cv.Profile), 600)
}

func TestNormalizeDoesNotInventEntries(t *testing.T) {
	raw := `{"profile":"dev","skills":["Go"]}`

	cv := Normalize(raw, "")

	assert.Empty(t, cv.WorkExperience)
	assert.Empty(t, cv.Education)
	assert.Empty(t, cv.Projects)
	assert.Empty(t, cv.Certifications)
}

func TestExtractFirstJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"wrapped in prose", `text {"a":1} more`, `{"a":1}`},
		{"no object", "plain text", ""},
		{"reversed braces", "} {", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractFirstJSONObject(tt.input))
		})
	}
}
